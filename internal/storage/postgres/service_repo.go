package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
)

type ServiceRepo struct {
	pool *pgxpool.Pool
}

func NewServiceRepo(pool *pgxpool.Pool) *ServiceRepo {
	return &ServiceRepo{pool: pool}
}

// Seed inserts the default catalog. Existing rows are left untouched.
func (r *ServiceRepo) Seed(ctx context.Context) error {
	const q = `INSERT INTO services (id, name, description, base_price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	for _, svc := range domain.DefaultServices() {
		if _, err := r.pool.Exec(ctx, q, svc.ID, svc.Name, svc.Description, svc.BasePrice); err != nil {
			return err
		}
	}
	return nil
}

func (r *ServiceRepo) List(ctx context.Context) ([]domain.Service, error) {
	const q = `SELECT id, name, description, base_price FROM services ORDER BY name ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []domain.Service
	for rows.Next() {
		var svc domain.Service
		if err := rows.Scan(&svc.ID, &svc.Name, &svc.Description, &svc.BasePrice); err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, rows.Err()
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	const q = `SELECT id, name, description, base_price FROM services WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var svc domain.Service
	err := r.pool.QueryRow(ctx, q, id).Scan(&svc.ID, &svc.Name, &svc.Description, &svc.BasePrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
