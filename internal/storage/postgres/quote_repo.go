package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
)

type QuoteRepo struct {
	pool *pgxpool.Pool
}

func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

const quoteCols = `id, user_id, services, wheel_condition,
vehicle_brand, vehicle_model, vehicle_year, wheel_size,
customer_name, customer_email, customer_phone, customer_postal_code,
image_urls, amount, status, created_at`

func (r *QuoteRepo) Create(ctx context.Context, q *domain.Quote) error {
	const sql = `INSERT INTO quotes (
		id, user_id, services, wheel_condition,
		vehicle_brand, vehicle_model, vehicle_year, wheel_size,
		customer_name, customer_email, customer_phone, customer_postal_code,
		image_urls, amount, status, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, sql,
		q.ID, q.UserID, q.Services, q.WheelCondition,
		q.VehicleBrand, q.VehicleModel, q.VehicleYear, q.WheelSize,
		q.CustomerName, q.CustomerEmail, q.CustomerPhone, q.CustomerPostalCode,
		q.ImageURLs, q.Amount, q.Status, q.CreatedAt,
	)
	return err
}

func (r *QuoteRepo) GetByID(ctx context.Context, id string) (*domain.Quote, error) {
	const sql = `SELECT ` + quoteCols + ` FROM quotes WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanQuote(r.pool.QueryRow(ctx, sql, id))
}

func (r *QuoteRepo) ListByUser(ctx context.Context, userID string) ([]domain.Quote, error) {
	const sql = `SELECT ` + quoteCols + ` FROM quotes WHERE user_id = $1 ORDER BY created_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuotes(rows)
}

func (r *QuoteRepo) List(ctx context.Context) ([]domain.Quote, error) {
	const sql = `SELECT ` + quoteCols + ` FROM quotes ORDER BY created_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectQuotes(rows)
}

func (r *QuoteRepo) Send(ctx context.Context, id, amount string) (*domain.Quote, error) {
	// The status filter keeps an accepted quote from re-entering the
	// sent stage, which would open the door to a second invoice.
	const sql = `
		UPDATE quotes SET amount = $2, status = 'sent'
		WHERE id = $1 AND status IN ('pending', 'sent')
		RETURNING ` + quoteCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	q, err := scanQuote(r.pool.QueryRow(ctx, sql, id, amount))
	if !errors.Is(err, storage.ErrNotFound) {
		return q, err
	}

	var status string
	switch err := r.pool.QueryRow(ctx, `SELECT status FROM quotes WHERE id = $1`, id).Scan(&status); {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, storage.ErrNotFound
	case err != nil:
		return nil, err
	case status == string(domain.QuoteAccepted):
		return nil, storage.ErrQuoteAlreadyAccepted
	default:
		return nil, storage.ErrQuoteClosed
	}
}

// Accept runs the status flip and the invoice insert in one
// transaction. The row lock on the quote serializes concurrent accepts.
func (r *QuoteRepo) Accept(ctx context.Context, id, userID string, newInvoice func(q *domain.Quote) *domain.Invoice) (*domain.Quote, *domain.Invoice, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin accept tx: %w", err)
	}
	defer tx.Rollback(ctx)

	const lockSQL = `SELECT ` + quoteCols + ` FROM quotes WHERE id = $1 AND user_id = $2 FOR UPDATE`
	q, err := scanQuote(tx.QueryRow(ctx, lockSQL, id, userID))
	if err != nil {
		return nil, nil, err
	}
	if q.Status == domain.QuoteAccepted {
		return nil, nil, storage.ErrQuoteAlreadyAccepted
	}
	if q.Status == domain.QuoteRejected {
		return nil, nil, storage.ErrQuoteClosed
	}

	const updateSQL = `UPDATE quotes SET status = 'accepted' WHERE id = $1 RETURNING ` + quoteCols
	q, err = scanQuote(tx.QueryRow(ctx, updateSQL, id))
	if err != nil {
		return nil, nil, err
	}

	inv := newInvoice(q)
	const invSQL = `INSERT INTO invoices (
		id, user_id, quote_id, invoice_number, amount, status, issued_at, paid_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	if _, err := tx.Exec(ctx, invSQL,
		inv.ID, inv.UserID, inv.QuoteID, inv.InvoiceNumber,
		inv.Amount, inv.Status, inv.IssuedAt, inv.PaidAt,
	); err != nil {
		return nil, nil, fmt.Errorf("insert invoice: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit accept tx: %w", err)
	}
	return q, inv, nil
}

func (r *QuoteRepo) Reject(ctx context.Context, id, userID string) (*domain.Quote, error) {
	const sql = `
		UPDATE quotes SET status = 'rejected'
		WHERE id = $1 AND user_id = $2 AND status IN ('pending', 'sent')
		RETURNING ` + quoteCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	q, err := scanQuote(r.pool.QueryRow(ctx, sql, id, userID))
	if !errors.Is(err, storage.ErrNotFound) {
		return q, err
	}

	var status string
	switch err := r.pool.QueryRow(ctx, `SELECT status FROM quotes WHERE id = $1 AND user_id = $2`, id, userID).Scan(&status); {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, storage.ErrNotFound
	case err != nil:
		return nil, err
	case status == string(domain.QuoteAccepted):
		return nil, storage.ErrQuoteAlreadyAccepted
	default:
		return nil, storage.ErrQuoteClosed
	}
}

func scanQuote(row pgx.Row) (*domain.Quote, error) {
	var q domain.Quote
	err := row.Scan(
		&q.ID, &q.UserID, &q.Services, &q.WheelCondition,
		&q.VehicleBrand, &q.VehicleModel, &q.VehicleYear, &q.WheelSize,
		&q.CustomerName, &q.CustomerEmail, &q.CustomerPhone, &q.CustomerPostalCode,
		&q.ImageURLs, &q.Amount, &q.Status, &q.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func collectQuotes(rows pgx.Rows) ([]domain.Quote, error) {
	var quotes []domain.Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}
