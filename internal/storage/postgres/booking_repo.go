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

type BookingRepo struct {
	pool *pgxpool.Pool
}

func NewBookingRepo(pool *pgxpool.Pool) *BookingRepo {
	return &BookingRepo{pool: pool}
}

const bookingCols = `id, user_id, service_id, date, time_slot, wheel_count,
vehicle_brand, vehicle_model, vehicle_year,
customer_name, customer_email, customer_phone, customer_postal_code,
comments, status, created_at`

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	const q = `INSERT INTO bookings (
		id, user_id, service_id, date, time_slot, wheel_count,
		vehicle_brand, vehicle_model, vehicle_year,
		customer_name, customer_email, customer_phone, customer_postal_code,
		comments, status, created_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q,
		b.ID, b.UserID, b.ServiceID, b.Date, b.TimeSlot, b.WheelCount,
		b.VehicleBrand, b.VehicleModel, b.VehicleYear,
		b.CustomerName, b.CustomerEmail, b.CustomerPhone, b.CustomerPostalCode,
		b.Comments, b.Status, b.CreatedAt,
	)
	return err
}

func (r *BookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q, id))
}

func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings WHERE user_id = $1 ORDER BY created_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingCols + ` FROM bookings ORDER BY created_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	const q = `UPDATE bookings SET status = $2 WHERE id = $1 RETURNING ` + bookingCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanBooking(r.pool.QueryRow(ctx, q, id, status))
}

func (r *BookingRepo) CountActiveBySlot(ctx context.Context, date time.Time, timeSlot string) (int, error) {
	const q = `SELECT count(*) FROM bookings WHERE date::date = $1::date AND time_slot = $2 AND status != 'cancelled'`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count int
	err := r.pool.QueryRow(ctx, q, date, timeSlot).Scan(&count)
	return count, err
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(
		&b.ID, &b.UserID, &b.ServiceID, &b.Date, &b.TimeSlot, &b.WheelCount,
		&b.VehicleBrand, &b.VehicleModel, &b.VehicleYear,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.CustomerPostalCode,
		&b.Comments, &b.Status, &b.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func collectBookings(rows pgx.Rows) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
