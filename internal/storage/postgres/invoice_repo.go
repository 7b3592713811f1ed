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

type InvoiceRepo struct {
	pool *pgxpool.Pool
}

func NewInvoiceRepo(pool *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{pool: pool}
}

const invoiceCols = `id, user_id, quote_id, invoice_number, amount, status, issued_at, paid_at`

func (r *InvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	const q = `INSERT INTO invoices (
		id, user_id, quote_id, invoice_number, amount, status, issued_at, paid_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	_, err := r.pool.Exec(ctx, q,
		inv.ID, inv.UserID, inv.QuoteID, inv.InvoiceNumber,
		inv.Amount, inv.Status, inv.IssuedAt, inv.PaidAt,
	)
	return err
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanInvoice(r.pool.QueryRow(ctx, q, id))
}

func (r *InvoiceRepo) ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE user_id = $1 ORDER BY issued_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *InvoiceRepo) ListByQuote(ctx context.Context, quoteID string) ([]domain.Invoice, error) {
	const q = `SELECT ` + invoiceCols + ` FROM invoices WHERE quote_id = $1 ORDER BY issued_at ASC`

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, quoteID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvoices(rows)
}

func (r *InvoiceRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Invoice, error) {
	const q = `UPDATE invoices SET status = 'paid', paid_at = $2 WHERE id = $1 RETURNING ` + invoiceCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanInvoice(r.pool.QueryRow(ctx, q, id, paidAt))
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := row.Scan(&inv.ID, &inv.UserID, &inv.QuoteID, &inv.InvoiceNumber, &inv.Amount, &inv.Status, &inv.IssuedAt, &inv.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func collectInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}
