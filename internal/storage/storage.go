package storage

import (
	"context"
	"errors"
	"time"

	"github.com/myjantes/api/internal/domain"
)

var (
	// ErrNotFound covers both missing entities and entities the caller
	// does not own, so lookups never leak existence.
	ErrNotFound = errors.New("not found")

	ErrEmailTaken = errors.New("email already taken")

	ErrSlotTaken = errors.New("time slot already booked")

	ErrQuoteAlreadyAccepted = errors.New("quote already accepted")

	// ErrQuoteClosed rejects pricing a quote that already left the
	// pending/sent stage for a reason other than acceptance.
	ErrQuoteClosed = errors.New("quote closed")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error)
	SetRole(ctx context.Context, id, role string) error
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
	// CountActiveBySlot counts non-cancelled bookings sharing a date and
	// time slot. Used by the optional double-booking guard.
	CountActiveBySlot(ctx context.Context, date time.Time, timeSlot string) (int, error)
}

type QuoteRepository interface {
	Create(ctx context.Context, quote *domain.Quote) error
	GetByID(ctx context.Context, id string) (*domain.Quote, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Quote, error)
	List(ctx context.Context) ([]domain.Quote, error)
	// Send prices a quote and moves it to "sent".
	Send(ctx context.Context, id, amount string) (*domain.Quote, error)
	// Accept flips the quote to "accepted" and persists the invoice
	// built by newInvoice as one atomic unit. Returns ErrNotFound when
	// the quote is missing or not owned by userID, and
	// ErrQuoteAlreadyAccepted when a previous accept already won.
	Accept(ctx context.Context, id, userID string, newInvoice func(q *domain.Quote) *domain.Invoice) (*domain.Quote, *domain.Invoice, error)
	// Reject closes an open quote. Same ownership and status rules as
	// Accept, except no invoice is derived.
	Reject(ctx context.Context, id, userID string) (*domain.Quote, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error)
	ListByQuote(ctx context.Context, quoteID string) ([]domain.Invoice, error)
	MarkPaid(ctx context.Context, id string, paidAt time.Time) (*domain.Invoice, error)
}

type ServiceRepository interface {
	List(ctx context.Context) ([]domain.Service, error)
	GetByID(ctx context.Context, id string) (*domain.Service, error)
}
