// Package memory implements the storage interfaces with mutex-guarded
// maps. It is the reference backend: no durability, insertion-order
// listings, and the same semantics the postgres backend provides.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
)

type Store struct {
	usersMu    sync.RWMutex
	users      map[string]domain.User
	userOrder  []string
	bookingsMu sync.RWMutex
	bookings   map[string]domain.Booking
	bookOrder  []string
	quotesMu   sync.RWMutex
	quotes     map[string]domain.Quote
	quoteOrder []string
	invoicesMu sync.RWMutex
	invoices   map[string]domain.Invoice
	invOrder   []string
	services   []domain.Service
}

func New() *Store {
	return &Store{
		users:    make(map[string]domain.User),
		bookings: make(map[string]domain.Booking),
		quotes:   make(map[string]domain.Quote),
		invoices: make(map[string]domain.Invoice),
		services: domain.DefaultServices(),
	}
}

func (s *Store) Users() storage.UserRepository       { return (*userRepo)(s) }
func (s *Store) Bookings() storage.BookingRepository { return (*bookingRepo)(s) }
func (s *Store) Quotes() storage.QuoteRepository     { return (*quoteRepo)(s) }
func (s *Store) Invoices() storage.InvoiceRepository { return (*invoiceRepo)(s) }
func (s *Store) Services() storage.ServiceRepository { return (*serviceRepo)(s) }

// ---- users ----

type userRepo Store

func (r *userRepo) Create(_ context.Context, user *domain.User) error {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return storage.ErrEmailTaken
		}
	}
	r.users[user.ID] = *user
	r.userOrder = append(r.userOrder, user.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.usersMu.RLock()
	defer r.usersMu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.usersMu.RLock()
	defer r.usersMu.RUnlock()

	for _, id := range r.userOrder {
		u := r.users[id]
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, id string, req *domain.UpdateProfileRequest) (*domain.User, error) {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	if req.Name != nil {
		u.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		for otherID, other := range r.users {
			if otherID != id && strings.EqualFold(other.Email, email) {
				return nil, storage.ErrEmailTaken
			}
		}
		u.Email = email
	}
	if req.Phone != nil {
		u.Phone = req.Phone
	}
	if req.Address != nil {
		u.Address = req.Address
	}
	r.users[id] = u
	return &u, nil
}

func (r *userRepo) SetRole(_ context.Context, id, role string) error {
	r.usersMu.Lock()
	defer r.usersMu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Role = role
	r.users[id] = u
	return nil
}

// ---- bookings ----

type bookingRepo Store

func (r *bookingRepo) Create(_ context.Context, booking *domain.Booking) error {
	r.bookingsMu.Lock()
	defer r.bookingsMu.Unlock()

	r.bookings[booking.ID] = *booking
	r.bookOrder = append(r.bookOrder, booking.ID)
	return nil
}

func (r *bookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	r.bookingsMu.RLock()
	defer r.bookingsMu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &b, nil
}

func (r *bookingRepo) ListByUser(_ context.Context, userID string) ([]domain.Booking, error) {
	r.bookingsMu.RLock()
	defer r.bookingsMu.RUnlock()

	var out []domain.Booking
	for _, id := range r.bookOrder {
		b := r.bookings[id]
		if b.UserID != nil && *b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *bookingRepo) List(_ context.Context) ([]domain.Booking, error) {
	r.bookingsMu.RLock()
	defer r.bookingsMu.RUnlock()

	out := make([]domain.Booking, 0, len(r.bookOrder))
	for _, id := range r.bookOrder {
		out = append(out, r.bookings[id])
	}
	return out, nil
}

func (r *bookingRepo) UpdateStatus(_ context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	r.bookingsMu.Lock()
	defer r.bookingsMu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	b.Status = status
	r.bookings[id] = b
	return &b, nil
}

func (r *bookingRepo) CountActiveBySlot(_ context.Context, date time.Time, timeSlot string) (int, error) {
	r.bookingsMu.RLock()
	defer r.bookingsMu.RUnlock()

	y, m, d := date.Date()
	count := 0
	for _, b := range r.bookings {
		by, bm, bd := b.Date.Date()
		if by == y && bm == m && bd == d && b.TimeSlot == timeSlot && b.Status != domain.BookingCancelled {
			count++
		}
	}
	return count, nil
}

// ---- quotes ----

type quoteRepo Store

func (r *quoteRepo) Create(_ context.Context, quote *domain.Quote) error {
	r.quotesMu.Lock()
	defer r.quotesMu.Unlock()

	r.quotes[quote.ID] = *quote
	r.quoteOrder = append(r.quoteOrder, quote.ID)
	return nil
}

func (r *quoteRepo) GetByID(_ context.Context, id string) (*domain.Quote, error) {
	r.quotesMu.RLock()
	defer r.quotesMu.RUnlock()

	q, ok := r.quotes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &q, nil
}

func (r *quoteRepo) ListByUser(_ context.Context, userID string) ([]domain.Quote, error) {
	r.quotesMu.RLock()
	defer r.quotesMu.RUnlock()

	var out []domain.Quote
	for _, id := range r.quoteOrder {
		q := r.quotes[id]
		if q.UserID != nil && *q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (r *quoteRepo) List(_ context.Context) ([]domain.Quote, error) {
	r.quotesMu.RLock()
	defer r.quotesMu.RUnlock()

	out := make([]domain.Quote, 0, len(r.quoteOrder))
	for _, id := range r.quoteOrder {
		out = append(out, r.quotes[id])
	}
	return out, nil
}

func (r *quoteRepo) Send(_ context.Context, id, amount string) (*domain.Quote, error) {
	r.quotesMu.Lock()
	defer r.quotesMu.Unlock()

	q, ok := r.quotes[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	// Only an open quote can be priced. An accepted quote already has
	// its invoice and must never re-enter the sent stage.
	switch q.Status {
	case domain.QuotePending, domain.QuoteSent:
	case domain.QuoteAccepted:
		return nil, storage.ErrQuoteAlreadyAccepted
	default:
		return nil, storage.ErrQuoteClosed
	}
	q.Amount = &amount
	q.Status = domain.QuoteSent
	r.quotes[id] = q
	return &q, nil
}

// Accept serializes on the quotes lock, so concurrent accepts on the
// same quote observe each other: exactly one wins and creates the
// invoice.
func (r *quoteRepo) Accept(_ context.Context, id, userID string, newInvoice func(q *domain.Quote) *domain.Invoice) (*domain.Quote, *domain.Invoice, error) {
	r.quotesMu.Lock()
	defer r.quotesMu.Unlock()

	q, ok := r.quotes[id]
	if !ok || q.UserID == nil || *q.UserID != userID {
		return nil, nil, storage.ErrNotFound
	}
	if q.Status == domain.QuoteAccepted {
		return nil, nil, storage.ErrQuoteAlreadyAccepted
	}
	if q.Status == domain.QuoteRejected {
		return nil, nil, storage.ErrQuoteClosed
	}

	q.Status = domain.QuoteAccepted
	r.quotes[id] = q

	inv := newInvoice(&q)

	r.invoicesMu.Lock()
	r.invoices[inv.ID] = *inv
	r.invOrder = append(r.invOrder, inv.ID)
	r.invoicesMu.Unlock()

	return &q, inv, nil
}

func (r *quoteRepo) Reject(_ context.Context, id, userID string) (*domain.Quote, error) {
	r.quotesMu.Lock()
	defer r.quotesMu.Unlock()

	q, ok := r.quotes[id]
	if !ok || q.UserID == nil || *q.UserID != userID {
		return nil, storage.ErrNotFound
	}
	switch q.Status {
	case domain.QuotePending, domain.QuoteSent:
	case domain.QuoteAccepted:
		return nil, storage.ErrQuoteAlreadyAccepted
	default:
		return nil, storage.ErrQuoteClosed
	}

	q.Status = domain.QuoteRejected
	r.quotes[id] = q
	return &q, nil
}

// ---- invoices ----

type invoiceRepo Store

func (r *invoiceRepo) Create(_ context.Context, invoice *domain.Invoice) error {
	r.invoicesMu.Lock()
	defer r.invoicesMu.Unlock()

	r.invoices[invoice.ID] = *invoice
	r.invOrder = append(r.invOrder, invoice.ID)
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, id string) (*domain.Invoice, error) {
	r.invoicesMu.RLock()
	defer r.invoicesMu.RUnlock()

	inv, ok := r.invoices[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &inv, nil
}

func (r *invoiceRepo) ListByUser(_ context.Context, userID string) ([]domain.Invoice, error) {
	r.invoicesMu.RLock()
	defer r.invoicesMu.RUnlock()

	var out []domain.Invoice
	for _, id := range r.invOrder {
		inv := r.invoices[id]
		if inv.UserID != nil && *inv.UserID == userID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *invoiceRepo) ListByQuote(_ context.Context, quoteID string) ([]domain.Invoice, error) {
	r.invoicesMu.RLock()
	defer r.invoicesMu.RUnlock()

	var out []domain.Invoice
	for _, id := range r.invOrder {
		inv := r.invoices[id]
		if inv.QuoteID != nil && *inv.QuoteID == quoteID {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (r *invoiceRepo) MarkPaid(_ context.Context, id string, paidAt time.Time) (*domain.Invoice, error) {
	r.invoicesMu.Lock()
	defer r.invoicesMu.Unlock()

	inv, ok := r.invoices[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	inv.Status = domain.InvoicePaid
	inv.PaidAt = &paidAt
	r.invoices[id] = inv
	return &inv, nil
}

// ---- services ----

type serviceRepo Store

func (r *serviceRepo) List(_ context.Context) ([]domain.Service, error) {
	out := make([]domain.Service, len(r.services))
	copy(out, r.services)
	return out, nil
}

func (r *serviceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	for _, svc := range r.services {
		if svc.ID == id {
			s := svc
			return &s, nil
		}
	}
	return nil, storage.ErrNotFound
}
