package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
)

func newUser(email string) *domain.User {
	return &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      "Jean Dupont",
		Role:      domain.RoleCustomer,
		CreatedAt: time.Now(),
	}
}

func newQuote(userID string) *domain.Quote {
	return &domain.Quote{
		ID:                 uuid.NewString(),
		UserID:             &userID,
		Services:           []string{"renovation"},
		WheelCondition:     "rayée",
		VehicleBrand:       "Peugeot",
		VehicleModel:       "308",
		VehicleYear:        "2019",
		WheelSize:          "17",
		CustomerName:       "Jean Dupont",
		CustomerEmail:      "jean@example.fr",
		CustomerPhone:      "0601020304",
		CustomerPostalCode: "59000",
		Status:             domain.QuotePending,
		CreatedAt:          time.Now(),
	}
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Users().Create(ctx, newUser("jean@example.fr")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	err := s.Users().Create(ctx, newUser("JEAN@example.fr"))
	if !errors.Is(err, storage.ErrEmailTaken) {
		t.Errorf("second create: err = %v, want ErrEmailTaken", err)
	}
}

func TestUserGetByEmailCaseInsensitive(t *testing.T) {
	s := New()
	ctx := context.Background()

	u := newUser("jean@example.fr")
	if err := s.Users().Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := s.Users().GetByEmail(ctx, "Jean@Example.FR")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("GetByEmail returned user %s, want %s", got.ID, u.ID)
	}
}

func TestListByUserInsertionOrder(t *testing.T) {
	s := New()
	ctx := context.Background()
	userID := uuid.NewString()

	var ids []string
	for i := 0; i < 3; i++ {
		q := newQuote(userID)
		ids = append(ids, q.ID)
		if err := s.Quotes().Create(ctx, q); err != nil {
			t.Fatalf("create quote: %v", err)
		}
	}

	quotes, err := s.Quotes().ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(quotes) != 3 {
		t.Fatalf("got %d quotes, want 3", len(quotes))
	}
	for i, q := range quotes {
		if q.ID != ids[i] {
			t.Errorf("quote[%d] = %s, want %s (insertion order)", i, q.ID, ids[i])
		}
	}
}

func TestAcceptNotOwned(t *testing.T) {
	s := New()
	ctx := context.Background()

	owner := uuid.NewString()
	q := newQuote(owner)
	if err := s.Quotes().Create(ctx, q); err != nil {
		t.Fatalf("create quote: %v", err)
	}

	_, _, err := s.Quotes().Accept(ctx, q.ID, uuid.NewString(), func(q *domain.Quote) *domain.Invoice {
		t.Fatal("invoice constructor should not run for unowned quote")
		return nil
	})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Accept by non-owner: err = %v, want ErrNotFound", err)
	}
}

func TestConcurrentAcceptCreatesOneInvoice(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.NewString()
	q := newQuote(userID)
	amount := "150.00"
	q.Amount = &amount
	q.Status = domain.QuoteSent
	if err := s.Quotes().Create(ctx, q); err != nil {
		t.Fatalf("create quote: %v", err)
	}

	makeInvoice := func(q *domain.Quote) *domain.Invoice {
		return &domain.Invoice{
			ID:            uuid.NewString(),
			UserID:        q.UserID,
			QuoteID:       &q.ID,
			InvoiceNumber: domain.NewInvoiceNumber(),
			Amount:        *q.Amount,
			Status:        domain.InvoiceUnpaid,
			IssuedAt:      time.Now(),
		}
	}

	const callers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.Quotes().Accept(ctx, q.ID, userID, makeInvoice)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, storage.ErrQuoteAlreadyAccepted):
				conflicts++
			default:
				t.Errorf("unexpected accept error: %v", err)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Errorf("wins = %d, want exactly 1", wins)
	}
	if conflicts != callers-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, callers-1)
	}

	invoices, err := s.Invoices().ListByQuote(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListByQuote: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("invoice count = %d, want 1", len(invoices))
	}
	if invoices[0].Amount != "150.00" {
		t.Errorf("invoice amount = %q, want %q", invoices[0].Amount, "150.00")
	}

	got, err := s.Quotes().GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.QuoteAccepted {
		t.Errorf("quote status = %q, want accepted", got.Status)
	}
}

func TestSendAcceptedQuoteKeepsSingleInvoice(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.NewString()
	q := newQuote(userID)
	if err := s.Quotes().Create(ctx, q); err != nil {
		t.Fatalf("create quote: %v", err)
	}

	makeInvoice := func(q *domain.Quote) *domain.Invoice {
		return &domain.Invoice{
			ID:            uuid.NewString(),
			UserID:        q.UserID,
			QuoteID:       &q.ID,
			InvoiceNumber: domain.NewInvoiceNumber(),
			Amount:        *q.Amount,
			Status:        domain.InvoiceUnpaid,
			IssuedAt:      time.Now(),
		}
	}

	// Re-pricing an open quote is allowed.
	if _, err := s.Quotes().Send(ctx, q.ID, "150.00"); err != nil {
		t.Fatalf("first send: %v", err)
	}
	if _, err := s.Quotes().Send(ctx, q.ID, "175.00"); err != nil {
		t.Fatalf("re-send while sent: %v", err)
	}

	if _, _, err := s.Quotes().Accept(ctx, q.ID, userID, makeInvoice); err != nil {
		t.Fatalf("accept: %v", err)
	}

	// An accepted quote must never re-enter the sent stage.
	if _, err := s.Quotes().Send(ctx, q.ID, "999.00"); !errors.Is(err, storage.ErrQuoteAlreadyAccepted) {
		t.Fatalf("send after accept: err = %v, want ErrQuoteAlreadyAccepted", err)
	}

	got, err := s.Quotes().GetByID(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Status != domain.QuoteAccepted {
		t.Errorf("quote status = %q, want accepted", got.Status)
	}
	if *got.Amount != "175.00" {
		t.Errorf("amount = %q, want the accepted price 175.00", *got.Amount)
	}

	if _, _, err := s.Quotes().Accept(ctx, q.ID, userID, makeInvoice); !errors.Is(err, storage.ErrQuoteAlreadyAccepted) {
		t.Fatalf("second accept: err = %v, want ErrQuoteAlreadyAccepted", err)
	}

	invoices, err := s.Invoices().ListByQuote(ctx, q.ID)
	if err != nil {
		t.Fatalf("ListByQuote: %v", err)
	}
	if len(invoices) != 1 {
		t.Fatalf("invoice count = %d, want exactly 1", len(invoices))
	}
}

func TestRejectQuoteClosesIt(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.NewString()
	q := newQuote(userID)
	if err := s.Quotes().Create(ctx, q); err != nil {
		t.Fatalf("create quote: %v", err)
	}
	if _, err := s.Quotes().Send(ctx, q.ID, "150.00"); err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := s.Quotes().Reject(ctx, q.ID, uuid.NewString()); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("reject by stranger: err = %v, want ErrNotFound", err)
	}

	rejected, err := s.Quotes().Reject(ctx, q.ID, userID)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != domain.QuoteRejected {
		t.Errorf("status = %q, want rejected", rejected.Status)
	}

	makeInvoice := func(q *domain.Quote) *domain.Invoice {
		return &domain.Invoice{ID: uuid.NewString(), QuoteID: &q.ID, Status: domain.InvoiceUnpaid}
	}
	if _, _, err := s.Quotes().Accept(ctx, q.ID, userID, makeInvoice); !errors.Is(err, storage.ErrQuoteClosed) {
		t.Errorf("accept after reject: err = %v, want ErrQuoteClosed", err)
	}
	if _, err := s.Quotes().Send(ctx, q.ID, "175.00"); !errors.Is(err, storage.ErrQuoteClosed) {
		t.Errorf("send after reject: err = %v, want ErrQuoteClosed", err)
	}
	if _, err := s.Quotes().Reject(ctx, q.ID, userID); !errors.Is(err, storage.ErrQuoteClosed) {
		t.Errorf("second reject: err = %v, want ErrQuoteClosed", err)
	}
}

func TestCountActiveBySlotIgnoresCancelled(t *testing.T) {
	s := New()
	ctx := context.Background()
	date := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

	mk := func(status domain.BookingStatus) *domain.Booking {
		return &domain.Booking{
			ID:       uuid.NewString(),
			Date:     date,
			TimeSlot: "09:00",
			Status:   status,
		}
	}
	for _, st := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled} {
		if err := s.Bookings().Create(ctx, mk(st)); err != nil {
			t.Fatalf("create booking: %v", err)
		}
	}

	count, err := s.Bookings().CountActiveBySlot(ctx, date, "09:00")
	if err != nil {
		t.Fatalf("CountActiveBySlot: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2 (cancelled excluded)", count)
	}
}

func TestMarkPaid(t *testing.T) {
	s := New()
	ctx := context.Background()

	userID := uuid.NewString()
	inv := &domain.Invoice{
		ID:            uuid.NewString(),
		UserID:        &userID,
		InvoiceNumber: domain.NewInvoiceNumber(),
		Amount:        "80.00",
		Status:        domain.InvoiceUnpaid,
		IssuedAt:      time.Now(),
	}
	if err := s.Invoices().Create(ctx, inv); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	paidAt := time.Now()
	got, err := s.Invoices().MarkPaid(ctx, inv.ID, paidAt)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if got.Status != domain.InvoicePaid {
		t.Errorf("status = %q, want paid", got.Status)
	}
	if got.PaidAt == nil || !got.PaidAt.Equal(paidAt) {
		t.Errorf("paidAt = %v, want %v", got.PaidAt, paidAt)
	}
}
