package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage/memory"
	"github.com/myjantes/api/pkg/events"
)

// localBus delivers synchronously to subscribers in the test process.
type localBus struct {
	handlers map[string]func(msg *events.Message)
}

func newLocalBus() *localBus {
	return &localBus{handlers: make(map[string]func(msg *events.Message))}
}

func (b *localBus) Subscribe(subject string, handler func(msg *events.Message)) error {
	b.handlers[subject] = handler
	return nil
}

func (b *localBus) QueueSubscribe(subject, _ string, handler func(msg *events.Message)) error {
	b.handlers[subject] = handler
	return nil
}

func (b *localBus) Close() error { return nil }

func (b *localBus) emit(t *testing.T, subject string, data interface{}) {
	t.Helper()
	handler, ok := b.handlers[subject]
	if !ok {
		t.Fatalf("no subscription for %s", subject)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	handler(&events.Message{Subject: subject, Data: payload, Timestamp: time.Now()})
}

type sentMail struct {
	kind  string
	to    string
	name  string
	extra string
}

type stubMailer struct {
	sent []sentMail
}

func (m *stubMailer) SendBookingReceived(toEmail, toName, serviceName, date, timeSlot string) error {
	m.sent = append(m.sent, sentMail{kind: "booking", to: toEmail, name: toName, extra: serviceName})
	return nil
}

func (m *stubMailer) SendQuoteSent(toEmail, toName, quoteID, amount string) error {
	m.sent = append(m.sent, sentMail{kind: "quote", to: toEmail, name: toName, extra: amount})
	return nil
}

func (m *stubMailer) SendInvoiceIssued(toEmail, toName, invoiceNumber, amount string) error {
	m.sent = append(m.sent, sentMail{kind: "invoice", to: toEmail, name: toName, extra: invoiceNumber})
	return nil
}

func (m *stubMailer) SendPaymentReceipt(toEmail, toName, invoiceNumber, amount string) error {
	m.sent = append(m.sent, sentMail{kind: "receipt", to: toEmail, name: toName, extra: invoiceNumber})
	return nil
}

func setup(t *testing.T) (*localBus, *stubMailer, *memory.Store) {
	t.Helper()
	bus := newLocalBus()
	mail := &stubMailer{}
	store := memory.New()

	consumer := NewConsumer(bus, mail, store.Users(), store.Services())
	if err := consumer.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return bus, mail, store
}

func TestBookingCreatedSendsEmailWithServiceName(t *testing.T) {
	bus, mail, store := setup(t)

	services, err := store.Services().List(context.Background())
	if err != nil || len(services) == 0 {
		t.Fatalf("seeded services: %v", err)
	}

	bus.emit(t, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:     "b-1",
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean@example.com",
		ServiceID:     services[0].ID,
		Date:          time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		TimeSlot:      "09:00",
	})

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	got := mail.sent[0]
	if got.kind != "booking" || got.to != "jean@example.com" {
		t.Errorf("unexpected mail %+v", got)
	}
	if got.extra != services[0].Name {
		t.Errorf("service name = %q, want %q", got.extra, services[0].Name)
	}
}

func TestQuoteSentSendsEmail(t *testing.T) {
	bus, mail, _ := setup(t)

	bus.emit(t, events.QuoteSent, events.QuoteSentEvent{
		QuoteID:       "q-1",
		CustomerName:  "Marie",
		CustomerEmail: "marie@example.com",
		Amount:        "150.00",
	})

	if len(mail.sent) != 1 || mail.sent[0].kind != "quote" {
		t.Fatalf("sent = %+v", mail.sent)
	}
	if mail.sent[0].extra != "150.00" {
		t.Errorf("amount = %q", mail.sent[0].extra)
	}
}

func TestInvoiceCreatedResolvesUser(t *testing.T) {
	bus, mail, store := setup(t)

	user := &domain.User{ID: "u-1", Email: "paul@example.com", Name: "Paul", Role: domain.RoleCustomer}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	bus.emit(t, events.InvoiceCreated, events.InvoiceCreatedEvent{
		InvoiceID:     "inv-1",
		InvoiceNumber: "INV-1-000001",
		UserID:        "u-1",
		Amount:        "200.00",
	})

	if len(mail.sent) != 1 {
		t.Fatalf("sent %d mails, want 1", len(mail.sent))
	}
	if mail.sent[0].to != "paul@example.com" || mail.sent[0].extra != "INV-1-000001" {
		t.Errorf("unexpected mail %+v", mail.sent[0])
	}
}

func TestUnknownUserSendsNothing(t *testing.T) {
	bus, mail, _ := setup(t)

	bus.emit(t, events.InvoicePaid, events.InvoicePaidEvent{
		InvoiceID:     "inv-9",
		InvoiceNumber: "INV-9",
		UserID:        "missing",
		Amount:        "80.00",
	})

	if len(mail.sent) != 0 {
		t.Errorf("expected no mail, got %+v", mail.sent)
	}
}
