// Package notify bridges lifecycle events to customer emails. It
// consumes the event bus subjects published by the services and
// dispatches the matching mail for each one.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/myjantes/api/internal/mailer"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/pkg/events"
	"github.com/myjantes/api/pkg/logger"
)

const queueGroup = "notify"

type Consumer struct {
	bus      events.Subscriber
	mail     mailer.Mailer
	users    storage.UserRepository
	services storage.ServiceRepository
}

func NewConsumer(bus events.Subscriber, mail mailer.Mailer, users storage.UserRepository, services storage.ServiceRepository) *Consumer {
	return &Consumer{bus: bus, mail: mail, users: users, services: services}
}

// Start registers the queue subscriptions. Handlers run on the bus's
// delivery goroutines, so a slow mail provider never blocks a request.
func (c *Consumer) Start() error {
	subs := map[string]func(msg *events.Message){
		events.BookingCreated: c.onBookingCreated,
		events.QuoteSent:      c.onQuoteSent,
		events.InvoiceCreated: c.onInvoiceCreated,
		events.InvoicePaid:    c.onInvoicePaid,
	}
	for subject, handler := range subs {
		if err := c.bus.QueueSubscribe(subject, queueGroup, handler); err != nil {
			return err
		}
	}
	return nil
}

func (c *Consumer) onBookingCreated(msg *events.Message) {
	var ev events.BookingCreatedEvent
	if !decode(msg, &ev) {
		return
	}

	serviceName := ev.ServiceID
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if svc, err := c.services.GetByID(ctx, ev.ServiceID); err == nil {
		serviceName = svc.Name
	}

	err := c.mail.SendBookingReceived(ev.CustomerEmail, ev.CustomerName,
		serviceName, ev.Date.Format("02/01/2006"), ev.TimeSlot)
	if err != nil {
		logger.Error("Failed to send booking email", "error", err, "booking_id", ev.BookingID)
	}
}

func (c *Consumer) onQuoteSent(msg *events.Message) {
	var ev events.QuoteSentEvent
	if !decode(msg, &ev) {
		return
	}

	if err := c.mail.SendQuoteSent(ev.CustomerEmail, ev.CustomerName, ev.QuoteID, ev.Amount); err != nil {
		logger.Error("Failed to send quote email", "error", err, "quote_id", ev.QuoteID)
	}
}

func (c *Consumer) onInvoiceCreated(msg *events.Message) {
	var ev events.InvoiceCreatedEvent
	if !decode(msg, &ev) {
		return
	}

	user, ok := c.lookupUser(ev.UserID)
	if !ok {
		return
	}

	if err := c.mail.SendInvoiceIssued(user.Email, user.Name, ev.InvoiceNumber, ev.Amount); err != nil {
		logger.Error("Failed to send invoice email", "error", err, "invoice_id", ev.InvoiceID)
	}
}

func (c *Consumer) onInvoicePaid(msg *events.Message) {
	var ev events.InvoicePaidEvent
	if !decode(msg, &ev) {
		return
	}

	user, ok := c.lookupUser(ev.UserID)
	if !ok {
		return
	}

	if err := c.mail.SendPaymentReceipt(user.Email, user.Name, ev.InvoiceNumber, ev.Amount); err != nil {
		logger.Error("Failed to send receipt email", "error", err, "invoice_id", ev.InvoiceID)
	}
}

func (c *Consumer) lookupUser(userID string) (*userAddress, bool) {
	if userID == "" {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := c.users.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to resolve email recipient", "error", err, "user_id", userID)
		return nil, false
	}
	return &userAddress{Email: user.Email, Name: user.Name}, true
}

type userAddress struct {
	Email string
	Name  string
}

func decode(msg *events.Message, dst interface{}) bool {
	if err := json.Unmarshal(msg.Data, dst); err != nil {
		logger.Error("Failed to decode event", "error", err, "subject", msg.Subject)
		return false
	}
	return true
}
