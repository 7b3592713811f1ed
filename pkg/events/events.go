package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/myjantes/api/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// DevEventBus logs events instead of publishing them. Used when no
// NATS URL is configured so the API keeps working in local setups.
type DevEventBus struct{}

func NewDevEventBus() *DevEventBus {
	return &DevEventBus{}
}

func (d *DevEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, _ := json.Marshal(data)
	logger.InfoContext(ctx, "Event (dev mode, not published)", "subject", subject, "data", string(payload))
	return nil
}

func (d *DevEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	return nil
}

func (d *DevEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	return nil
}

func (d *DevEventBus) Close() error {
	return nil
}

// Subjects
const (
	BookingCreated = "booking.created"
	QuoteCreated   = "quote.created"
	QuoteSent      = "quote.sent"
	QuoteAccepted  = "quote.accepted"
	InvoiceCreated = "invoice.created"
	InvoicePaid    = "invoice.paid"
)

// Event payloads
type BookingCreatedEvent struct {
	BookingID     string    `json:"booking_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	ServiceID     string    `json:"service_id"`
	Date          time.Time `json:"date"`
	TimeSlot      string    `json:"time_slot"`
	WheelCount    int       `json:"wheel_count"`
	VehicleBrand  string    `json:"vehicle_brand"`
	VehicleModel  string    `json:"vehicle_model"`
	VehicleYear   string    `json:"vehicle_year"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuoteCreatedEvent struct {
	QuoteID       string    `json:"quote_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Services      []string  `json:"services"`
	CreatedAt     time.Time `json:"created_at"`
}

type QuoteSentEvent struct {
	QuoteID       string `json:"quote_id"`
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	Amount        string `json:"amount"`
}

type QuoteAcceptedEvent struct {
	QuoteID       string    `json:"quote_id"`
	UserID        string    `json:"user_id"`
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	Amount        string    `json:"amount"`
	AcceptedAt    time.Time `json:"accepted_at"`
}

type InvoiceCreatedEvent struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount"`
	IssuedAt      time.Time `json:"issued_at"`
}

type InvoicePaidEvent struct {
	InvoiceID     string    `json:"invoice_id"`
	InvoiceNumber string    `json:"invoice_number"`
	UserID        string    `json:"user_id"`
	Amount        string    `json:"amount"`
	PaidAt        time.Time `json:"paid_at"`
}
