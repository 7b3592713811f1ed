// Package payments charges invoices. The Stripe processor creates a
// payment intent per invoice and consumes the webhook that confirms
// the charge.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/myjantes/api/internal/domain"
)

// Intent is what the client needs to complete a payment.
type Intent struct {
	ClientSecret string `json:"clientSecret"`
	Amount       string `json:"amount"`
	Currency     string `json:"currency"`
}

type Processor interface {
	// CreateIntent starts a charge for an unpaid invoice.
	CreateIntent(ctx context.Context, invoice *domain.Invoice) (*Intent, error)
	// HandleWebhook verifies and parses a processor callback. It returns
	// the invoice id to mark paid, or "" when the event is not a
	// successful payment.
	HandleWebhook(r *http.Request) (string, error)
}

const invoiceMetadataKey = "invoiceId"

type StripeProcessor struct {
	webhookSecret string
	currency      string
}

func NewStripeProcessor(secretKey, webhookSecret, currency string) *StripeProcessor {
	stripe.Key = secretKey
	return &StripeProcessor{
		webhookSecret: webhookSecret,
		currency:      currency,
	}
}

func (p *StripeProcessor) CreateIntent(_ context.Context, invoice *domain.Invoice) (*Intent, error) {
	cents, err := amountToCents(invoice.Amount)
	if err != nil {
		return nil, err
	}

	pi, err := paymentintent.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(cents),
		Currency: stripe.String(p.currency),
		Metadata: map[string]string{invoiceMetadataKey: invoice.ID},
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		ClientSecret: pi.ClientSecret,
		Amount:       invoice.Amount,
		Currency:     p.currency,
	}, nil
}

func (p *StripeProcessor) HandleWebhook(r *http.Request) (string, error) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read webhook body: %w", err)
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), p.webhookSecret)
	if err != nil {
		return "", fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if event.Type != "payment_intent.succeeded" {
		return "", nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return "", fmt.Errorf("failed to parse payment intent: %w", err)
	}
	return pi.Metadata[invoiceMetadataKey], nil
}

// amountToCents converts a decimal amount string like "150.00" to the
// integer minor units the processor expects.
func amountToCents(amount string) (int64, error) {
	whole, frac, _ := strings.Cut(strings.TrimSpace(amount), ".")
	if whole == "" {
		whole = "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units < 0 {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}

	switch len(frac) {
	case 0:
		frac = "00"
	case 1:
		frac += "0"
	case 2:
	default:
		frac = frac[:2]
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", amount)
	}
	return units*100 + cents, nil
}

// DevProcessor skips Stripe entirely. Intents succeed immediately and
// the webhook accepts a bare JSON body, so the payment flow can be
// exercised without credentials.
type DevProcessor struct{}

func NewDevProcessor() *DevProcessor {
	return &DevProcessor{}
}

func (d *DevProcessor) CreateIntent(_ context.Context, invoice *domain.Invoice) (*Intent, error) {
	if _, err := amountToCents(invoice.Amount); err != nil {
		return nil, err
	}
	return &Intent{
		ClientSecret: "dev_secret_" + invoice.ID,
		Amount:       invoice.Amount,
		Currency:     "eur",
	}, nil
}

func (d *DevProcessor) HandleWebhook(r *http.Request) (string, error) {
	var body struct {
		Type      string `json:"type"`
		InvoiceID string `json:"invoiceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to parse webhook body: %w", err)
	}
	if body.Type != "payment_intent.succeeded" {
		return "", nil
	}
	return body.InvoiceID, nil
}
