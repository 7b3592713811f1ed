package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/pkg/events"
	"github.com/myjantes/api/pkg/logger"
)

type QuoteService interface {
	Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.Quote, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Quote, error)
	List(ctx context.Context) ([]domain.Quote, error)
	Send(ctx context.Context, id string, req *domain.SendQuoteRequest) (*domain.Quote, error)
	Accept(ctx context.Context, id, callerUserID string) (*domain.Quote, *domain.Invoice, error)
	Reject(ctx context.Context, id, callerUserID string) (*domain.Quote, error)
}

type quoteService struct {
	quotes storage.QuoteRepository
	bus    events.Publisher
}

func NewQuoteService(quotes storage.QuoteRepository, bus events.Publisher) QuoteService {
	return &quoteService{quotes: quotes, bus: bus}
}

func (s *quoteService) Create(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		Services:           req.Services,
		WheelCondition:     req.WheelCondition,
		VehicleBrand:       req.VehicleBrand,
		VehicleModel:       req.VehicleModel,
		VehicleYear:        req.VehicleYear,
		WheelSize:          req.WheelSize,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		CustomerPostalCode: req.CustomerPostalCode,
		ImageURLs:          req.ImageURLs,
		Status:             domain.QuotePending,
		CreatedAt:          time.Now(),
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	if err := s.bus.Publish(ctx, events.QuoteCreated, events.QuoteCreatedEvent{
		QuoteID:       quote.ID,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		Services:      quote.Services,
		CreatedAt:     quote.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish quote.created", "error", err, "quote_id", quote.ID)
	}

	return quote, nil
}

func (s *quoteService) ListByUser(ctx context.Context, userID string) ([]domain.Quote, error) {
	quotes, err := s.quotes.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

func (s *quoteService) List(ctx context.Context) ([]domain.Quote, error) {
	quotes, err := s.quotes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	return quotes, nil
}

func (s *quoteService) Send(ctx context.Context, id string, req *domain.SendQuoteRequest) (*domain.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	quote, err := s.quotes.Send(ctx, id, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to send quote: %w", err)
	}

	if err := s.bus.Publish(ctx, events.QuoteSent, events.QuoteSentEvent{
		QuoteID:       quote.ID,
		CustomerName:  quote.CustomerName,
		CustomerEmail: quote.CustomerEmail,
		Amount:        req.Amount,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish quote.sent", "error", err, "quote_id", quote.ID)
	}

	return quote, nil
}

// Accept flips the caller's quote to "accepted" and derives its
// invoice. An unset amount produces an invoice over "0", the historical
// behavior.
func (s *quoteService) Accept(ctx context.Context, id, callerUserID string) (*domain.Quote, *domain.Invoice, error) {
	quote, invoice, err := s.quotes.Accept(ctx, id, callerUserID, func(q *domain.Quote) *domain.Invoice {
		amount := "0"
		if q.Amount != nil {
			amount = *q.Amount
		}
		return &domain.Invoice{
			ID:            uuid.NewString(),
			UserID:        q.UserID,
			QuoteID:       &q.ID,
			InvoiceNumber: domain.NewInvoiceNumber(),
			Amount:        amount,
			Status:        domain.InvoiceUnpaid,
			IssuedAt:      time.Now(),
		}
	})
	if err != nil {
		return nil, nil, err
	}

	if err := s.bus.Publish(ctx, events.QuoteAccepted, events.QuoteAcceptedEvent{
		QuoteID:       quote.ID,
		UserID:        callerUserID,
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		AcceptedAt:    time.Now(),
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish quote.accepted", "error", err, "quote_id", quote.ID)
	}

	if err := s.bus.Publish(ctx, events.InvoiceCreated, events.InvoiceCreatedEvent{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		UserID:        callerUserID,
		Amount:        invoice.Amount,
		IssuedAt:      invoice.IssuedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish invoice.created", "error", err, "invoice_id", invoice.ID)
	}

	return quote, invoice, nil
}

func (s *quoteService) Reject(ctx context.Context, id, callerUserID string) (*domain.Quote, error) {
	quote, err := s.quotes.Reject(ctx, id, callerUserID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Quote rejected", "quote_id", quote.ID, "user_id", callerUserID)
	return quote, nil
}
