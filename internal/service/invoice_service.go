package service

import (
	"context"
	"fmt"
	"time"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/pkg/events"
	"github.com/myjantes/api/pkg/logger"
)

type InvoiceService interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error)
	Get(ctx context.Context, id string) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, id string) (*domain.Invoice, error)
}

type invoiceService struct {
	invoices storage.InvoiceRepository
	bus      events.Publisher
}

func NewInvoiceService(invoices storage.InvoiceRepository, bus events.Publisher) InvoiceService {
	return &invoiceService{invoices: invoices, bus: bus}
}

func (s *invoiceService) ListByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	invoices, err := s.invoices.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, nil
}

func (s *invoiceService) Get(ctx context.Context, id string) (*domain.Invoice, error) {
	invoice, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, id string) (*domain.Invoice, error) {
	invoice, err := s.invoices.MarkPaid(ctx, id, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	paidEvent := events.InvoicePaidEvent{
		InvoiceID:     invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		PaidAt:        *invoice.PaidAt,
	}
	if invoice.UserID != nil {
		paidEvent.UserID = *invoice.UserID
	}
	if err := s.bus.Publish(ctx, events.InvoicePaid, paidEvent); err != nil {
		logger.WarnContext(ctx, "Failed to publish invoice.paid", "error", err, "invoice_id", invoice.ID)
	}

	return invoice, nil
}
