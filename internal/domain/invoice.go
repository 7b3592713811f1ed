package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

type Invoice struct {
	ID            string        `json:"id"`
	UserID        *string       `json:"userId"`
	QuoteID       *string       `json:"quoteId"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Amount        string        `json:"amount"`
	Status        InvoiceStatus `json:"status"`
	IssuedAt      time.Time     `json:"issuedAt"`
	PaidAt        *time.Time    `json:"paidAt"`
}

var invoiceSeq atomic.Int64

// NewInvoiceNumber returns a unique invoice number. The timestamp keeps
// numbers roughly chronological; the counter makes concurrent accepts
// collision free within the process.
func NewInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%06d", time.Now().UnixMilli(), invoiceSeq.Add(1))
}
