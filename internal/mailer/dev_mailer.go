package mailer

import (
	"github.com/myjantes/api/pkg/logger"
)

// DevMailer logs emails instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendBookingReceived(toEmail, toName, serviceName, date, timeSlot string) error {
	logger.Info("[DEV MAIL] booking received",
		"to", toEmail,
		"name", toName,
		"service", serviceName,
		"date", date,
		"time_slot", timeSlot,
	)
	return nil
}

func (d *DevMailer) SendQuoteSent(toEmail, toName, quoteID, amount string) error {
	logger.Info("[DEV MAIL] quote sent",
		"to", toEmail,
		"name", toName,
		"quote_id", quoteID,
		"amount", amount,
	)
	return nil
}

func (d *DevMailer) SendInvoiceIssued(toEmail, toName, invoiceNumber, amount string) error {
	logger.Info("[DEV MAIL] invoice issued",
		"to", toEmail,
		"name", toName,
		"invoice_number", invoiceNumber,
		"amount", amount,
	)
	return nil
}

func (d *DevMailer) SendPaymentReceipt(toEmail, toName, invoiceNumber, amount string) error {
	logger.Info("[DEV MAIL] payment receipt",
		"to", toEmail,
		"name", toName,
		"invoice_number", invoiceNumber,
		"amount", amount,
	)
	return nil
}
