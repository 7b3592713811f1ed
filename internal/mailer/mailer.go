// Package mailer sends the customer-facing notification emails of the
// booking and quote lifecycle.
package mailer

type Mailer interface {
	SendBookingReceived(toEmail, toName, serviceName, date, timeSlot string) error
	SendQuoteSent(toEmail, toName, quoteID, amount string) error
	SendInvoiceIssued(toEmail, toName, invoiceNumber, amount string) error
	SendPaymentReceipt(toEmail, toName, invoiceNumber, amount string) error
}
