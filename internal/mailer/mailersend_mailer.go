package mailer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSendClient struct {
	client  *mailersend.Mailersend
	from    mailersend.From
	enabled bool
}

func NewMailerSend(apiKey, fromName, fromEmail string) *MailerSendClient {
	m := &MailerSendClient{
		enabled: apiKey != "" && fromEmail != "",
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}

	if m.enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}

	return m
}

func (m *MailerSendClient) SendBookingReceived(toEmail, toName, serviceName, date, timeSlot string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Votre demande de réservation My Jantes"
	html := fmt.Sprintf(`
		<h2>Demande de réservation reçue</h2>
		<p>Bonjour %s,</p>
		<p>Nous avons bien reçu votre demande de réservation pour la prestation <strong>%s</strong>.</p>
		<p>Date souhaitée : <strong>%s</strong> à <strong>%s</strong></p>
		<p>Notre équipe vous confirmera le créneau dans les plus brefs délais.</p>
	`, toName, serviceName, date, timeSlot)

	text := fmt.Sprintf("Demande de réservation reçue pour %s le %s à %s. Notre équipe vous confirmera le créneau dans les plus brefs délais.", serviceName, date, timeSlot)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendQuoteSent(toEmail, toName, quoteID, amount string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := "Votre devis My Jantes est prêt"
	html := fmt.Sprintf(`
		<h2>Votre devis est prêt</h2>
		<p>Bonjour %s,</p>
		<p>Votre devis n°%s est disponible pour un montant de <strong>%s €</strong>.</p>
		<p>Connectez-vous à votre espace client pour l'accepter.</p>
	`, toName, quoteID, amount)

	text := fmt.Sprintf("Votre devis n°%s est disponible pour un montant de %s €. Connectez-vous à votre espace client pour l'accepter.", quoteID, amount)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendInvoiceIssued(toEmail, toName, invoiceNumber, amount string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Facture %s", invoiceNumber)
	html := fmt.Sprintf(`
		<h2>Nouvelle facture</h2>
		<p>Bonjour %s,</p>
		<p>Suite à l'acceptation de votre devis, la facture <strong>%s</strong> d'un montant de <strong>%s €</strong> a été émise.</p>
		<p>Vous pouvez la régler depuis votre espace client.</p>
	`, toName, invoiceNumber, amount)

	text := fmt.Sprintf("La facture %s d'un montant de %s € a été émise. Vous pouvez la régler depuis votre espace client.", invoiceNumber, amount)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) SendPaymentReceipt(toEmail, toName, invoiceNumber, amount string) error {
	if !m.enabled {
		return fmt.Errorf("MailerSend not configured")
	}

	subject := fmt.Sprintf("Reçu de paiement - facture %s", invoiceNumber)
	html := fmt.Sprintf(`
		<h2>Paiement reçu</h2>
		<p>Bonjour %s,</p>
		<p>Nous confirmons la réception de votre paiement de <strong>%s €</strong> pour la facture <strong>%s</strong>.</p>
		<p>Merci de votre confiance.</p>
	`, toName, amount, invoiceNumber)

	text := fmt.Sprintf("Nous confirmons la réception de votre paiement de %s € pour la facture %s. Merci de votre confiance.", amount, invoiceNumber)

	return m.sendEmail(toEmail, toName, subject, text, html)
}

func (m *MailerSendClient) sendEmail(toEmail, toName, subject, text, html string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg := m.client.Email.NewMessage()
	msg.SetFrom(m.from)
	msg.SetRecipients([]mailersend.Recipient{{Name: toName, Email: toEmail}})
	msg.SetSubject(subject)

	if strings.TrimSpace(text) != "" {
		msg.SetText(text)
	}
	if strings.TrimSpace(html) != "" {
		msg.SetHTML(html)
	}

	_, err := m.client.Email.Send(ctx, msg)
	return err
}
