package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host   string
	Port   int
	From   string
	User   string
	Pass   string
	UseTLS bool
}

func NewSMTPMailer(host string, port int, from, user, pass string, useTLS bool) *SMTPMailer {
	return &SMTPMailer{
		Host:   strings.TrimSpace(host),
		Port:   port,
		From:   strings.TrimSpace(from),
		User:   strings.TrimSpace(user),
		Pass:   strings.TrimSpace(pass),
		UseTLS: useTLS,
	}
}

func (s *SMTPMailer) SendBookingReceived(toEmail, toName, serviceName, date, timeSlot string) error {
	subject := "Votre demande de réservation My Jantes"
	text := fmt.Sprintf("Demande de réservation reçue pour %s le %s à %s. Notre équipe vous confirmera le créneau dans les plus brefs délais.", serviceName, date, timeSlot)
	html := fmt.Sprintf(`
		<h2>Demande de réservation reçue</h2>
		<p>Bonjour %s,</p>
		<p>Nous avons bien reçu votre demande de réservation pour la prestation <strong>%s</strong>.</p>
		<p>Date souhaitée : <strong>%s</strong> à <strong>%s</strong></p>
		<p>Notre équipe vous confirmera le créneau dans les plus brefs délais.</p>
	`, toName, serviceName, date, timeSlot)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendQuoteSent(toEmail, toName, quoteID, amount string) error {
	subject := "Votre devis My Jantes est prêt"
	text := fmt.Sprintf("Votre devis n°%s est disponible pour un montant de %s €. Connectez-vous à votre espace client pour l'accepter.", quoteID, amount)
	html := fmt.Sprintf(`
		<h2>Votre devis est prêt</h2>
		<p>Bonjour %s,</p>
		<p>Votre devis n°%s est disponible pour un montant de <strong>%s €</strong>.</p>
		<p>Connectez-vous à votre espace client pour l'accepter.</p>
	`, toName, quoteID, amount)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendInvoiceIssued(toEmail, toName, invoiceNumber, amount string) error {
	subject := fmt.Sprintf("Facture %s", invoiceNumber)
	text := fmt.Sprintf("La facture %s d'un montant de %s € a été émise. Vous pouvez la régler depuis votre espace client.", invoiceNumber, amount)
	html := fmt.Sprintf(`
		<h2>Nouvelle facture</h2>
		<p>Bonjour %s,</p>
		<p>Suite à l'acceptation de votre devis, la facture <strong>%s</strong> d'un montant de <strong>%s €</strong> a été émise.</p>
		<p>Vous pouvez la régler depuis votre espace client.</p>
	`, toName, invoiceNumber, amount)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) SendPaymentReceipt(toEmail, toName, invoiceNumber, amount string) error {
	subject := fmt.Sprintf("Reçu de paiement - facture %s", invoiceNumber)
	text := fmt.Sprintf("Nous confirmons la réception de votre paiement de %s € pour la facture %s. Merci de votre confiance.", amount, invoiceNumber)
	html := fmt.Sprintf(`
		<h2>Paiement reçu</h2>
		<p>Bonjour %s,</p>
		<p>Nous confirmons la réception de votre paiement de <strong>%s €</strong> pour la facture <strong>%s</strong>.</p>
		<p>Merci de votre confiance.</p>
	`, toName, amount, invoiceNumber)

	return s.sendEmail(toEmail, subject, text, html)
}

func (s *SMTPMailer) sendEmail(toEmail, subject, text, html string) error {
	toEmail = strings.TrimSpace(toEmail)
	if toEmail == "" {
		return fmt.Errorf("empty recipient email")
	}

	var buf bytes.Buffer
	boundary := "mixed-boundary"

	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", text)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", html)

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit or development SMTP (no auth, no TLS)
	if !s.UseTLS && s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	if err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes()); err == nil {
		return nil
	}

	// Fallback to implicit TLS (port 465)
	if s.UseTLS {
		tlsCfg := &tls.Config{ServerName: s.Host}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if s.User != "" {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}

		if err := c.Mail(s.From); err != nil {
			return err
		}
		if err := c.Rcpt(toEmail); err != nil {
			return err
		}

		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		return w.Close()
	}

	return fmt.Errorf("smtp send failed")
}
