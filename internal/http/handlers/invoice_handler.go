package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
	"github.com/myjantes/api/internal/storage"
)

func (h *Handlers) ListUserInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.ListByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if invoices == nil {
		invoices = []domain.Invoice{}
	}
	response.WriteJSON(w, http.StatusOK, invoices)
}

// PayInvoice opens a Stripe PaymentIntent for one of the caller's
// unpaid invoices and returns its client secret.
func (h *Handlers) PayInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceID := chi.URLParam(r, "id")
	user := currentUser(r)

	invoice, err := h.invoices.Get(r.Context(), invoiceID)
	if err != nil || invoice.UserID == nil || *invoice.UserID != user.ID {
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			writeServiceError(w, r, err)
			return
		}
		response.NotFound(w, "Facture non trouvée")
		return
	}
	if invoice.Status == domain.InvoicePaid {
		response.Conflict(w, "Facture déjà payée")
		return
	}

	intent, err := h.payments.CreateIntent(r.Context(), invoice)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, intent)
}

// StripeWebhook consumes payment events; a succeeded intent marks the
// referenced invoice paid.
func (h *Handlers) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := h.payments.HandleWebhook(r)
	if err != nil {
		response.BadRequest(w, "Signature de webhook invalide")
		return
	}
	if invoiceID == "" {
		// Event type we do not care about.
		response.WriteJSON(w, http.StatusOK, map[string]string{"received": "true"})
		return
	}

	if _, err := h.invoices.MarkPaid(r.Context(), invoiceID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"received": "true"})
}
