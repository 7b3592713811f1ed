package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
)

func (h *Handlers) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	status, ok := domain.ParseBookingStatus(req.Status)
	if !ok {
		response.BadRequest(w, "Statut invalide")
		return
	}

	booking, err := h.bookings.UpdateStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, booking)
}

func (h *Handlers) ListAllQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}
	response.WriteJSON(w, http.StatusOK, quotes)
}

// SendQuote is the staff step: price the quote and move it to "sent".
func (h *Handlers) SendQuote(w http.ResponseWriter, r *http.Request) {
	var req domain.SendQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	quote, err := h.quotes.Send(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, quote)
}
