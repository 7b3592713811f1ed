package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
	"github.com/myjantes/api/internal/storage"
)

func (h *Handlers) CreateQuote(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if user := h.optionalUser(r); user != nil {
		req.UserID = &user.ID
	}

	quote, err := h.quotes.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, quote)
}

func (h *Handlers) ListUserQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.quotes.ListByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}
	response.WriteJSON(w, http.StatusOK, quotes)
}

func (h *Handlers) AcceptQuote(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "id")

	quote, invoice, err := h.quotes.Accept(r.Context(), quoteID, currentUser(r).ID)
	if err != nil {
		// Missing and unowned quotes both read as not found.
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, "Devis non trouvé")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Devis accepté et facture créée",
		"quote":   quote,
		"invoice": invoice,
	})
}

func (h *Handlers) RejectQuote(w http.ResponseWriter, r *http.Request) {
	quoteID := chi.URLParam(r, "id")

	quote, err := h.quotes.Reject(r.Context(), quoteID, currentUser(r).ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			response.NotFound(w, "Devis non trouvé")
			return
		}
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Devis refusé",
		"quote":   quote,
	})
}
