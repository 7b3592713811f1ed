package handlers

import (
	"net/http"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
)

// CreateBooking is open to guests; a logged-in caller gets the booking
// attached to their account.
func (h *Handlers) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if user := h.optionalUser(r); user != nil {
		req.UserID = &user.ID
	}

	booking, err := h.bookings.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, booking)
}

// ListUserBookings returns the caller's bookings. The user id in the
// path is ignored in favor of the authenticated identity.
func (h *Handlers) ListUserBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookings.ListByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if bookings == nil {
		bookings = []domain.Booking{}
	}
	response.WriteJSON(w, http.StatusOK, bookings)
}

// optionalUser resolves a bearer token when present without requiring
// one.
func (h *Handlers) optionalUser(r *http.Request) *domain.User {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) <= len("Bearer ") || authHeader[:len("Bearer ")] != "Bearer " {
		return nil
	}
	user, err := h.auth.VerifyToken(r.Context(), authHeader[len("Bearer "):])
	if err != nil {
		return nil
	}
	return user
}
