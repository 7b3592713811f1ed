package handlers

import (
	"net/http"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
)

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.auth.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, currentUser(r))
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	// Tokens are stateless; logout just acknowledges.
	response.WriteJSON(w, http.StatusOK, map[string]string{"message": "Déconnecté avec succès"})
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.auth.UpdateProfile(r.Context(), currentUser(r).ID, &req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response.WriteJSON(w, http.StatusOK, user)
}
