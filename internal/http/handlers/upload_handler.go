package handlers

import (
	"net/http"

	"github.com/myjantes/api/internal/http/response"
)

// CreateUploadURL hands the client signed parameters for a direct
// image upload. The client then POSTs the file to storage itself.
func (h *Handlers) CreateUploadURL(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.uploads.SignUpload(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	response.WriteJSON(w, http.StatusOK, ticket)
}

type setQuoteImageRequest struct {
	ImageURL string `json:"imageURL"`
}

type setQuoteImageResponse struct {
	ObjectPath string `json:"objectPath"`
}

// SetQuoteImage validates a freshly uploaded image URL and returns the
// canonical object path the quote form stores.
func (h *Handlers) SetQuoteImage(w http.ResponseWriter, r *http.Request) {
	var req setQuoteImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ImageURL == "" {
		response.BadRequest(w, "Le champ imageURL est requis")
		return
	}

	path, err := h.uploads.NormalizeURL(req.ImageURL)
	if err != nil {
		response.BadRequest(w, "URL d'image invalide")
		return
	}

	response.WriteJSON(w, http.StatusOK, setQuoteImageResponse{ObjectPath: path})
}
