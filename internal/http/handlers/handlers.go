package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/response"
	"github.com/myjantes/api/internal/payments"
	"github.com/myjantes/api/internal/service"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/internal/uploads"
	"github.com/myjantes/api/pkg/auth"
	"github.com/myjantes/api/pkg/logger"
)

type contextKey string

const userContextKey contextKey = "user"

type Handlers struct {
	auth     service.AuthService
	bookings service.BookingService
	quotes   service.QuoteService
	invoices service.InvoiceService
	services storage.ServiceRepository
	payments payments.Processor
	uploads  uploads.Signer
}

func New(
	authService service.AuthService,
	bookingService service.BookingService,
	quoteService service.QuoteService,
	invoiceService service.InvoiceService,
	serviceRepo storage.ServiceRepository,
	processor payments.Processor,
	signer uploads.Signer,
) *Handlers {
	return &Handlers{
		auth:     authService,
		bookings: bookingService,
		quotes:   quoteService,
		invoices: invoiceService,
		services: serviceRepo,
		payments: processor,
		uploads:  signer,
	}
}

// Routes mounts the full API. main and the handler tests share this
// route table.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/bookings", h.CreateBooking)
	r.Post("/quotes", h.CreateQuote)
	r.Get("/services", h.ListServices)
	r.Post("/payments/webhook", h.StripeWebhook)

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Get("/auth/me", h.Me)
		r.Post("/auth/logout", h.Logout)
		r.Put("/profile", h.UpdateProfile)
		r.Get("/bookings/user/{userId}", h.ListUserBookings)
		r.Get("/quotes/user/{userId}", h.ListUserQuotes)
		r.Post("/quotes/{id}/accept", h.AcceptQuote)
		r.Post("/quotes/{id}/reject", h.RejectQuote)
		r.Get("/invoices/user/{userId}", h.ListUserInvoices)
		r.Post("/invoices/{id}/pay", h.PayInvoice)
		r.Post("/objects/upload", h.CreateUploadURL)
		r.Put("/quote-images", h.SetQuoteImage)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth, h.RequireAdmin)
		r.Get("/admin/bookings", h.ListAllBookings)
		r.Patch("/admin/bookings/{id}/status", h.UpdateBookingStatus)
		r.Get("/admin/quotes", h.ListAllQuotes)
		r.Post("/admin/quotes/{id}/send", h.SendQuote)
	})

	return r
}

// RequireAuth resolves the bearer token to a live user record.
func (h *Handlers) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(w, "Authentification requise")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := h.auth.VerifyToken(r.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrExpiredToken):
				response.WriteError(w, http.StatusUnauthorized, "Session expirée", response.CodeExpiredToken)
			case errors.Is(err, service.ErrUnknownUser):
				response.Unauthorized(w, "Compte introuvable")
			case errors.Is(err, auth.ErrInvalidToken):
				response.WriteError(w, http.StatusForbidden, "Jeton invalide", response.CodeInvalidToken)
			default:
				response.InternalError(w, "Erreur interne")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		ctx = context.WithValue(ctx, logger.UserIDKey, user.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := currentUser(r)
		if user == nil || user.Role != domain.RoleAdmin {
			response.Forbidden(w, "Accès refusé")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func currentUser(r *http.Request) *domain.User {
	if user, ok := r.Context().Value(userContextKey).(*domain.User); ok {
		return user
	}
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Format JSON invalide")
		return false
	}
	return true
}

// writeServiceError translates service and storage errors into the
// taxonomy: 400 validation, 401 credentials, 404 not found, 409
// conflict, 500 everything else.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr domain.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, vErr.Error())
	case errors.Is(err, storage.ErrEmailTaken):
		response.WriteError(w, http.StatusBadRequest, "Email déjà utilisé", response.CodeEmailExists)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(w, "Email ou mot de passe incorrect")
	case errors.Is(err, storage.ErrNotFound):
		response.NotFound(w, "Introuvable")
	case errors.Is(err, storage.ErrSlotTaken):
		response.WriteError(w, http.StatusConflict, "Ce créneau est déjà réservé", response.CodeSlotTaken)
	case errors.Is(err, storage.ErrQuoteAlreadyAccepted):
		response.Conflict(w, "Devis déjà accepté")
	case errors.Is(err, storage.ErrQuoteClosed):
		response.Conflict(w, "Devis clôturé")
	default:
		logger.ErrorContext(r.Context(), "request failed", "error", err)
		response.InternalError(w, "Erreur interne")
	}
}
