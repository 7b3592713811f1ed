package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/http/handlers"
	"github.com/myjantes/api/internal/http/response"
	"github.com/myjantes/api/internal/mailer"
	"github.com/myjantes/api/internal/notify"
	"github.com/myjantes/api/internal/payments"
	"github.com/myjantes/api/internal/service"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/internal/storage/memory"
	"github.com/myjantes/api/internal/storage/postgres"
	"github.com/myjantes/api/internal/storage/redis"
	"github.com/myjantes/api/internal/uploads"
	"github.com/myjantes/api/pkg/config"
	"github.com/myjantes/api/pkg/database"
	"github.com/myjantes/api/pkg/events"
	"github.com/myjantes/api/pkg/logger"
	mw "github.com/myjantes/api/pkg/middleware"
)

type repositories struct {
	users    storage.UserRepository
	bookings storage.BookingRepository
	quotes   storage.QuoteRepository
	invoices storage.InvoiceRepository
	services storage.ServiceRepository
}

func main() {
	godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	repos, cleanup, err := openStorage(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "driver", cfg.Storage.Driver)
		os.Exit(1)
	}
	defer cleanup()

	// Event bus
	var bus events.EventBus
	if cfg.NATS.URL != "" {
		natsBus, err := events.NewNATSEventBus(cfg.NATS.URL)
		if err != nil {
			logger.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		bus = natsBus
	} else {
		logger.Info("NATS_URL not set, events stay local")
		bus = events.NewDevEventBus()
	}
	defer bus.Close()

	// Email consumer
	consumer := notify.NewConsumer(bus, buildMailer(cfg), repos.users, repos.services)
	if err := consumer.Start(); err != nil {
		logger.Error("Failed to start notify consumer", "error", err)
		os.Exit(1)
	}

	// Services
	authService := service.NewAuthService(repos.users, cfg)
	bookingService := service.NewBookingService(repos.bookings, bus, cfg)
	quoteService := service.NewQuoteService(repos.quotes, bus)
	invoiceService := service.NewInvoiceService(repos.invoices, bus)

	if cfg.Auth.AdminEmail != "" {
		promoteAdmin(ctx, repos.users, cfg.Auth.AdminEmail)
	}

	h := handlers.New(
		authService,
		bookingService,
		quoteService,
		invoiceService,
		repos.services,
		buildProcessor(cfg),
		buildSigner(cfg),
	)

	// Router
	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.ServiceName("api"))
	r.Use(mw.Logging)
	r.Use(recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(mw.Health)
	r.Use(mw.Metrics)

	if cfg.Redis.URL != "" {
		store, err := redis.New(cfg.Redis.URL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer store.Close()

		r.Use(mw.RateLimit(store, 120, time.Minute, func(w http.ResponseWriter, _ *http.Request) {
			response.RateLimit(w, "Trop de requêtes, réessayez plus tard")
		}))
		r.Use(mw.Idempotency(store))
	}

	r.Mount("/api", h.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API", "port", cfg.Server.Port, "storage", cfg.Storage.Driver)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*repositories, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}

		serviceRepo := postgres.NewServiceRepo(pool)
		if err := serviceRepo.Seed(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		return &repositories{
			users:    postgres.NewUserRepo(pool),
			bookings: postgres.NewBookingRepo(pool),
			quotes:   postgres.NewQuoteRepo(pool),
			invoices: postgres.NewInvoiceRepo(pool),
			services: serviceRepo,
		}, pool.Close, nil

	default:
		store := memory.New()
		return &repositories{
			users:    store.Users(),
			bookings: store.Bookings(),
			quotes:   store.Quotes(),
			invoices: store.Invoices(),
			services: store.Services(),
		}, func() {}, nil
	}
}

func buildMailer(cfg *config.Config) mailer.Mailer {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, "My Jantes", cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(
			cfg.Email.SMTPHost,
			cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom,
			cfg.Email.SMTPUser,
			cfg.Email.SMTPPass,
			cfg.Email.SMTPPort == 465,
		)
	}
}

func buildProcessor(cfg *config.Config) payments.Processor {
	if cfg.Stripe.SecretKey != "" {
		return payments.NewStripeProcessor(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.Currency)
	}
	logger.Info("STRIPE_SECRET_KEY not set, using dev payment processor")
	return payments.NewDevProcessor()
}

func buildSigner(cfg *config.Config) uploads.Signer {
	if cfg.Cloudinary.CloudName != "" {
		return uploads.NewCloudinarySigner(
			cfg.Cloudinary.CloudName,
			cfg.Cloudinary.APIKey,
			cfg.Cloudinary.APISecret,
			cfg.Cloudinary.UploadFolder,
		)
	}
	logger.Info("Cloudinary not configured, using dev upload signer")
	return uploads.NewDevSigner()
}

func promoteAdmin(ctx context.Context, users storage.UserRepository, email string) {
	user, err := users.GetByEmail(ctx, email)
	if err != nil {
		logger.Warn("Admin account not found yet", "email", email)
		return
	}
	if err := users.SetRole(ctx, user.ID, domain.RoleAdmin); err != nil {
		logger.Error("Failed to promote admin", "error", err, "email", email)
	}
}

func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(r.Context(), "Panic recovered", "error", err)
				response.InternalError(w, "Erreur interne")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
