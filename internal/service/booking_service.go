package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/pkg/config"
	"github.com/myjantes/api/pkg/events"
	"github.com/myjantes/api/pkg/logger"
)

type BookingService interface {
	Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type bookingService struct {
	bookings storage.BookingRepository
	bus      events.Publisher
	config   *config.Config
}

func NewBookingService(bookings storage.BookingRepository, bus events.Publisher, cfg *config.Config) BookingService {
	return &bookingService{bookings: bookings, bus: bus, config: cfg}
}

func (s *bookingService) Create(ctx context.Context, req *domain.CreateBookingRequest) (*domain.Booking, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	date, err := req.ParseDate()
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	if !s.config.Booking.AllowDoubleBooking {
		count, err := s.bookings.CountActiveBySlot(ctx, date, req.TimeSlot)
		if err != nil {
			return nil, fmt.Errorf("failed to check time slot: %w", err)
		}
		if count > 0 {
			return nil, storage.ErrSlotTaken
		}
	}

	booking := &domain.Booking{
		ID:                 uuid.NewString(),
		UserID:             req.UserID,
		ServiceID:          req.ServiceID,
		Date:               date,
		TimeSlot:           req.TimeSlot,
		WheelCount:         req.WheelCount,
		VehicleBrand:       req.VehicleBrand,
		VehicleModel:       req.VehicleModel,
		VehicleYear:        req.VehicleYear,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		CustomerPhone:      req.CustomerPhone,
		CustomerPostalCode: req.CustomerPostalCode,
		Comments:           req.Comments,
		Status:             domain.BookingPending,
		CreatedAt:          time.Now(),
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := s.bus.Publish(ctx, events.BookingCreated, events.BookingCreatedEvent{
		BookingID:     booking.ID,
		CustomerName:  booking.CustomerName,
		CustomerEmail: booking.CustomerEmail,
		ServiceID:     booking.ServiceID,
		Date:          booking.Date,
		TimeSlot:      booking.TimeSlot,
		WheelCount:    booking.WheelCount,
		VehicleBrand:  booking.VehicleBrand,
		VehicleModel:  booking.VehicleModel,
		VehicleYear:   booking.VehicleYear,
		CreatedAt:     booking.CreatedAt,
	}); err != nil {
		logger.WarnContext(ctx, "Failed to publish booking.created", "error", err, "booking_id", booking.ID)
	}

	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) List(ctx context.Context) ([]domain.Booking, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	booking, err := s.bookings.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	return booking, nil
}
