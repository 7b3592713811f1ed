package service

import (
	"context"
	"errors"
	"testing"

	"github.com/myjantes/api/internal/domain"
	"github.com/myjantes/api/internal/storage"
	"github.com/myjantes/api/internal/storage/memory"
	"github.com/myjantes/api/pkg/events"
)

func bookingReq() *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		ServiceID:          "renovation",
		Date:               "2025-06-10",
		TimeSlot:           "09:00",
		WheelCount:         4,
		VehicleBrand:       "Peugeot",
		VehicleModel:       "308",
		VehicleYear:        "2019",
		CustomerName:       "Jean Dupont",
		CustomerEmail:      "jean@example.fr",
		CustomerPhone:      "0601020304",
		CustomerPostalCode: "59000",
	}
}

func TestCreateBookingStartsPending(t *testing.T) {
	bus := &mockBus{}
	svc := NewBookingService(memory.New().Bookings(), bus, testConfig())

	booking, err := svc.Create(context.Background(), bookingReq())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if booking.Status != domain.BookingPending {
		t.Errorf("status = %q, want pending", booking.Status)
	}
	if booking.ID == "" {
		t.Error("booking has no id")
	}
	if booking.CreatedAt.IsZero() {
		t.Error("createdAt not set")
	}
	if !bus.published(events.BookingCreated) {
		t.Error("booking.created event not published")
	}
}

func TestCreateBookingMissingFields(t *testing.T) {
	svc := NewBookingService(memory.New().Bookings(), &mockBus{}, testConfig())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*domain.CreateBookingRequest)
	}{
		{"no service", func(r *domain.CreateBookingRequest) { r.ServiceID = "" }},
		{"no date", func(r *domain.CreateBookingRequest) { r.Date = "" }},
		{"no time slot", func(r *domain.CreateBookingRequest) { r.TimeSlot = "" }},
		{"no wheels", func(r *domain.CreateBookingRequest) { r.WheelCount = 0 }},
		{"no brand", func(r *domain.CreateBookingRequest) { r.VehicleBrand = "" }},
		{"no contact email", func(r *domain.CreateBookingRequest) { r.CustomerEmail = "" }},
		{"bad date", func(r *domain.CreateBookingRequest) { r.Date = "demain" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := bookingReq()
			tc.mutate(req)
			if _, err := svc.Create(ctx, req); err == nil {
				t.Error("Create succeeded, want validation error")
			}
		})
	}
}

func TestDoubleBookingAllowedByDefault(t *testing.T) {
	svc := NewBookingService(memory.New().Bookings(), &mockBus{}, testConfig())
	ctx := context.Background()

	if _, err := svc.Create(ctx, bookingReq()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(ctx, bookingReq()); err != nil {
		t.Errorf("second Create on same slot: %v, want success (double booking allowed)", err)
	}
}

func TestDoubleBookingRejectedWhenDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Booking.AllowDoubleBooking = false
	svc := NewBookingService(memory.New().Bookings(), &mockBus{}, cfg)
	ctx := context.Background()

	if _, err := svc.Create(ctx, bookingReq()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(ctx, bookingReq())
	if !errors.Is(err, storage.ErrSlotTaken) {
		t.Errorf("second Create: err = %v, want ErrSlotTaken", err)
	}

	// Another slot on the same day stays available.
	other := bookingReq()
	other.TimeSlot = "14:00"
	if _, err := svc.Create(ctx, other); err != nil {
		t.Errorf("Create on free slot: %v", err)
	}
}
