package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return BookingStatus(s), true
	default:
		return "", false
	}
}

type Booking struct {
	ID                 string        `json:"id"`
	UserID             *string       `json:"userId"`
	ServiceID          string        `json:"serviceId"`
	Date               time.Time     `json:"date"`
	TimeSlot           string        `json:"timeSlot"`
	WheelCount         int           `json:"wheelCount"`
	VehicleBrand       string        `json:"vehicleBrand"`
	VehicleModel       string        `json:"vehicleModel"`
	VehicleYear        string        `json:"vehicleYear"`
	CustomerName       string        `json:"customerName"`
	CustomerEmail      string        `json:"customerEmail"`
	CustomerPhone      string        `json:"customerPhone"`
	CustomerPostalCode string        `json:"customerPostalCode"`
	Comments           *string       `json:"comments"`
	Status             BookingStatus `json:"status"`
	CreatedAt          time.Time     `json:"createdAt"`
}

type CreateBookingRequest struct {
	UserID             *string `json:"userId,omitempty"`
	ServiceID          string  `json:"serviceId"`
	Date               string  `json:"date"`
	TimeSlot           string  `json:"timeSlot"`
	WheelCount         int     `json:"wheelCount"`
	VehicleBrand       string  `json:"vehicleBrand"`
	VehicleModel       string  `json:"vehicleModel"`
	VehicleYear        string  `json:"vehicleYear"`
	CustomerName       string  `json:"customerName"`
	CustomerEmail      string  `json:"customerEmail"`
	CustomerPhone      string  `json:"customerPhone"`
	CustomerPostalCode string  `json:"customerPostalCode"`
	Comments           *string `json:"comments,omitempty"`
}

func (r *CreateBookingRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"serviceId", r.ServiceID},
		{"date", r.Date},
		{"timeSlot", r.TimeSlot},
		{"vehicleBrand", r.VehicleBrand},
		{"vehicleModel", r.VehicleModel},
		{"vehicleYear", r.VehicleYear},
		{"customerName", r.CustomerName},
		{"customerEmail", r.CustomerEmail},
		{"customerPhone", r.CustomerPhone},
		{"customerPostalCode", r.CustomerPostalCode},
	}
	for _, f := range required {
		if f.value == "" {
			return Validationf("Le champ %s est requis", f.name)
		}
	}
	if r.WheelCount < 1 {
		return Validationf("Le champ wheelCount est requis")
	}
	if !emailRegex.MatchString(r.CustomerEmail) {
		return Validationf("Email invalide")
	}
	if _, err := r.ParseDate(); err != nil {
		return Validationf("Date invalide")
	}
	return nil
}

// ParseDate accepts either a bare date or a full RFC 3339 timestamp,
// matching what the booking form sends.
func (r *CreateBookingRequest) ParseDate() (time.Time, error) {
	if t, err := time.Parse("2006-01-02", r.Date); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, r.Date)
}
