package domain

import "time"

type QuoteStatus string

const (
	QuotePending  QuoteStatus = "pending"
	QuoteSent     QuoteStatus = "sent"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
)

type Quote struct {
	ID                 string      `json:"id"`
	UserID             *string     `json:"userId"`
	Services           []string    `json:"services"`
	WheelCondition     string      `json:"wheelCondition"`
	VehicleBrand       string      `json:"vehicleBrand"`
	VehicleModel       string      `json:"vehicleModel"`
	VehicleYear        string      `json:"vehicleYear"`
	WheelSize          string      `json:"wheelSize"`
	CustomerName       string      `json:"customerName"`
	CustomerEmail      string      `json:"customerEmail"`
	CustomerPhone      string      `json:"customerPhone"`
	CustomerPostalCode string      `json:"customerPostalCode"`
	ImageURLs          []string    `json:"imageUrls"`
	Amount             *string     `json:"amount"`
	Status             QuoteStatus `json:"status"`
	CreatedAt          time.Time   `json:"createdAt"`
}

type CreateQuoteRequest struct {
	UserID             *string  `json:"userId,omitempty"`
	Services           []string `json:"services"`
	WheelCondition     string   `json:"wheelCondition"`
	VehicleBrand       string   `json:"vehicleBrand"`
	VehicleModel       string   `json:"vehicleModel"`
	VehicleYear        string   `json:"vehicleYear"`
	WheelSize          string   `json:"wheelSize"`
	CustomerName       string   `json:"customerName"`
	CustomerEmail      string   `json:"customerEmail"`
	CustomerPhone      string   `json:"customerPhone"`
	CustomerPostalCode string   `json:"customerPostalCode"`
	ImageURLs          []string `json:"imageUrls,omitempty"`
}

func (r *CreateQuoteRequest) Validate() error {
	if len(r.Services) == 0 {
		return Validationf("Le champ services est requis")
	}
	for _, s := range r.Services {
		if s == "" {
			return Validationf("Le champ services est requis")
		}
	}
	required := []struct {
		name  string
		value string
	}{
		{"wheelCondition", r.WheelCondition},
		{"vehicleBrand", r.VehicleBrand},
		{"vehicleModel", r.VehicleModel},
		{"vehicleYear", r.VehicleYear},
		{"wheelSize", r.WheelSize},
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
	if !emailRegex.MatchString(r.CustomerEmail) {
		return Validationf("Email invalide")
	}
	return nil
}

// SendQuoteRequest is the staff transition that prices a quote.
type SendQuoteRequest struct {
	Amount string `json:"amount"`
}

func (r *SendQuoteRequest) Validate() error {
	if r.Amount == "" {
		return Validationf("Le champ amount est requis")
	}
	return nil
}
