package domain

// Service is a catalog entry for the shop's offerings.
type Service struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   *string `json:"basePrice"`
}

func strPtr(s string) *string { return &s }

// DefaultServices is the seeded catalog.
func DefaultServices() []Service {
	return []Service{
		{
			ID:          "renovation",
			Name:        "Rénovation",
			Description: "Remise à neuf complète de vos jantes en aluminium",
			BasePrice:   strPtr("150.00"),
		},
		{
			ID:          "personnalisation",
			Name:        "Personnalisation",
			Description: "Customisation selon vos goûts et couleurs préférées",
			BasePrice:   strPtr("200.00"),
		},
		{
			ID:          "devoilage",
			Name:        "Dévoilage",
			Description: "Redressage professionnel de jantes voilées",
			BasePrice:   strPtr("80.00"),
		},
		{
			ID:          "decapage",
			Name:        "Décapage",
			Description: "Décapage chimique pour une base parfaite",
			BasePrice:   strPtr("60.00"),
		},
	}
}
