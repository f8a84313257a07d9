package models

type StudioSummary struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	Rating   float64 `json:"rating,omitempty"`
	Location string  `json:"location,omitempty"`
	ImageURL string  `json:"imageUrl,omitempty"`
}

type ServiceSummary struct {
	ID       string  `json:"id" validate:"required"`
	Name     string  `json:"name"`
	StudioID string  `json:"studioId,omitempty"`
	Price    float64 `json:"price,omitempty"`
}
