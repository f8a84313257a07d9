package models

type Coupon struct {
	Code        string  `json:"code"`
	Percentage  float64 `json:"percentage"`
	MinAmount   float64 `json:"min_amount"`
	Description string  `json:"description,omitempty"`
}

// AppliedCoupon est l'état de réduction du sac courant
type AppliedCoupon struct {
	Code       string  `json:"code" validate:"required"`
	Percentage float64 `json:"percentage" validate:"gt=0,lte=100"`
	Applied    bool    `json:"applied"`
}
