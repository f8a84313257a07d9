package pricing

import (
	"sack_back_end/internal/models"

	"github.com/shopspring/decimal"
)

// Quote regroupe les montants affichés au récapitulatif du sac
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Discount    float64 `json:"discount"`
	CouponCode  string  `json:"couponCode,omitempty"`
	Total       float64 `json:"total"`
}

// NewQuote calcule le devis d'un panier ; coupon peut être nil
func NewQuote(items []models.CartItem, coupon *models.AppliedCoupon) Quote {
	subtotal := Subtotal(items)
	q := Quote{
		Subtotal:    subtotal,
		DeliveryFee: DeliveryFee(subtotal),
		Tax:         Tax(subtotal),
	}
	if coupon != nil {
		q.Discount = Discount(subtotal, coupon.Applied, coupon.Percentage)
		if coupon.Applied {
			q.CouponCode = coupon.Code
		}
	}
	q.Total = Total(q.Subtotal, q.DeliveryFee, q.Tax, q.Discount)
	return q
}

// TaxLine est une composante de taxe (affichage facture)
type TaxLine struct {
	Name        string  `json:"name"`
	RatePercent float64 `json:"ratePercent"`
	Amount      float64 `json:"amount"`
}

// TaxBreakdown répartit la taxe en deux moitiés CGST/SGST au même taux global.
// La somme des lignes vaut toujours Tax(subtotal).
func TaxBreakdown(subtotal float64) []TaxLine {
	total := decimal.NewFromFloat(Tax(subtotal))
	half := total.Div(decimal.NewFromInt(2)).Round(2)
	rest := total.Sub(half)
	rate := decimal.NewFromInt(TaxRatePercent).Div(decimal.NewFromInt(2)).InexactFloat64()

	return []TaxLine{
		{Name: "CGST", RatePercent: rate, Amount: half.InexactFloat64()},
		{Name: "SGST", RatePercent: rate, Amount: rest.InexactFloat64()},
	}
}
