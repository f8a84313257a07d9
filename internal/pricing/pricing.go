package pricing

import (
	"sack_back_end/internal/models"

	"github.com/shopspring/decimal"
)

const (
	// DeliveryFlatFee : forfait de livraison, quel que soit le poids ou la distance
	DeliveryFlatFee = 49
	// TaxRatePercent est l'unique taux de taxe utilisé partout (devis, commande, facture)
	TaxRatePercent = 5
)

var hundred = decimal.NewFromInt(100)

// Subtotal = Σ prix × quantité (ou poids), sans arrondi
func Subtotal(items []models.CartItem) float64 {
	sum := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromFloat(item.Units()))
		sum = sum.Add(line)
	}
	return sum.InexactFloat64()
}

func DeliveryFee(subtotal float64) float64 {
	if subtotal > 0 {
		return DeliveryFlatFee
	}
	return 0
}

func Tax(subtotal float64) float64 {
	return percentOf(subtotal, TaxRatePercent)
}

func Discount(subtotal float64, applied bool, percentage float64) float64 {
	if !applied {
		return 0
	}
	return percentOf(subtotal, percentage)
}

// Total n'est pas borné à zéro : une remise supérieure au reste donne un total négatif
func Total(subtotal, deliveryFee, tax, discount float64) float64 {
	return decimal.NewFromFloat(subtotal).
		Add(decimal.NewFromFloat(deliveryFee)).
		Add(decimal.NewFromFloat(tax)).
		Sub(decimal.NewFromFloat(discount)).
		InexactFloat64()
}

// percentOf arrondit à l'unité, demi vers le haut
func percentOf(amount, percent float64) float64 {
	v := decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(percent)).Div(hundred)
	return roundHalfUp(v).InexactFloat64()
}

func roundHalfUp(v decimal.Decimal) decimal.Decimal {
	return v.Add(decimal.NewFromFloat(0.5)).Floor()
}
