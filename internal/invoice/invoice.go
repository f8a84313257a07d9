package invoice

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"sack_back_end/internal/models"
	"sack_back_end/internal/pricing"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
)

var ErrPayeeRequired = errors.New("identifiant UPI du bénéficiaire manquant")

type Line struct {
	Name      string  `json:"name"`
	Details   string  `json:"details,omitempty"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Amount    float64 `json:"amount"`
}

// Invoice : récapitulatif affichable d'une commande
type Invoice struct {
	Number        string               `json:"number"`
	OrderID       string               `json:"orderId"`
	IssuedAt      time.Time            `json:"issuedAt"`
	StudioName    string               `json:"studioName"`
	Address       string               `json:"address,omitempty"`
	Lines         []Line               `json:"lines"`
	Subtotal      float64              `json:"subtotal"`
	DeliveryFee   float64              `json:"deliveryFee"`
	Taxes         []pricing.TaxLine    `json:"taxes"`
	Discount      float64              `json:"discount"`
	CouponCode    string               `json:"couponCode,omitempty"`
	Total         float64              `json:"total"`
	Status        models.OrderStatus   `json:"status"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	PaymentQR     string               `json:"paymentQr,omitempty"`
}

// Build construit la facture à partir des montants figés dans la commande
func Build(o models.Order) Invoice {
	inv := Invoice{
		Number:        Number(o),
		OrderID:       o.ID,
		IssuedAt:      o.CreatedAt,
		StudioName:    o.StudioName,
		Address:       o.Address,
		Lines:         make([]Line, 0, len(o.Services)),
		Subtotal:      o.Subtotal,
		DeliveryFee:   o.DeliveryFee,
		Taxes:         pricing.TaxBreakdown(o.Subtotal),
		Discount:      o.Discount,
		CouponCode:    o.CouponCode,
		Total:         o.TotalAmount,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
	}
	for _, s := range o.Services {
		amount := decimal.NewFromFloat(s.Price).Mul(decimal.NewFromFloat(s.Quantity)).Round(2)
		details := s.Description
		if s.Items != "" {
			details = strings.TrimSpace(details + " (" + s.Items + ")")
		}
		inv.Lines = append(inv.Lines, Line{
			Name:      s.Name,
			Details:   details,
			Quantity:  s.Quantity,
			UnitPrice: s.Price,
			Amount:    amount.InexactFloat64(),
		})
	}
	return inv
}

// Number : SACK-AAAAMMJJ-XXXXXXXX (8 premiers caractères de l'ID)
func Number(o models.Order) string {
	short := strings.ToUpper(strings.ReplaceAll(o.ID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("SACK-%s-%s", o.CreatedAt.Format("20060102"), short)
}

// PaymentQR génère un QR UPI en base64 prêt à mettre dans <img src="...">
func PaymentQR(payee, payeeName string, o models.Order) (string, error) {
	if strings.TrimSpace(payee) == "" {
		return "", ErrPayeeRequired
	}

	q := url.Values{}
	q.Set("pa", payee)
	q.Set("pn", payeeName)
	q.Set("am", decimal.NewFromFloat(o.TotalAmount).StringFixed(2))
	q.Set("cu", "INR")
	q.Set("tn", "Commande "+Number(o))

	png, err := qrcode.Encode("upi://pay?"+q.Encode(), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
