package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/coupon"
	"sack_back_end/internal/metrics"
	"sack_back_end/internal/models"
	"sack_back_end/internal/pricing"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultStudioName = "Sack Partner Studio"
	DefaultWashType   = "Regular"
)

// PlaceOrder contient tout ce que l'écran de paiement connaît au moment de valider
type PlaceOrder struct {
	Items        []models.CartItem
	StudioID     string
	Address      string
	Instructions string
	Subtotal     float64
	DeliveryFee  float64
	Tax          float64
	Discount     float64
	CouponCode   string
	UserID       string
}

// CheckoutRequest : les montants sont recalculés à partir du sac et du coupon
type CheckoutRequest struct {
	StudioID     string `json:"studioId"`
	Address      string `json:"address" binding:"required"`
	Instructions string `json:"instructions"`
	UserID       string `json:"-"`
}

// Builder transforme un sac en commande
type Builder struct {
	orders  *Store
	cart    *cart.Store
	coupons *coupon.Service
	now     func() time.Time
	newID   func() string
}

func NewBuilder(orders *Store, cartStore *cart.Store, coupons *coupon.Service) *Builder {
	return &Builder{
		orders:  orders,
		cart:    cartStore,
		coupons: coupons,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   uuid.NewString,
	}
}

// CreateOrder enregistre la commande puis vide le sac. Le vidage est au mieux :
// s'il échoue la commande reste créée.
func (b *Builder) CreateOrder(ctx context.Context, owner string, req PlaceOrder) (string, error) {
	return b.place(ctx, owner, req, "")
}

// place enregistre la commande puis retire du sac les lignes de clearStudio
// (tout le sac si vide).
func (b *Builder) place(ctx context.Context, owner string, req PlaceOrder, clearStudio string) (string, error) {
	items := cart.Categorize(req.Items)

	studioID := req.StudioID
	studioName := DefaultStudioName
	if len(items) > 0 {
		if studioID == "" {
			studioID = items[0].StudioID
		}
		if items[0].StudioName != "" {
			studioName = items[0].StudioName
		}
	}

	userID := req.UserID
	if userID == "" {
		userID = owner
	}

	now := b.now()
	o := models.Order{
		ID:            b.newID(),
		StudioID:      studioID,
		StudioName:    studioName,
		UserID:        userID,
		Services:      make([]models.OrderService, 0, len(items)),
		Subtotal:      req.Subtotal,
		DeliveryFee:   req.DeliveryFee,
		Tax:           req.Tax,
		Discount:      req.Discount,
		CouponCode:    req.CouponCode,
		TotalAmount:   pricing.Total(req.Subtotal, req.DeliveryFee, req.Tax, req.Discount),
		Status:        models.OrderPendingPayment,
		Address:       strings.TrimSpace(req.Address),
		Instructions:  strings.TrimSpace(req.Instructions),
		CreatedAt:     now,
		UpdatedAt:     now,
		PaymentStatus: models.PaymentPending,
	}
	for _, item := range items {
		o.Services = append(o.Services, toService(item))
	}

	if err := b.orders.Append(ctx, owner, o); err != nil {
		return "", fmt.Errorf("enregistrement de la commande: %w", err)
	}
	metrics.OrdersCreated.Inc()
	log.WithField("owner", owner).Printf("✅ Commande %s créée (%.2f)", o.ID, o.TotalAmount)

	if _, err := b.cart.ClearStudio(ctx, owner, clearStudio); err != nil {
		log.WithField("owner", owner).Warnf("⚠️ Commande %s créée mais sac non vidé: %v", o.ID, err)
	}
	return o.ID, nil
}

// Checkout passe commande à partir du sac courant et du coupon appliqué.
// Avec un studioId seules les lignes de ce studio sont commandées puis retirées du sac.
func (b *Builder) Checkout(ctx context.Context, owner string, req CheckoutRequest) (models.Order, error) {
	items, err := b.cart.Load(ctx, owner, req.StudioID)
	if err != nil {
		return models.Order{}, err
	}
	if len(items) == 0 {
		return models.Order{}, fmt.Errorf("%w: le sac est vide", ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" {
		return models.Order{}, fmt.Errorf("%w: adresse requise", ErrValidation)
	}

	applied, err := b.coupons.Effective(ctx, owner, pricing.Subtotal(items))
	if err != nil {
		return models.Order{}, err
	}
	quote := pricing.NewQuote(items, applied)

	id, err := b.place(ctx, owner, PlaceOrder{
		Items:        items,
		StudioID:     req.StudioID,
		Address:      req.Address,
		Instructions: req.Instructions,
		Subtotal:     quote.Subtotal,
		DeliveryFee:  quote.DeliveryFee,
		Tax:          quote.Tax,
		Discount:     quote.Discount,
		CouponCode:   quote.CouponCode,
		UserID:       req.UserID,
	}, req.StudioID)
	if err != nil {
		return models.Order{}, err
	}

	if applied != nil {
		if err := b.coupons.Remove(ctx, owner); err != nil {
			log.WithField("owner", owner).Warnf("⚠️ Coupon non retiré après commande: %v", err)
		}
	}
	return b.orders.GetByID(ctx, owner, id)
}

func toService(item models.CartItem) models.OrderService {
	washType := item.WashType
	if washType == "" {
		washType = DefaultWashType
	}
	return models.OrderService{
		ID:          item.ServiceID,
		Name:        item.ServiceName,
		Price:       item.Price,
		Quantity:    item.Units(),
		Description: describe(item),
		WashType:    washType,
		Items:       flattenItems(item.Items),
	}
}

func describe(item models.CartItem) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{item.ServiceCategory, item.ServiceSubCategory} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " - ")
}

// flattenItems : "Shirt x2, Trouser x1"
func flattenItems(items []models.SubItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, it.Name+" x"+strconv.Itoa(it.Quantity))
	}
	return strings.Join(parts, ", ")
}
