package order

import (
	"context"
	"testing"
	"time"

	"sack_back_end/internal/cart"
	"sack_back_end/internal/coupon"
	"sack_back_end/internal/models"
	"sack_back_end/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	kv      *storage.MemoryStore
	orders  *Store
	cart    *cart.Store
	coupons *coupon.Service
	builder *Builder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	kv := storage.NewMemoryStore()
	f := fixture{
		kv:      kv,
		orders:  NewStore(kv, nil),
		cart:    cart.NewStore(kv, nil),
		coupons: coupon.NewService(kv, coupon.DefaultCatalog()),
	}
	f.builder = NewBuilder(f.orders, f.cart, f.coupons)
	f.builder.newID = func() string { return "order-1" }
	f.builder.now = func() time.Time { return time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.builder.CreateOrder(ctx, "u1", PlaceOrder{DeliveryFee: 49, Tax: 0})
	require.NoError(t, err)

	o, err := f.orders.GetByID(ctx, "u1", id)
	require.NoError(t, err)
	assert.NotNil(t, o.Services)
	assert.Empty(t, o.Services)
	assert.Equal(t, 49.0, o.TotalAmount)
	assert.Equal(t, DefaultStudioName, o.StudioName)
	assert.Equal(t, "u1", o.UserID)
	assert.Equal(t, models.OrderPendingPayment, o.Status)
	assert.Equal(t, models.PaymentPending, o.PaymentStatus)
}

func TestCreateOrder_MapsLinesAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "u1", models.CartItem{
		ServiceID: "dry-clean-shirt", ServiceName: "Shirt", Price: 120,
		Quantity: models.Float(2), StudioID: "s9", StudioName: "Fresh Folds",
		Items: []models.SubItem{{Name: "Shirt", Quantity: 2}, {Name: "Trouser", Quantity: 1}},
	})
	require.NoError(t, err)
	items, err := f.cart.Load(ctx, "u1", "")
	require.NoError(t, err)

	id, err := f.builder.CreateOrder(ctx, "u1", PlaceOrder{
		Items: items, Address: " 4 Park St ", Subtotal: 240, DeliveryFee: 49, Tax: 12, Discount: 36, CouponCode: "FRESH15",
	})
	require.NoError(t, err)
	assert.Equal(t, "order-1", id)

	o, err := f.orders.GetByID(ctx, "u1", id)
	require.NoError(t, err)
	assert.Equal(t, "s9", o.StudioID)
	assert.Equal(t, "Fresh Folds", o.StudioName)
	assert.Equal(t, "4 Park St", o.Address)
	assert.Equal(t, 265.0, o.TotalAmount)
	require.Len(t, o.Services, 1)
	line := o.Services[0]
	assert.Equal(t, 2.0, line.Quantity)
	assert.Equal(t, "Dry Cleaning - Upper Wear", line.Description)
	assert.Equal(t, DefaultWashType, line.WashType)
	assert.Equal(t, "Shirt x2, Trouser x1", line.Items)

	left, err := f.cart.Load(ctx, "u1", "")
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCheckout_UsesQuoteAndConsumesCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "u1", models.CartItem{ServiceID: "wash-iron-1", Price: 99, Quantity: models.Float(2)})
	require.NoError(t, err)
	_, err = f.coupons.Apply(ctx, "u1", "fresh15", 198)
	require.NoError(t, err)

	o, err := f.builder.Checkout(ctx, "u1", CheckoutRequest{Address: "12 MG Road"})
	require.NoError(t, err)
	assert.Equal(t, 198.0, o.Subtotal)
	assert.Equal(t, 49.0, o.DeliveryFee)
	assert.Equal(t, 10.0, o.Tax)
	assert.Equal(t, 30.0, o.Discount)
	assert.Equal(t, "FRESH15", o.CouponCode)
	assert.Equal(t, 227.0, o.TotalAmount)

	applied, err := f.coupons.Current(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, applied)
}

func TestCheckout_RejectsEmptyCartAndMissingAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.builder.Checkout(ctx, "u1", CheckoutRequest{Address: "x"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.Add(ctx, "u1", models.CartItem{ServiceID: "wash-fold-1", Price: 60, Weight: models.Float(1.5)})
	require.NoError(t, err)
	_, err = f.builder.Checkout(ctx, "u1", CheckoutRequest{Address: " "})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCheckout_DropsCouponBelowMinimum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "u1", models.CartItem{ServiceID: "wash-iron-1", Price: 250, Quantity: models.Float(2)})
	require.NoError(t, err)
	_, err = f.coupons.Apply(ctx, "u1", "EXPRESS20", 500)
	require.NoError(t, err)
	_, err = f.cart.UpdateQuantity(ctx, "u1", "", "wash-iron-1", 1)
	require.NoError(t, err)

	o, err := f.builder.Checkout(ctx, "u1", CheckoutRequest{Address: "12 MG Road"})
	require.NoError(t, err)
	assert.Equal(t, 250.0, o.Subtotal)
	assert.Equal(t, 0.0, o.Discount)
	assert.Empty(t, o.CouponCode)
	assert.Equal(t, 312.0, o.TotalAmount)

	applied, err := f.coupons.Current(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, applied)
	assert.Equal(t, "EXPRESS20", applied.Code)
}

func TestCheckout_StudioKeepsOtherStudioLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.cart.Add(ctx, "u1", models.CartItem{ServiceID: "wash-iron-1", Price: 99, StudioID: "s1"})
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "u1", models.CartItem{ServiceID: "wash-iron-1", Price: 99, StudioID: "s2"})
	require.NoError(t, err)

	o, err := f.builder.Checkout(ctx, "u1", CheckoutRequest{StudioID: "s1", Address: "12 MG Road"})
	require.NoError(t, err)
	assert.Equal(t, "s1", o.StudioID)
	assert.Equal(t, 99.0, o.Subtotal)

	left, err := f.cart.Load(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "s2", left[0].StudioID)
}
