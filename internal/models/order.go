package models

import "time"

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderPendingPayment OrderStatus = "pending_payment"
	OrderProcessing     OrderStatus = "processing"
	OrderReady          OrderStatus = "ready"
	OrderCompleted      OrderStatus = "completed"
	OrderCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "paid"
	PaymentPending PaymentStatus = "pending"
)

type OrderService struct {
	ID          string  `json:"id" validate:"required"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Description string  `json:"description,omitempty"`
	WashType    string  `json:"washType,omitempty"`
	Items       string  `json:"items,omitempty"`
}

type Order struct {
	ID            string         `json:"id" validate:"required"`
	StudioID      string         `json:"studioId"`
	StudioName    string         `json:"studioName"`
	UserID        string         `json:"userId"`
	Services      []OrderService `json:"services" validate:"dive"`
	Subtotal      float64        `json:"subtotal"`
	DeliveryFee   float64        `json:"deliveryFee"`
	Tax           float64        `json:"tax"`
	Discount      float64        `json:"discount"`
	CouponCode    string         `json:"couponCode,omitempty"`
	TotalAmount   float64        `json:"totalAmount"`
	Status        OrderStatus    `json:"status" validate:"required,oneof=pending pending_payment processing ready completed cancelled"`
	Address       string         `json:"address,omitempty"`
	Instructions  string         `json:"instructions,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	PaymentMethod string         `json:"paymentMethod,omitempty"`
	PaymentStatus PaymentStatus  `json:"paymentStatus,omitempty" validate:"omitempty,oneof=paid pending"`
}

// Rating est stocké à part de la commande, indexé par ID de commande
type Rating struct {
	Rating   int       `json:"rating" validate:"gte=1,lte=5"`
	Feedback string    `json:"feedback"`
	Date     time.Time `json:"date"`
}
