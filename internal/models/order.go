package models

import "time"

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
)

type OrderItem struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price"`
}

// OrderRequest is the wire payload for POST /orders. It is a value snapshot
// assembled at checkout time and never mutated after submission.
type OrderRequest struct {
	Items         []OrderItem   `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount" validate:"gte=0"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod" validate:"required,oneof=cash card"`
	UserID        string        `json:"userId" validate:"required"`
}

// CashierRef is the populated cashier reference the backend embeds in
// persisted orders.
type CashierRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Order is the persisted order record returned by the backend. The core only
// reads it for receipt display and report export.
type Order struct {
	ID            string        `json:"_id"`
	Items         []OrderItem   `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CashierID     CashierRef    `json:"cashierId"`
	CreatedAt     time.Time     `json:"createdAt"`
}
