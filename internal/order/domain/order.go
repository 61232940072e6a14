package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var statusLabels = map[OrderStatus]string{
	OrderStatusPending:    "Awaiting review",
	OrderStatusProcessing: "Processing",
	OrderStatusShipped:    "Shipped",
	OrderStatusDelivered:  "Delivered",
	OrderStatusCancelled:  "Cancelled",
}

// StatusLabel returns the display label for a status, falling back to the
// raw status value.
func StatusLabel(status OrderStatus) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return string(status)
}

type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency,omitempty"`
}

// Order is a placed order. There are no payment fields: payment is
// arranged out-of-band by a follow-up call after the order is placed.
type Order struct {
	ID              uuid.UUID   `json:"id"`
	UserID          *string     `json:"user_id"`
	CustomerName    string      `json:"customer_name"`
	CustomerPhone   string      `json:"customer_phone"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingCity    string      `json:"shipping_city"`
	PostalCode      string      `json:"postal_code"`
	Notes           string      `json:"notes,omitempty"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	ShippingCost    float64     `json:"shipping_cost"`
	Total           float64     `json:"total"`
	Currency        string      `json:"currency"`
	Status          OrderStatus `json:"status"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

const EventTypeOrderPlaced = "OrderPlaced"

// OrderPlacedEvent is the outbox payload published to Kafka when an order
// is placed.
type OrderPlacedEvent struct {
	OrderID       string      `json:"order_id"`
	UserID        *string     `json:"user_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerPhone string      `json:"customer_phone"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	Currency      string      `json:"currency"`
	PlacedAt      time.Time   `json:"placed_at"`
}

func NewOrderPlacedEvent(o *Order) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:       o.ID.String(),
		UserID:        o.UserID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		Items:         o.Items,
		Total:         o.Total,
		Currency:      o.Currency,
		PlacedAt:      o.CreatedAt,
	}
}
