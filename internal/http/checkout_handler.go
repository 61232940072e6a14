package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Saeid202/buyers/internal/cart"
	"github.com/Saeid202/buyers/internal/order/domain"
	"github.com/Saeid202/buyers/internal/order/service"
)

type CheckoutHandler struct {
	carts  *cart.Manager
	orders *service.OrderService
}

func NewCheckoutHandler(carts *cart.Manager, orders *service.OrderService) *CheckoutHandler {
	return &CheckoutHandler{carts: carts, orders: orders}
}

type CheckoutRequestDTO struct {
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerEmail   string `json:"customer_email"`
	ShippingAddress string `json:"shipping_address"`
	ShippingCity    string `json:"shipping_city"`
	PostalCode      string `json:"postal_code"`
	Notes           string `json:"notes"`
}

type CheckoutResponseDTO struct {
	OrderID  string  `json:"order_id"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`
}

// Checkout submits the session's cart as an order. The cart is read
// server-side and cleared only after the order is stored; any failure
// leaves it untouched.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	var items []cart.Item
	sessionID := sessionIDFromContext(r.Context())
	h.carts.Do(r.Context(), sessionID, func(s *cart.Store) {
		items = s.Items()
	})

	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		orderItems[i] = domain.OrderItem{
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Currency:    item.Currency,
		}
	}

	input := service.SubmitInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		PostalCode:      req.PostalCode,
		Notes:           req.Notes,
		Items:           orderItems,
	}
	if identity := identityFromContext(r.Context()); identity != nil {
		input.UserID = &identity.UserID
	}

	order, err := h.orders.SubmitOrder(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidOrder) {
			respondError(w, http.StatusBadRequest, "invalid_order", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	h.carts.Do(r.Context(), sessionID, func(s *cart.Store) {
		s.ClearCart(r.Context())
	})

	respondJSON(w, http.StatusCreated, CheckoutResponseDTO{
		OrderID:  order.ID.String(),
		Total:    order.Total,
		Currency: order.Currency,
	})
}
