package http

import (
	"net/http"

	"github.com/Saeid202/buyers/internal/order/domain"
	"github.com/Saeid202/buyers/internal/order/service"
)

type OrdersHandler struct {
	orders *service.OrderService
}

func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

type OrderSummaryDTO struct {
	*domain.Order
	StatusLabel string `json:"status_label"`
}

// ListOrders returns the signed-in user's order history, newest first.
// Guest orders have no user id and never appear here.
func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity := identityFromContext(r.Context())
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "unauthorized", "sign in to view order history")
		return
	}

	orders, err := h.orders.ListOrdersByUserID(r.Context(), identity.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	summaries := make([]OrderSummaryDTO, len(orders))
	for i, order := range orders {
		summaries[i] = OrderSummaryDTO{Order: order, StatusLabel: domain.StatusLabel(order.Status)}
	}
	respondJSON(w, http.StatusOK, summaries)
}
