package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Saeid202/buyers/internal/currency"
	"github.com/Saeid202/buyers/internal/order/domain"
	"github.com/Saeid202/buyers/internal/order/repository"
	"github.com/google/uuid"
)

var ErrInvalidOrder = errors.New("invalid order")

// SubmitInput is the checkout form plus the cart contents at submission
// time. UserID is attached by the caller when a session is signed in; the
// order is placed either way.
type SubmitInput struct {
	UserID          *string
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	ShippingAddress string
	ShippingCity    string
	PostalCode      string
	Notes           string
	Items           []domain.OrderItem
}

type OrderService struct {
	repo repository.OrderRepository
}

func NewOrderService(repo repository.OrderRepository) *OrderService {
	return &OrderService{repo: repo}
}

// SubmitOrder validates the form, recomputes totals server-side and
// persists the order with its outbox event. On any failure nothing is
// stored and the caller keeps its cart untouched. There is no payment
// step: a human follows up by phone after the order is placed.
func (s *OrderService) SubmitOrder(ctx context.Context, input SubmitInput) (*domain.Order, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	subtotal := 0.0
	codes := make([]string, 0, len(input.Items))
	for _, item := range input.Items {
		subtotal += item.Price * float64(item.Quantity)
		codes = append(codes, item.Currency)
	}

	// Subtotal is a raw sum; the dominant currency only scales the flat
	// shipping cost, matching the storefront's display heuristic.
	code := currency.Dominant(codes)
	shippingCost := currency.ConvertShippingCost(currency.BaseShippingToman, code)

	order := &domain.Order{
		ID:              uuid.New(),
		UserID:          input.UserID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		ShippingAddress: input.ShippingAddress,
		ShippingCity:    input.ShippingCity,
		PostalCode:      input.PostalCode,
		Notes:           input.Notes,
		Items:           input.Items,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
		Total:           subtotal + shippingCost,
		Currency:        code,
		Status:          domain.OrderStatusPending,
		CreatedAt:       time.Now(),
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		log.Printf("order: create failed: %v", err)
		return nil, err
	}

	return order, nil
}

func (s *OrderService) ListOrdersByUserID(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListOrdersByUserID(ctx, userID)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.repo.GetOrderByID(ctx, id)
}

func validate(input SubmitInput) error {
	switch {
	case input.CustomerName == "":
		return fmt.Errorf("%w: customer name is required", ErrInvalidOrder)
	case input.CustomerPhone == "":
		return fmt.Errorf("%w: customer phone is required", ErrInvalidOrder)
	case input.ShippingAddress == "":
		return fmt.Errorf("%w: shipping address is required", ErrInvalidOrder)
	case input.ShippingCity == "":
		return fmt.Errorf("%w: shipping city is required", ErrInvalidOrder)
	case input.PostalCode == "":
		return fmt.Errorf("%w: postal code is required", ErrInvalidOrder)
	case len(input.Items) == 0:
		return fmt.Errorf("%w: cart is empty", ErrInvalidOrder)
	}

	for _, item := range input.Items {
		if item.ProductID == "" {
			return fmt.Errorf("%w: item without product id", ErrInvalidOrder)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("%w: item %s has non-positive quantity", ErrInvalidOrder, item.ProductID)
		}
	}

	return nil
}
