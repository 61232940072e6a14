package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/Saeid202/buyers/internal/cart/storage"
	"github.com/Saeid202/buyers/internal/currency"
)

// Store owns one session's cart state. All mutations go through the pure
// Apply transition; after each successful transition the full state is
// written to the snapshot slot. Saves are best effort: a failed write
// degrades to memory-only operation and is only logged.
//
// A Store is single-writer; callers (the session manager) serialize access.
type Store struct {
	slot  storage.Slot
	state State
}

// NewStore hydrates the store from the slot. A missing, corrupt or
// unreadable snapshot yields an empty cart; hydration never fails.
func NewStore(ctx context.Context, slot storage.Slot) *Store {
	s := &Store{slot: slot}

	data, err := slot.Load(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNoSnapshot) {
			log.Printf("cart: snapshot load failed, starting empty: %v", err)
		}
		return s
	}

	s.state = decodeSnapshot(data)
	return s
}

// AddItem merges quantity into an existing line or appends a new one.
// Non-positive quantities are a no-op at this boundary, and a missing
// currency code gets the fallback before the item enters the state.
func (s *Store) AddItem(ctx context.Context, item Item, quantity int) {
	if quantity <= 0 {
		return
	}
	if item.Currency == "" {
		item.Currency = currency.Fallback
	}

	s.state = Apply(s.state, AddItemAction{Item: item, Quantity: quantity})
	s.persist(ctx)
}

// RemoveItem deletes the line with the given id. Missing ids are a no-op.
func (s *Store) RemoveItem(ctx context.Context, id string) {
	s.state = Apply(s.state, RemoveItemAction{ID: id})
	s.persist(ctx)
}

// UpdateQuantity replaces a line's quantity. A quantity <= 0 removes the
// line; a missing id is a no-op.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.state = Apply(s.state, UpdateQuantityAction{ID: id, Quantity: quantity})
	s.persist(ctx)
}

// ClearCart resets the cart to empty.
func (s *Store) ClearCart(ctx context.Context) {
	s.state = Apply(s.state, ClearAction{})
	s.persist(ctx)
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []Item {
	return copyItems(s.state.Items)
}

// TotalItems is the sum of quantities across all lines, recomputed on
// every read.
func (s *Store) TotalItems() int {
	total := 0
	for _, item := range s.state.Items {
		total += item.Quantity
	}
	return total
}

// Subtotal is the raw sum of price*quantity. It is only meaningful when
// all items share one currency; the store performs no conversion.
func (s *Store) Subtotal() float64 {
	total := 0.0
	for _, item := range s.state.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// Currency returns the cart's dominant display currency.
func (s *Store) Currency() string {
	codes := make([]string, 0, len(s.state.Items))
	for _, item := range s.state.Items {
		codes = append(codes, item.Currency)
	}
	return currency.Dominant(codes)
}

func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("cart: snapshot marshal failed: %v", err)
		return
	}
	if err := s.slot.Save(ctx, data); err != nil {
		log.Printf("cart: snapshot save failed: %v", err)
	}
}
