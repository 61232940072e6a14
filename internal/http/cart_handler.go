package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Saeid202/buyers/internal/cart"
	"github.com/Saeid202/buyers/internal/catalog/repository"
	catalog "github.com/Saeid202/buyers/internal/catalog/service"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.CatalogService
}

func NewCartHandler(carts *cart.Manager, catalogService *catalog.CatalogService) *CartHandler {
	return &CartHandler{carts: carts, catalog: catalogService}
}

type AddItemRequestDTO struct {
	Slug     string `json:"slug"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type CartResponseDTO struct {
	Items      []cart.Item `json:"items"`
	TotalItems int         `json:"total_items"`
	Subtotal   float64     `json:"subtotal"`
	Currency   string      `json:"currency"`
}

func cartResponse(s *cart.Store) CartResponseDTO {
	items := s.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return CartResponseDTO{
		Items:      items,
		TotalItems: s.TotalItems(),
		Subtotal:   s.Subtotal(),
		Currency:   s.Currency(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	var resp CartResponseDTO
	h.carts.Do(r.Context(), sessionIDFromContext(r.Context()), func(s *cart.Store) {
		resp = cartResponse(s)
	})
	respondJSON(w, http.StatusOK, resp)
}

// AddItem resolves the product server-side so display fields (name, price,
// currency, image) are captured from the catalog, never from the client.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Slug == "" {
		respondError(w, http.StatusBadRequest, "invalid_slug", "slug is required")
		return
	}
	if req.Quantity <= 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.catalog.GetProductBySlug(r.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	item := cart.Item{
		ID:       product.ID,
		Slug:     product.Slug,
		Name:     product.Name,
		Price:    product.Price,
		Currency: product.Currency,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0].URL
	}

	var resp CartResponseDTO
	h.carts.Do(r.Context(), sessionIDFromContext(r.Context()), func(s *cart.Store) {
		s.AddItem(r.Context(), item, req.Quantity)
		resp = cartResponse(s)
	})
	respondJSON(w, http.StatusCreated, resp)
}

// UpdateQuantity replaces a line's quantity. Zero removes the line, which
// is how the storefront's stepper expresses removal.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	var resp CartResponseDTO
	h.carts.Do(r.Context(), sessionIDFromContext(r.Context()), func(s *cart.Store) {
		s.UpdateQuantity(r.Context(), itemID, req.Quantity)
		resp = cartResponse(s)
	})
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_item_id", "item id is required")
		return
	}

	var resp CartResponseDTO
	h.carts.Do(r.Context(), sessionIDFromContext(r.Context()), func(s *cart.Store) {
		s.RemoveItem(r.Context(), itemID)
		resp = cartResponse(s)
	})
	respondJSON(w, http.StatusOK, resp)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	var resp CartResponseDTO
	h.carts.Do(r.Context(), sessionIDFromContext(r.Context()), func(s *cart.Store) {
		s.ClearCart(r.Context())
		resp = cartResponse(s)
	})
	respondJSON(w, http.StatusOK, resp)
}
