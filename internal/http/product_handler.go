package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/Saeid202/buyers/internal/catalog/domain"
	"github.com/Saeid202/buyers/internal/catalog/repository"
	catalog "github.com/Saeid202/buyers/internal/catalog/service"
	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	catalog *catalog.CatalogService
}

func NewProductHandler(catalogService *catalog.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalogService}
}

const defaultCollectionLimit = 8

// ListProducts serves the storefront's product rails. The optional
// collection parameter selects one of the curated views; category and
// limit narrow the plain listing.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	var (
		products []*domain.Product
		err      error
	)
	switch collection := r.URL.Query().Get("collection"); collection {
	case "":
		products, err = h.catalog.ListProducts(r.Context(), domain.ListFilter{
			Category: r.URL.Query().Get("category"),
			Limit:    limit,
		})
	case "latest":
		products, err = h.catalog.GetLatestProducts(r.Context(), collectionLimit(limit))
	case "featured":
		products, err = h.catalog.GetFeaturedProducts(r.Context(), collectionLimit(limit))
	case "discounted":
		products, err = h.catalog.GetDiscountedProducts(r.Context(), collectionLimit(limit))
	case "best-selling":
		products, err = h.catalog.GetBestSellingProducts(r.Context(), collectionLimit(limit))
	default:
		respondError(w, http.StatusBadRequest, "invalid_collection", "unknown collection")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if products == nil {
		products = []*domain.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

func collectionLimit(limit int) int {
	if limit == 0 {
		return defaultCollectionLimit
	}
	return limit
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := h.catalog.GetProductBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	counts, err := h.catalog.CategoryCounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	if counts == nil {
		counts = []domain.CategoryCount{}
	}
	respondJSON(w, http.StatusOK, counts)
}
