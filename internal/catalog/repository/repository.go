package repository

import (
	"context"
	"errors"

	"github.com/Saeid202/buyers/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the catalog data operations. Consumers define
// this interface, not the sqlite implementation.
type ProductRepository interface {
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	ListProducts(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, error)
	GetLatestProducts(ctx context.Context, limit int) ([]*domain.Product, error)
	CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error)
	Close() error
}
