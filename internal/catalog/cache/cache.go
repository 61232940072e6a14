package cache

import (
	"context"
	"errors"

	"github.com/Saeid202/buyers/internal/catalog/domain"
)

var ErrCacheMiss = errors.New("product not in cache")

type ProductCache interface {
	Get(ctx context.Context, slug string) (*domain.Product, error)
	Set(ctx context.Context, slug string, product *domain.Product) error
	Delete(ctx context.Context, slug string) error
}
