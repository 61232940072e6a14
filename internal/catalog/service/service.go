package service

import (
	"context"
	"errors"
	"log"

	"github.com/Saeid202/buyers/internal/catalog/cache"
	"github.com/Saeid202/buyers/internal/catalog/domain"
	"github.com/Saeid202/buyers/internal/catalog/repository"
	"golang.org/x/sync/singleflight"
)

type CatalogService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	sfg   singleflight.Group // Prevents cache stampede on hot product pages
}

func NewCatalogService(repo repository.ProductRepository, cache cache.ProductCache) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
	}
}

// GetProductBySlug reads through the cache. Cache failures are logged and
// bypassed; only the repository can make this call fail.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	v, err, _ := s.sfg.Do(slug, func() (interface{}, error) {
		product, err := s.cache.Get(ctx, slug)
		if err == nil {
			return product, nil
		}

		if !errors.Is(err, cache.ErrCacheMiss) {
			log.Printf("catalog: cache get error: %v", err)
		}

		product, err = s.repo.GetProductBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := s.cache.Set(context.Background(), slug, product); err != nil {
				log.Printf("catalog: cache set error: %v", err)
			}
		}()

		return product, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*domain.Product), nil
}

func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, filter)
}

func (s *CatalogService) GetLatestProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.repo.GetLatestProducts(ctx, limit)
}

// GetFeaturedProducts returns the latest products. There is no featured
// flag in the schema yet.
func (s *CatalogService) GetFeaturedProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.repo.GetLatestProducts(ctx, limit)
}

// GetDiscountedProducts returns the first products of the listing. The
// schema has no discount column; this mirrors the storefront's current
// placeholder behavior.
func (s *CatalogService) GetDiscountedProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.repo.ListProducts(ctx, domain.ListFilter{Limit: limit})
}

// GetBestSellingProducts returns featured products; there is no sales
// counter to order by yet.
func (s *CatalogService) GetBestSellingProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return s.GetFeaturedProducts(ctx, limit)
}

func (s *CatalogService) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.repo.CategoryCounts(ctx)
}
