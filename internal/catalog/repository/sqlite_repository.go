package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/Saeid202/buyers/internal/catalog/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"
)

const placeholderImageURL = "/placeholder-product.svg"

// Categories, tags, features and specs are stored as JSON columns; the
// catalog is read-heavy and never filters on the inner values.
const productColumns = `id, slug, name, short_description, description, price,
	currency, categories, tags, features, specs, inventory, shipping_estimate, created_at`

type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	product, err := r.scanProduct(r.db.QueryRowContext(ctx, query, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query product by slug: %w", err)
	}

	if err := r.attachImages(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) ListProducts(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC`, productColumns)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		if filter.Category != "" && !hasCategory(product, filter.Category) {
			continue
		}

		products = append(products, product)
		if filter.Limit > 0 && len(products) == filter.Limit {
			break
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, product := range products {
		if err := r.attachImages(ctx, product); err != nil {
			return nil, err
		}
	}

	return products, nil
}

func (r *Repository) GetLatestProducts(ctx context.Context, limit int) ([]*domain.Product, error) {
	return r.ListProducts(ctx, domain.ListFilter{Limit: limit})
}

func (r *Repository) CategoryCounts(ctx context.Context) ([]domain.CategoryCount, error) {
	products, err := r.ListProducts(ctx, domain.ListFilter{})
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, product := range products {
		for _, category := range product.Categories {
			counts[category]++
		}
	}

	result := make([]domain.CategoryCount, 0, len(counts))
	for category, total := range counts {
		result = append(result, domain.CategoryCount{Category: category, Total: total})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].Category < result[j].Category
	})

	return result, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p          domain.Product
		categories []byte
		tags       []byte
		features   []byte
		specs      []byte
	)

	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Name,
		&p.ShortDescription,
		&p.Description,
		&p.Price,
		&p.Currency,
		&categories,
		&tags,
		&features,
		&specs,
		&p.Inventory,
		&p.ShippingEstimate,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalColumn(categories, &p.Categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if err := unmarshalColumn(tags, &p.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	if err := unmarshalColumn(features, &p.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	if err := unmarshalColumn(specs, &p.Specs); err != nil {
		return nil, fmt.Errorf("failed to decode specs: %w", err)
	}

	if p.ShortDescription == "" {
		p.ShortDescription = shorten(p.Description, 100)
	}

	return &p, nil
}

func (r *Repository) attachImages(ctx context.Context, product *domain.Product) error {
	query := `SELECT url, alt FROM product_images WHERE product_id = $1 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, product.ID)
	if err != nil {
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	var images []domain.ProductImage
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(&img.URL, &img.Alt); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		if img.Alt == "" {
			img.Alt = product.Name
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("row iteration error: %w", err)
	}

	// Products render fine without uploaded images.
	if len(images) == 0 {
		images = []domain.ProductImage{{URL: placeholderImageURL, Alt: product.Name}}
	}

	product.Images = images
	return nil
}

func unmarshalColumn[T any](data []byte, dest *[]T) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

func hasCategory(product *domain.Product, category string) bool {
	for _, c := range product.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func shorten(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
