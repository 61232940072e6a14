package domain

import "time"

type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type ProductSpec struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Product is a catalog record. Prices are unit prices in Currency; the
// cart captures these fields at add-time and never reads them back.
type Product struct {
	ID               string         `json:"id"`
	Slug             string         `json:"slug"`
	Name             string         `json:"name"`
	ShortDescription string         `json:"short_description"`
	Description      string         `json:"description"`
	Price            float64        `json:"price"`
	Currency         string         `json:"currency"`
	Categories       []string       `json:"categories"`
	Tags             []string       `json:"tags"`
	Features         []string       `json:"features"`
	Images           []ProductImage `json:"images"`
	Specs            []ProductSpec  `json:"specs"`
	Inventory        int            `json:"inventory"`
	ShippingEstimate string         `json:"shipping_estimate"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ListFilter narrows a product listing. A zero Limit means no limit.
type ListFilter struct {
	Category string
	Limit    int
}

type CategoryCount struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}
