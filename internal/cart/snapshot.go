package cart

import (
	"encoding/json"
	"math"

	"github.com/Saeid202/buyers/internal/currency"
)

// storedItem mirrors Item but tolerates sloppy snapshots: ids of any JSON
// type and fractional or negative quantities must not fail the decode.
type storedItem struct {
	ID       any     `json:"id"`
	Slug     string  `json:"slug"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Image    string  `json:"image"`
	Quantity float64 `json:"quantity"`
}

type storedState struct {
	Items []storedItem `json:"items"`
}

// decodeSnapshot turns a persisted blob back into a valid State. A corrupt
// blob yields an empty cart; entries without a string id are dropped and
// invalid quantities are coerced to 1. Hydration never fails.
func decodeSnapshot(data []byte) State {
	var stored storedState
	if err := json.Unmarshal(data, &stored); err != nil {
		return State{}
	}

	var items []Item
	for _, raw := range stored.Items {
		id, ok := raw.ID.(string)
		if !ok || id == "" {
			continue
		}

		quantity := 1
		if !math.IsNaN(raw.Quantity) && !math.IsInf(raw.Quantity, 0) && raw.Quantity >= 1 {
			quantity = int(raw.Quantity)
		}

		code := raw.Currency
		if code == "" {
			code = currency.Fallback
		}

		items = append(items, Item{
			ID:       id,
			Slug:     raw.Slug,
			Name:     raw.Name,
			Price:    raw.Price,
			Currency: code,
			Image:    raw.Image,
			Quantity: quantity,
		})
	}

	return State{Items: items}
}
