// Package currency carries the storefront's display-currency conventions.
// Rates are fixed approximations; the cart never converts item prices, it
// only picks a display currency and converts the flat shipping cost.
package currency

import (
	"fmt"
	"math"
	"strings"
)

// Fallback is assigned when an item or cart has no currency code.
const Fallback = "IRR"

// BaseShippingToman is the flat shipping cost, denominated in Toman.
const BaseShippingToman = 250000

// Approximate rates relative to USD. 1 USD = 50000 Toman.
var exchangeRates = map[string]float64{
	"USD": 1,
	"IRR": 50000,
	"EUR": 1.1,
}

var labels = map[string]string{
	"IRR": "Toman",
	"USD": "Dollar",
	"EUR": "Euro",
	"GBP": "Pound",
}

// Dominant returns the most frequent currency code among the given codes.
// A unanimous cart returns its one code; ties go to the code seen first;
// an empty list returns the fallback. Mixed carts are a known gap: the
// subtotal stays a raw sum and this heuristic only picks the display code.
func Dominant(codes []string) string {
	counts := make(map[string]int)
	var order []string
	for _, code := range codes {
		if code == "" {
			continue
		}
		if counts[code] == 0 {
			order = append(order, code)
		}
		counts[code]++
	}

	if len(order) == 0 {
		return Fallback
	}

	best := order[0]
	for _, code := range order[1:] {
		if counts[code] > counts[best] {
			best = code
		}
	}
	return best
}

// ConvertShippingCost converts a Toman-denominated shipping cost into the
// target currency via USD. Unknown targets are treated as USD-pegged.
func ConvertShippingCost(baseToman float64, target string) float64 {
	if target == "IRR" || target == "" {
		return baseToman
	}

	inUSD := baseToman / exchangeRates["IRR"]

	rate, ok := exchangeRates[target]
	if !ok {
		rate = 1
	}
	return inUSD * rate
}

// Label returns the display label for a currency code, falling back to the
// code itself.
func Label(code string) string {
	if label, ok := labels[code]; ok {
		return label
	}
	return code
}

// FormatPrice renders a price with thousands separators and a currency
// label. Negative values are floored at zero.
func FormatPrice(value float64, label string) string {
	return fmt.Sprintf("%s %s", groupDigits(math.Max(0, value)), label)
}

func groupDigits(value float64) string {
	whole := fmt.Sprintf("%.0f", math.Floor(value))

	var groups []string
	for len(whole) > 3 {
		groups = append([]string{whole[len(whole)-3:]}, groups...)
		whole = whole[:len(whole)-3]
	}
	groups = append([]string{whole}, groups...)

	return strings.Join(groups, ",")
}
