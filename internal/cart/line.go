package cart

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/pricing"
)

// Line is one product entry in the cart with an aggregated quantity.
// Quantity is always at least 1 in memory; persisted records missing a
// usable quantity are coerced on read.
type Line struct {
	ID              string
	Title           string
	Price           pricing.Amount
	DiscountedPrice pricing.Amount
	OnSale          bool
	Image           string
	Qty             int
}

// NewLine snapshots a catalog item into a fresh cart line.
func NewLine(item catalog.Item) Line {
	return Line{
		ID:              item.ID,
		Title:           item.Title,
		Price:           item.Price,
		DiscountedPrice: item.DiscountedPrice,
		OnSale:          item.OnSale,
		Image:           item.Image.URL,
		Qty:             1,
	}
}

// ListPrice implements pricing.Saleable.
func (l Line) ListPrice() pricing.Amount { return l.Price }

// SalePrice implements pricing.Saleable.
func (l Line) SalePrice() pricing.Amount { return l.DiscountedPrice }

// IsOnSale implements pricing.Saleable.
func (l Line) IsOnSale() bool { return l.OnSale }

// UnitPrice resolves the effective per-unit price of the line.
func (l Line) UnitPrice() decimal.Decimal {
	return pricing.UnitPrice(l)
}

// LineTotal returns unit price times quantity.
func (l Line) LineTotal() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(effectiveQty(l.Qty))))
}

type lineEncoded struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Price           pricing.Amount `json:"price"`
	DiscountedPrice pricing.Amount `json:"discountedPrice"`
	OnSale          bool           `json:"onSale"`
	Image           string         `json:"image"`
	Qty             int            `json:"qty"`
}

type lineDecoded struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Price           pricing.Amount  `json:"price"`
	DiscountedPrice pricing.Amount  `json:"discountedPrice"`
	OnSale          bool            `json:"onSale"`
	Image           string          `json:"image"`
	Qty             json.RawMessage `json:"qty"`
	LegacyQty       json.RawMessage `json:"quantity"`
}

// MarshalJSON writes the canonical record shape. The legacy "quantity"
// field is never written back, which migrates old records on the next
// persist.
func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineEncoded{
		ID:              l.ID,
		Title:           l.Title,
		Price:           l.Price,
		DiscountedPrice: l.DiscountedPrice,
		OnSale:          l.OnSale,
		Image:           l.Image,
		Qty:             effectiveQty(l.Qty),
	})
}

// UnmarshalJSON reads either the canonical "qty" field or the legacy
// "quantity" field, coercing missing or unusable values to 1.
func (l *Line) UnmarshalJSON(data []byte) error {
	var raw lineDecoded
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	qty, ok := parseQty(raw.Qty)
	if !ok {
		qty, _ = parseQty(raw.LegacyQty)
	}

	*l = Line{
		ID:              raw.ID,
		Title:           raw.Title,
		Price:           raw.Price,
		DiscountedPrice: raw.DiscountedPrice,
		OnSale:          raw.OnSale,
		Image:           raw.Image,
		Qty:             effectiveQty(qty),
	}
	return nil
}

func parseQty(raw json.RawMessage) (int, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, false
	}
	trimmed = strings.Trim(trimmed, `"`)
	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return int(value), true
}

func effectiveQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}
