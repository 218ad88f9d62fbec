package catalog

import (
	"github.com/squareeyes/storefront/internal/pricing"
)

// Image is the artwork attached to a catalog item.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// Item is one movie in the externally supplied catalog. Read-only to
// the engine; price fields are tolerant of malformed upstream data.
type Item struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Genre           string         `json:"genre"`
	Released        string         `json:"released,omitempty"`
	Rating          float64        `json:"rating"`
	Image           Image          `json:"image"`
	Price           pricing.Amount `json:"price"`
	DiscountedPrice pricing.Amount `json:"discountedPrice"`
	OnSale          bool           `json:"onSale"`
}

// ListPrice implements pricing.Saleable.
func (i Item) ListPrice() pricing.Amount { return i.Price }

// SalePrice implements pricing.Saleable.
func (i Item) SalePrice() pricing.Amount { return i.DiscountedPrice }

// IsOnSale implements pricing.Saleable.
func (i Item) IsOnSale() bool { return i.OnSale }
