package pricing

import (
	"github.com/shopspring/decimal"
)

// Saleable is anything with a list price and an optional sale price.
type Saleable interface {
	ListPrice() Amount
	SalePrice() Amount
	IsOnSale() bool
}

// UnitPrice resolves the effective per-unit price: the sale price when
// the item is flagged on sale and the sale price is usable, otherwise
// the list price, otherwise zero. Never negative, never an error.
func UnitPrice(s Saleable) decimal.Decimal {
	if s.IsOnSale() && s.SalePrice().Present() {
		return nonNegative(s.SalePrice().Decimal())
	}
	if s.ListPrice().Present() {
		return nonNegative(s.ListPrice().Decimal())
	}
	return decimal.Zero
}

func nonNegative(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	return value
}
