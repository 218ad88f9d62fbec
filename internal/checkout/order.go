// Package checkout drives the checkout flow: a per-session state
// machine from cart review through payment entry to a completed,
// immutable order handed off for one-shot confirmation.
package checkout

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/pkg/enums"
)

// OrderLine is one priced cart line frozen into an order.
type OrderLine struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Qty   int             `json:"qty"`
	Unit  decimal.Decimal `json:"unit"`
	Line  decimal.Decimal `json:"line"`
	Image string          `json:"image,omitempty"`
}

// Customer is the trimmed contact details captured at submission.
type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Order is the immutable result of a successful submission. Prices
// are the ones locked when checkout began, not current catalog prices.
type Order struct {
	ID        string              `json:"id"`
	CreatedAt time.Time           `json:"createdAt"`
	Total     decimal.Decimal     `json:"total"`
	Items     []OrderLine         `json:"items"`
	Customer  Customer            `json:"customer"`
	Method    enums.PaymentMethod `json:"method"`
	Last4     *string             `json:"last4"`
}

func orderLines(lines []cart.Line) []OrderLine {
	out := make([]OrderLine, 0, len(lines))
	for _, line := range lines {
		title := line.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, OrderLine{
			ID:    line.ID,
			Title: title,
			Qty:   line.Qty,
			Unit:  line.UnitPrice(),
			Line:  line.LineTotal(),
			Image: line.Image,
		})
	}
	return out
}
