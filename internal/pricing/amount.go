package pricing

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a money value that tolerates the malformed price data the
// upstream catalog is known to ship. Null, missing, non-numeric or
// non-finite values decode as an absent amount instead of failing the
// whole document.
type Amount struct {
	value   decimal.Decimal
	present bool
}

// AmountFromFloat builds a present amount. Non-finite inputs produce
// an absent amount.
func AmountFromFloat(value float64) Amount {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Amount{}
	}
	return Amount{value: decimal.NewFromFloat(value), present: true}
}

// AmountFromDecimal builds a present amount.
func AmountFromDecimal(value decimal.Decimal) Amount {
	return Amount{value: value, present: true}
}

// Present reports whether the amount carries a usable value.
func (a Amount) Present() bool { return a.present }

// Decimal returns the carried value, zero when absent.
func (a Amount) Decimal() decimal.Decimal {
	if !a.present {
		return decimal.Zero
	}
	return a.value
}

// MarshalJSON writes the numeric value, or null when absent.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.present {
		return []byte("null"), nil
	}
	return []byte(a.value.String()), nil
}

// UnmarshalJSON accepts numbers and numeric strings. Anything else,
// including null and garbage tokens, decodes as absent without error.
func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = parseAmount(string(data))
	return nil
}

func parseAmount(raw string) Amount {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return Amount{}
	}
	if strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) && len(trimmed) >= 2 {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return Amount{}
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Amount{}
	}
	return Amount{value: value, present: true}
}
