package payment

import (
	"strconv"
	"strings"
	"time"
)

const expiryDigitsMax = 4

// NormalizeExpiry strips non-digits, caps at four digits and inserts
// the MM/YY slash once at least three digits are present.
func NormalizeExpiry(raw string) string {
	digits := digitsOnly(raw, expiryDigitsMax)
	if len(digits) < 3 {
		return digits
	}
	return digits[:2] + "/" + digits[2:]
}

// ExpiryValid reports whether raw is a complete MM/YY expiry with a
// month of 1-12 that is not strictly before now's month.
func ExpiryValid(raw string, now time.Time) bool {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}

	nowYear := now.Year() % 100
	nowMonth := int(now.Month())
	if year != nowYear {
		return year > nowYear
	}
	return month >= nowMonth
}
