// Package payment implements two-tier validation for card entry
// fields: lenient normalization while the customer is typing, strict
// checks on commit.
package payment

import (
	"strings"
)

const (
	cardDigitsMin = 13
	cardDigitsMax = 19
	cardGroupSize = 4
)

// NormalizeCardNumber strips everything but digits, caps the result at
// 19 digits and regroups it in blocks of four separated by spaces.
func NormalizeCardNumber(raw string) string {
	digits := digitsOnly(raw, cardDigitsMax)
	if digits == "" {
		return ""
	}

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%cardGroupSize == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CardNumberValid reports whether the normalized number carries 13 to
// 19 digits, and passes the Luhn checksum when requireLuhn is set.
func CardNumberValid(raw string, requireLuhn bool) bool {
	digits := digitsOnly(raw, cardDigitsMax+1)
	if len(digits) < cardDigitsMin || len(digits) > cardDigitsMax {
		return false
	}
	if requireLuhn && !luhnValid(digits) {
		return false
	}
	return true
}

// Last4 returns the rightmost four digits of the number, or empty when
// fewer than four digits are present.
func Last4(raw string) string {
	digits := digitsOnly(raw, 0)
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}

// luhnValid walks the digits right to left, doubling every second one
// and subtracting 9 when the doubled value exceeds 9.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// digitsOnly keeps the decimal digits of raw, capped at max when max
// is positive.
func digitsOnly(raw string, max int) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		if max > 0 && b.Len() >= max {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
