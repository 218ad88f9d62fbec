package payment

const cvcDigitsMax = 4

// NormalizeCVC strips non-digits and caps at four digits.
func NormalizeCVC(raw string) string {
	return digitsOnly(raw, cvcDigitsMax)
}

// CVCValid reports whether raw is exactly three or four digits.
func CVCValid(raw string) bool {
	digits := digitsOnly(raw, cvcDigitsMax+1)
	return digits == raw && (len(digits) == 3 || len(digits) == 4)
}
