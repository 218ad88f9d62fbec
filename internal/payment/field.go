package payment

import (
	"time"
)

// FieldName identifies a card entry field in validation failures.
type FieldName string

const (
	FieldCardNumber FieldName = "cardNumber"
	FieldExpiry     FieldName = "expiry"
	FieldCVC        FieldName = "cvc"
)

// FieldError reports the first card field that failed strict
// validation, in a shape suitable for error envelope details.
type FieldError struct {
	Field   FieldName `json:"field"`
	Message string    `json:"message"`
}

// Field tracks one card entry input through its two validation tiers:
// Edit normalizes on every keystroke and only ever flags input that
// ran past the field's digit cap, while the strict validators run on
// commit.
type Field struct {
	name      FieldName
	normalize func(string) string
	maxDigits int
	value     string
	overflow  bool
}

func newField(name FieldName, normalize func(string) string, maxDigits int) Field {
	return Field{name: name, normalize: normalize, maxDigits: maxDigits}
}

// Edit replaces the field's value with the normalized form of raw and
// returns it for echoing back to the form.
func (f *Field) Edit(raw string) string {
	f.overflow = len(digitsOnly(raw, 0)) > f.maxDigits
	f.value = f.normalize(raw)
	return f.value
}

// Valid is the lenient mid-entry check. Incomplete input is fine; only
// input exceeding the digit cap is flagged.
func (f *Field) Valid() bool { return !f.overflow }

// Value returns the current normalized value.
func (f *Field) Value() string { return f.value }

// Draft groups the three card entry fields for one checkout attempt.
// Transient; never persisted.
type Draft struct {
	Number Field
	Expiry Field
	CVC    Field
}

// NewDraft returns an empty draft wired with the per-field
// normalizers.
func NewDraft() *Draft {
	return &Draft{
		Number: newField(FieldCardNumber, NormalizeCardNumber, cardDigitsMax),
		Expiry: newField(FieldExpiry, NormalizeExpiry, expiryDigitsMax),
		CVC:    newField(FieldCVC, NormalizeCVC, cvcDigitsMax),
	}
}

// Commit runs the strict validators in form order and reports the
// first failure. A nil result means every card field is acceptable.
func (d *Draft) Commit(requireLuhn bool, now time.Time) *FieldError {
	if !CardNumberValid(d.Number.Value(), requireLuhn) {
		return &FieldError{Field: FieldCardNumber, Message: "card number must be 13 to 19 digits"}
	}
	if !ExpiryValid(d.Expiry.Value(), now) {
		return &FieldError{Field: FieldExpiry, Message: "expiry must be a current or future MM/YY date"}
	}
	if !CVCValid(d.CVC.Value()) {
		return &FieldError{Field: FieldCVC, Message: "CVC must be 3 or 4 digits"}
	}
	return nil
}
