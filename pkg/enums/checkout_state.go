package enums

import "fmt"

// CheckoutState tracks where a session is in the checkout flow.
type CheckoutState string

const (
	CheckoutStateReviewing    CheckoutState = "reviewing"
	CheckoutStatePaymentEntry CheckoutState = "payment_entry"
	CheckoutStateSubmitting   CheckoutState = "submitting"
	CheckoutStateCompleted    CheckoutState = "completed"
)

var validCheckoutStates = []CheckoutState{
	CheckoutStateReviewing,
	CheckoutStatePaymentEntry,
	CheckoutStateSubmitting,
	CheckoutStateCompleted,
}

// String implements fmt.Stringer.
func (c CheckoutState) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutState.
func (c CheckoutState) IsValid() bool {
	for _, candidate := range validCheckoutStates {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the state ends the checkout session.
func (c CheckoutState) IsTerminal() bool {
	return c == CheckoutStateCompleted
}

// ParseCheckoutState converts raw input into a CheckoutState.
func ParseCheckoutState(value string) (CheckoutState, error) {
	for _, candidate := range validCheckoutStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout state %q", value)
}
