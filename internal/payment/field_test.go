package payment

import (
	"testing"
	"time"
)

var checkoutNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestNormalizeCardNumber(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "groups by four", raw: "4242424242424242", want: "4242 4242 4242 4242"},
		{name: "strips separators", raw: "4242-4242 4242.4242", want: "4242 4242 4242 4242"},
		{name: "caps at nineteen digits", raw: "12345678901234567890123", want: "1234 5678 9012 3456 789"},
		{name: "ignores letters", raw: "4a2b4c2d", want: "4242"},
		{name: "empty", raw: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeCardNumber(tt.raw); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCardNumberValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		luhn bool
		want bool
	}{
		{name: "sixteen digits with spaces", raw: "4242 4242 4242 4242", want: true},
		{name: "too short", raw: "4242", want: false},
		{name: "thirteen digits", raw: "4222222222222", want: true},
		{name: "twenty digits", raw: "12345678901234567890", want: false},
		{name: "luhn pass", raw: "4242 4242 4242 4242", luhn: true, want: true},
		{name: "luhn fail", raw: "4242 4242 4242 4241", luhn: true, want: false},
		{name: "luhn off accepts bad checksum", raw: "4242 4242 4242 4241", want: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CardNumberValid(tt.raw, tt.luhn); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLast4(t *testing.T) {
	t.Parallel()

	if got := Last4("4242 4242 4242 4242"); got != "4242" {
		t.Fatalf("expected 4242, got %q", got)
	}
	if got := Last4("123"); got != "" {
		t.Fatalf("expected empty for short input, got %q", got)
	}
}

func TestNormalizeExpiry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "two digits unslashed", raw: "12", want: "12"},
		{name: "three digits gain slash", raw: "123", want: "12/3"},
		{name: "four digits", raw: "1229", want: "12/29"},
		{name: "existing slash preserved", raw: "12/29", want: "12/29"},
		{name: "caps at four digits", raw: "122934", want: "12/29"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeExpiry(tt.raw); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExpiryValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{name: "past year", raw: "01/20", want: false},
		{name: "current month", raw: "03/26", want: true},
		{name: "previous month", raw: "02/26", want: false},
		{name: "future year", raw: "01/27", want: true},
		{name: "month thirteen", raw: "13/27", want: false},
		{name: "month zero", raw: "00/27", want: false},
		{name: "incomplete", raw: "12/3", want: false},
		{name: "no slash", raw: "1229", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExpiryValid(tt.raw, checkoutNow); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestCVCValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: "12", want: false},
		{raw: "123", want: true},
		{raw: "1234", want: true},
		{raw: "12345", want: false},
		{raw: "12a", want: false},
		{raw: "", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			if got := CVCValid(tt.raw); got != tt.want {
				t.Fatalf("CVCValid(%q): expected %v, got %v", tt.raw, tt.want, got)
			}
		})
	}
}

func TestFieldEditNeverFlagsPartialEntry(t *testing.T) {
	t.Parallel()

	draft := NewDraft()

	if got := draft.Number.Edit("42"); got != "42" {
		t.Fatalf("unexpected echo: %q", got)
	}
	if !draft.Number.Valid() {
		t.Fatal("partial card number must not be flagged mid-entry")
	}

	draft.Number.Edit("12345678901234567890")
	if draft.Number.Valid() {
		t.Fatal("overlong card number must be flagged")
	}

	if got := draft.Expiry.Edit("129"); got != "12/9" {
		t.Fatalf("unexpected expiry echo: %q", got)
	}
	if !draft.Expiry.Valid() {
		t.Fatal("partial expiry must not be flagged mid-entry")
	}
}

func TestDraftCommitShortCircuitsInFormOrder(t *testing.T) {
	t.Parallel()

	draft := NewDraft()
	draft.Number.Edit("4242")
	draft.Expiry.Edit("0120")
	draft.CVC.Edit("1")

	fail := draft.Commit(false, checkoutNow)
	if fail == nil || fail.Field != FieldCardNumber {
		t.Fatalf("expected card number failure first, got %+v", fail)
	}

	draft.Number.Edit("4242 4242 4242 4242")
	fail = draft.Commit(false, checkoutNow)
	if fail == nil || fail.Field != FieldExpiry {
		t.Fatalf("expected expiry failure second, got %+v", fail)
	}

	draft.Expiry.Edit("12/29")
	fail = draft.Commit(false, checkoutNow)
	if fail == nil || fail.Field != FieldCVC {
		t.Fatalf("expected cvc failure last, got %+v", fail)
	}

	draft.CVC.Edit("123")
	if fail = draft.Commit(false, checkoutNow); fail != nil {
		t.Fatalf("expected clean commit, got %+v", fail)
	}
}

func TestDraftCommitHonoursLuhnFlag(t *testing.T) {
	t.Parallel()

	draft := NewDraft()
	draft.Number.Edit("4242 4242 4242 4241")
	draft.Expiry.Edit("12/29")
	draft.CVC.Edit("123")

	if fail := draft.Commit(false, checkoutNow); fail != nil {
		t.Fatalf("flag off must accept bad checksum, got %+v", fail)
	}
	if fail := draft.Commit(true, checkoutNow); fail == nil || fail.Field != FieldCardNumber {
		t.Fatalf("flag on must reject bad checksum, got %+v", fail)
	}
}
