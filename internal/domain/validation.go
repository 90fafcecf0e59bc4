package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrAmountTooLarge = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	// MaxPaymentAmount bounds a single collection. Anything beyond this is
	// a data-entry mistake, not a micro-lending payment.
	MaxPaymentAmount = "1000000000" // 1 billion
)

// ValidatePaymentAmount checks that a payment amount is positive and
// within bounds. Decimals are always finite, so this is the whole check.
func ValidatePaymentAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxPaymentAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxPaymentAmount)
	}

	return nil
}

// NormalizePartyName canonicalizes a borrower name for matching: trimmed
// and lower-cased. Ledger lookups by party are case-insensitive exact
// matches on this form.
func NormalizePartyName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
