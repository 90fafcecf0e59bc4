package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Split is the principal/interest decomposition of a single payment.
// Principal + Interest always equals the original payment amount.
type Split struct {
	Principal decimal.Decimal
	Interest  decimal.Decimal
}

// SplitPayment decides how much of one payment repays principal versus
// interest, given the principal outstanding right before that payment.
//
// Rules, in priority order:
//
//  1. Close mode settles the loan: the payment must cover the whole
//     remaining principal and anything above it is kept as interest.
//     A short payment fails with ErrInsufficientClosingAmount carrying
//     the exact threshold.
//  2. Interest-only types (monthly, fire) never touch principal.
//  3. Regular loans amortize at ratio = 1 + rate/100: each payment unit
//     repays principal plus its proportional interest. A ratio <= 0
//     (rate <= -100) would blow up the division, so the whole payment
//     counts as interest instead.
//
// Principal is capped at the remaining principal, rounded after capping,
// and interest is recomputed as payment minus the rounded principal so the
// pair sums exactly to the payment.
func SplitPayment(amount, remainingPrincipal, rate decimal.Decimal, collectionType CollectionType, mode PaymentMode) (Split, error) {
	var principal decimal.Decimal

	switch {
	case mode == PaymentModeClose:
		if amount.LessThan(remainingPrincipal) {
			return Split{}, fmt.Errorf("%w: %s", ErrInsufficientClosingAmount, Round2(remainingPrincipal).StringFixed(2))
		}

		principal = remainingPrincipal

	case collectionType.InterestOnly():
		principal = decimal.Zero

	default:
		ratio := decimal.NewFromInt(1).Add(rate.Div(hundred))
		if ratio.LessThanOrEqual(decimal.Zero) {
			principal = decimal.Zero
		} else {
			principal = amount.Div(ratio)
		}
	}

	if principal.GreaterThan(remainingPrincipal) {
		principal = remainingPrincipal
	}

	principal = Round2(principal)

	return Split{
		Principal: principal,
		Interest:  amount.Sub(principal),
	}, nil
}
