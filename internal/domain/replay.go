package domain

import "github.com/shopspring/decimal"

// PaymentRecord is one historical payment as fed to replay, already in
// ledger order: ascending by (date, creation time). The collection type is
// the one recorded on the payment itself, not the loan's current type.
type PaymentRecord struct {
	Amount         decimal.Decimal
	CollectionType CollectionType
}

// ReplayResult is a fresh recomputation of a loan's derived state: one
// split per input payment, in the same order, plus the aggregate.
type ReplayResult struct {
	Splits            []Split
	PrincipalPaid     decimal.Decimal
	InterestCollected decimal.Decimal
	Status            LoanStatus
}

// ReplayHistory is the reconciliation core. It replays the full payment
// history of a loan against its terms and recomputes every split and the
// loan aggregate from scratch. Each payment is split against the principal
// still outstanding at its position; remaining principal is floored at
// zero and rounded after every step so replaying the same history twice
// yields identical results.
//
// The input is not mutated and no I/O happens here; callers persist the
// result as an atomic batch.
func ReplayHistory(principal, rate decimal.Decimal, payments []PaymentRecord) ReplayResult {
	remaining := principal
	totalInterest := decimal.Zero
	splits := make([]Split, 0, len(payments))

	for _, p := range payments {
		// Normal mode: a close payment in the history replays like any
		// other, its split is determined by type and remaining principal.
		split, _ := SplitPayment(p.Amount, remaining, rate, p.CollectionType, PaymentModeNormal)

		remaining = Round2(decimal.Max(remaining.Sub(split.Principal), decimal.Zero))
		totalInterest = totalInterest.Add(split.Interest)
		splits = append(splits, split)
	}

	paid := Round2(decimal.Max(principal.Sub(remaining), decimal.Zero))

	status := LoanStatusActive
	if principal.IsPositive() && paid.GreaterThanOrEqual(principal) {
		status = LoanStatusClosed
	}

	return ReplayResult{
		Splits:            splits,
		PrincipalPaid:     paid,
		InterestCollected: Round2(totalInterest),
		Status:            status,
	}
}
