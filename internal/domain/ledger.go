package domain

import "github.com/shopspring/decimal"

// LedgerSummary is the borrower-facing balance view derived from a loan
// and its payment history.
type LedgerSummary struct {
	LoanAmount        decimal.Decimal
	TotalPayable      decimal.Decimal
	TotalPaid         decimal.Decimal
	RemainingBalance  decimal.Decimal
	CollectionType    CollectionType
	InstallmentAmount decimal.Decimal
}

// Summarize derives a ledger summary from the current loan state plus its
// collections. For interest-only loans the payable amount is remaining
// principal plus one period of interest on it; for amortizing loans it is
// the stored total payable (principal + total interest as fallback) less
// what has been paid.
func Summarize(loan *Loan, collections []*Collection) *LedgerSummary {
	totalPaid := decimal.Zero
	for _, c := range collections {
		totalPaid = totalPaid.Add(c.Amount)
	}
	totalPaid = Round2(totalPaid)

	remainingPrincipal := Round2(loan.RemainingPrincipal())
	periodicInterest := Round2(remainingPrincipal.Mul(loan.InterestRate).Div(hundred))

	var totalPayable, remainingBalance, installment decimal.Decimal

	if loan.CollectionType.InterestOnly() {
		totalPayable = Round2(remainingPrincipal.Add(periodicInterest))

		remainingBalance = totalPayable
		if loan.Closed() {
			remainingBalance = decimal.Zero
		}

		installment = periodicInterest
	} else {
		totalPayable = loan.TotalPayable
		if totalPayable.IsZero() {
			totalPayable = loan.Amount.Add(loan.TotalInterest)
		}
		totalPayable = Round2(totalPayable)

		remainingBalance = Round2(decimal.Max(totalPayable.Sub(totalPaid), decimal.Zero))
		installment = Round2(loan.InstallmentAmount)
	}

	return &LedgerSummary{
		LoanAmount:        loan.DisbursedAmount,
		TotalPayable:      totalPayable,
		TotalPaid:         totalPaid,
		RemainingBalance:  remainingBalance,
		CollectionType:    loan.CollectionType,
		InstallmentAmount: installment,
	}
}
