package domain

import "github.com/shopspring/decimal"

// Terms holds the financial figures derived from a loan's inputs. The
// fields are mutually dependent and are always computed together.
type Terms struct {
	Interest          decimal.Decimal
	TotalInterest     decimal.Decimal
	DisbursedAmount   decimal.Decimal
	TotalPayable      decimal.Decimal
	RealProfit        decimal.Decimal
	InstallmentAmount decimal.Decimal
}

// ComputeTerms derives a loan's figures from its principal, interest rate
// (percent), duration (installment count), advance interest and collection
// type:
//
//	interest          = principal * rate / 100
//	totalInterest     = interest + advance
//	disbursedAmount   = principal - advance
//	totalPayable      = principal + interest
//	realProfit        = totalPayable - disbursedAmount
//	installmentAmount = interest for interest-only types,
//	                    totalPayable / duration otherwise
//
// Returns ErrInvalidLoanTerms when principal, rate or duration is not
// positive; duration divides totalPayable, so zero is never allowed
// through.
func ComputeTerms(principal, rate decimal.Decimal, duration int, advance decimal.Decimal, collectionType CollectionType) (Terms, error) {
	if principal.LessThanOrEqual(decimal.Zero) || rate.LessThanOrEqual(decimal.Zero) || duration <= 0 {
		return Terms{}, ErrInvalidLoanTerms
	}

	interest := principal.Mul(rate).Div(hundred)
	totalPayable := principal.Add(interest)

	installment := interest
	if !collectionType.InterestOnly() {
		installment = totalPayable.Div(decimal.NewFromInt(int64(duration)))
	}

	disbursed := principal.Sub(advance)

	return Terms{
		Interest:          Round2(interest),
		TotalInterest:     Round2(interest.Add(advance)),
		DisbursedAmount:   Round2(disbursed),
		TotalPayable:      Round2(totalPayable),
		RealProfit:        Round2(totalPayable.Sub(disbursed)),
		InstallmentAmount: Round2(installment),
	}, nil
}
