package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Collection is one repayment event against a loan. It references its loan
// by business key; the stored split (PrincipalPaid, InterestPaid) is owned
// by the reconciliation engine and always sums to Amount.
type Collection struct {
	ID             string
	LoanNo         string
	PartyName      string
	Amount         decimal.Decimal
	Date           time.Time
	CollectionType CollectionType
	PrincipalPaid  decimal.Decimal
	InterestPaid   decimal.Decimal
	CreatedAt      time.Time
}
