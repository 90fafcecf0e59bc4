package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionType classifies how payments against a loan are split.
type CollectionType string

const (
	// CollectionTypeRegular amortizes principal and interest together.
	CollectionTypeRegular CollectionType = "regular"
	// CollectionTypeMonthly collects interest only, month by month.
	CollectionTypeMonthly CollectionType = "monthly"
	// CollectionTypeFire collects interest only on an ad-hoc schedule.
	CollectionTypeFire CollectionType = "fire"
)

// InterestOnly reports whether every payment of this type is classified
// entirely as interest. Principal on such loans is repaid only through a
// close-mode payment.
func (t CollectionType) InterestOnly() bool {
	return t == CollectionTypeMonthly || t == CollectionTypeFire
}

// Valid reports whether t is a known collection type.
func (t CollectionType) Valid() bool {
	switch t {
	case CollectionTypeRegular, CollectionTypeMonthly, CollectionTypeFire:
		return true
	}

	return false
}

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "active"
	LoanStatusClosed LoanStatus = "closed"
)

// PaymentMode distinguishes an ordinary installment from a payment that
// settles the loan.
type PaymentMode string

const (
	PaymentModeNormal PaymentMode = "normal"
	PaymentModeClose  PaymentMode = "close"
)

// Loan is one lending agreement. Terms are set at creation and recomputed
// on edit; the aggregate fields (PrincipalPaid, InterestCollected, Status)
// are written only by the payment-application and reconciliation paths.
type Loan struct {
	ID            string
	LoanNumber    string
	PartyName     string
	FatherName    string
	Age           int
	DateOfBirth   *time.Time
	Occupation    string
	Address       string
	Mobile        string
	Aadhar        string
	WitnessMobile string
	PhotoURL      string
	ProofURL      string
	ProofMimeType string

	// Terms.
	Amount          decimal.Decimal
	InterestRate    decimal.Decimal
	Duration        int
	AdvanceInterest decimal.Decimal
	CollectionType  CollectionType
	Date            time.Time

	// Derived terms, recomputed together whenever any input changes.
	DisbursedAmount   decimal.Decimal
	TotalInterest     decimal.Decimal
	TotalPayable      decimal.Decimal
	RealProfit        decimal.Decimal
	InstallmentAmount decimal.Decimal

	// Aggregate state.
	PrincipalPaid     decimal.Decimal
	InterestCollected decimal.Decimal
	Status            LoanStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingPrincipal returns the principal still owed, never negative.
func (l *Loan) RemainingPrincipal() decimal.Decimal {
	return decimal.Max(l.Amount.Sub(l.PrincipalPaid), decimal.Zero)
}

// Closed reports whether the loan has been settled.
func (l *Loan) Closed() bool {
	return l.Status == LoanStatusClosed
}

// RecordPayment folds one split into the loan aggregate and refreshes the
// status. Used by the fast path for chronologically-latest payments.
func (l *Loan) RecordPayment(s Split) {
	l.PrincipalPaid = Round2(l.PrincipalPaid.Add(s.Principal))
	l.InterestCollected = Round2(l.InterestCollected.Add(s.Interest))
	l.RefreshStatus()
}

// RefreshStatus recomputes the status from the aggregate: closed iff
// principalPaid >= principal > 0.
func (l *Loan) RefreshStatus() {
	if l.Amount.IsPositive() && l.PrincipalPaid.GreaterThanOrEqual(l.Amount) {
		l.Status = LoanStatusClosed
		return
	}

	l.Status = LoanStatusActive
}
