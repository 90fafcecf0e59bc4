package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

// CreateLoanRequest represents a request to create a loan.
type CreateLoanRequest struct {
	LoanNo        string     `json:"loanNo"`
	PartyName     string     `json:"partyName"`
	FatherName    string     `json:"fatherName"`
	Age           int        `json:"age"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Occupation    string     `json:"occupation"`
	Address       string     `json:"address"`
	Mobile        string     `json:"mobile"`
	Aadhar        string     `json:"aadhar"`
	WitnessMobile string     `json:"witnessMobile"`
	PhotoURL      string     `json:"photoUrl"`
	ProofURL      string     `json:"proofUrl"`
	ProofMimeType string     `json:"proofMimeType"`

	Amount          decimal.Decimal `json:"amount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	Duration        int             `json:"duration"`
	AdvanceInterest decimal.Decimal `json:"advanceInterest"`
	CollectionType  string          `json:"collectionType"`
	Date            time.Time       `json:"date"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateLoanRequest) ToUseCaseInput() usecase.CreateLoanInput {
	return usecase.CreateLoanInput{
		LoanNumber:      r.LoanNo,
		PartyName:       r.PartyName,
		FatherName:      r.FatherName,
		Age:             r.Age,
		DateOfBirth:     r.DateOfBirth,
		Occupation:      r.Occupation,
		Address:         r.Address,
		Mobile:          r.Mobile,
		Aadhar:          r.Aadhar,
		WitnessMobile:   r.WitnessMobile,
		PhotoURL:        r.PhotoURL,
		ProofURL:        r.ProofURL,
		ProofMimeType:   r.ProofMimeType,
		Amount:          r.Amount,
		InterestRate:    r.InterestRate,
		Duration:        r.Duration,
		AdvanceInterest: r.AdvanceInterest,
		CollectionType:  domain.CollectionType(r.CollectionType),
		Date:            r.Date,
	}
}

// UpdateLoanRequest represents a partial loan edit. Absent fields keep
// their stored values.
type UpdateLoanRequest struct {
	PartyName     *string    `json:"partyName,omitempty"`
	FatherName    *string    `json:"fatherName,omitempty"`
	Age           *int       `json:"age,omitempty"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Occupation    *string    `json:"occupation,omitempty"`
	Address       *string    `json:"address,omitempty"`
	Mobile        *string    `json:"mobile,omitempty"`
	Aadhar        *string    `json:"aadhar,omitempty"`
	WitnessMobile *string    `json:"witnessMobile,omitempty"`
	PhotoURL      *string    `json:"photoUrl,omitempty"`
	ProofURL      *string    `json:"proofUrl,omitempty"`
	ProofMimeType *string    `json:"proofMimeType,omitempty"`

	Amount          *decimal.Decimal `json:"amount,omitempty"`
	InterestRate    *decimal.Decimal `json:"interestRate,omitempty"`
	Duration        *int             `json:"duration,omitempty"`
	AdvanceInterest *decimal.Decimal `json:"advanceInterest,omitempty"`
	CollectionType  *string          `json:"collectionType,omitempty"`
	Date            *time.Time       `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateLoanRequest) ToUseCaseInput() usecase.UpdateLoanInput {
	input := usecase.UpdateLoanInput{
		PartyName:       r.PartyName,
		FatherName:      r.FatherName,
		Age:             r.Age,
		DateOfBirth:     r.DateOfBirth,
		Occupation:      r.Occupation,
		Address:         r.Address,
		Mobile:          r.Mobile,
		Aadhar:          r.Aadhar,
		WitnessMobile:   r.WitnessMobile,
		PhotoURL:        r.PhotoURL,
		ProofURL:        r.ProofURL,
		ProofMimeType:   r.ProofMimeType,
		Amount:          r.Amount,
		InterestRate:    r.InterestRate,
		Duration:        r.Duration,
		AdvanceInterest: r.AdvanceInterest,
		Date:            r.Date,
	}
	if r.CollectionType != nil {
		ct := domain.CollectionType(*r.CollectionType)
		input.CollectionType = &ct
	}
	return input
}

// CreateCollectionRequest represents a request to record a payment.
type CreateCollectionRequest struct {
	LoanNo         string          `json:"loanNo"`
	PartyName      string          `json:"partyName"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	CollectionType string          `json:"collectionType"`
	PaymentMode    string          `json:"paymentMode"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCollectionRequest) ToUseCaseInput() usecase.AddCollectionInput {
	return usecase.AddCollectionInput{
		LoanNo:         r.LoanNo,
		PartyName:      r.PartyName,
		Amount:         r.Amount,
		Date:           r.Date,
		CollectionType: domain.CollectionType(r.CollectionType),
		PaymentMode:    domain.PaymentMode(r.PaymentMode),
	}
}

// UpdateCollectionRequest represents a payment edit. Only the amount and
// the date are editable; splits are owned by reconciliation.
type UpdateCollectionRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Date   *time.Time       `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateCollectionRequest) ToUseCaseInput() usecase.UpdateCollectionInput {
	return usecase.UpdateCollectionInput{
		Amount: r.Amount,
		Date:   r.Date,
	}
}
