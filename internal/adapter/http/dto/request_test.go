package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/domain"
)

func TestCreateLoanRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	req := &CreateLoanRequest{
		LoanNo:          "LN-1",
		PartyName:       "Ramesh Kumar",
		FatherName:      "Suresh Kumar",
		Age:             42,
		Mobile:          "9876543210",
		Amount:          decimal.RequireFromString("10000"),
		InterestRate:    decimal.RequireFromString("10"),
		Duration:        10,
		AdvanceInterest: decimal.RequireFromString("500"),
		CollectionType:  "regular",
		Date:            date,
	}

	got := req.ToUseCaseInput()

	if got.LoanNumber != "LN-1" {
		t.Fatalf("LoanNumber = %q, want LN-1", got.LoanNumber)
	}
	if got.PartyName != "Ramesh Kumar" {
		t.Fatalf("PartyName = %q", got.PartyName)
	}
	if got.CollectionType != domain.CollectionTypeRegular {
		t.Fatalf("CollectionType = %q, want regular", got.CollectionType)
	}
	if !got.Amount.Equal(decimal.RequireFromString("10000")) {
		t.Fatalf("Amount = %s, want 10000", got.Amount)
	}
	if !got.AdvanceInterest.Equal(decimal.RequireFromString("500")) {
		t.Fatalf("AdvanceInterest = %s, want 500", got.AdvanceInterest)
	}
	if !got.Date.Equal(date) {
		t.Fatalf("Date = %s, want %s", got.Date, date)
	}
}

func TestUpdateLoanRequest_ToUseCaseInput(t *testing.T) {
	rate := decimal.RequireFromString("20")
	collectionType := "monthly"

	req := &UpdateLoanRequest{
		InterestRate:   &rate,
		CollectionType: &collectionType,
	}

	got := req.ToUseCaseInput()

	if got.InterestRate == nil || !got.InterestRate.Equal(rate) {
		t.Fatalf("InterestRate = %v, want 20", got.InterestRate)
	}
	if got.CollectionType == nil || *got.CollectionType != domain.CollectionTypeMonthly {
		t.Fatalf("CollectionType = %v, want monthly", got.CollectionType)
	}
	if got.PartyName != nil {
		t.Fatal("expected absent PartyName to stay nil")
	}
	if got.Amount != nil {
		t.Fatal("expected absent Amount to stay nil")
	}
}

func TestCreateCollectionRequest_ToUseCaseInput(t *testing.T) {
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	req := &CreateCollectionRequest{
		LoanNo:         "LN-1",
		PartyName:      "Ramesh Kumar",
		Amount:         decimal.RequireFromString("1100"),
		Date:           date,
		CollectionType: "regular",
		PaymentMode:    "close",
	}

	got := req.ToUseCaseInput()

	if got.LoanNo != "LN-1" {
		t.Fatalf("LoanNo = %q", got.LoanNo)
	}
	if !got.Amount.Equal(decimal.RequireFromString("1100")) {
		t.Fatalf("Amount = %s, want 1100", got.Amount)
	}
	if got.PaymentMode != domain.PaymentModeClose {
		t.Fatalf("PaymentMode = %q, want close", got.PaymentMode)
	}
}

func TestUpdateCollectionRequest_ToUseCaseInput(t *testing.T) {
	amount := decimal.RequireFromString("2200")

	req := &UpdateCollectionRequest{Amount: &amount}
	got := req.ToUseCaseInput()

	if got.Amount == nil || !got.Amount.Equal(amount) {
		t.Fatalf("Amount = %v, want 2200", got.Amount)
	}
	if got.Date != nil {
		t.Fatal("expected absent Date to stay nil")
	}
}
