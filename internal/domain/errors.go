package domain

import "errors"

var (
	// Lookup errors
	ErrLoanNotFound       = errors.New("loan not found")
	ErrCollectionNotFound = errors.New("collection not found")

	// Payment errors
	ErrInvalidAmount             = errors.New("amount must be a valid number greater than zero")
	ErrLoanAlreadyClosed         = errors.New("loan already closed")
	ErrInsufficientClosingAmount = errors.New("closing amount must be at least remaining principal")

	// Loan term errors
	ErrInvalidLoanTerms = errors.New("principal, interest rate and duration must be positive")

	// Report errors
	ErrEmptyReportFilter = errors.New("date or loan number is required")
)
