package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

type loanServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error)
	getFn    func(ctx context.Context, id string) (*domain.Loan, error)
	listFn   func(ctx context.Context, collectionType string) ([]*domain.Loan, error)
	updateFn func(ctx context.Context, id string, input usecase.UpdateLoanInput) (*domain.Loan, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *loanServiceStub) CreateLoan(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
	return s.createFn(ctx, input)
}

func (s *loanServiceStub) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	return s.getFn(ctx, id)
}

func (s *loanServiceStub) ListLoans(ctx context.Context, collectionType string) ([]*domain.Loan, error) {
	return s.listFn(ctx, collectionType)
}

func (s *loanServiceStub) UpdateLoan(ctx context.Context, id string, input usecase.UpdateLoanInput) (*domain.Loan, error) {
	return s.updateFn(ctx, id, input)
}

func (s *loanServiceStub) DeleteLoan(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

type reconcileServiceStub struct {
	reconcileFn func(ctx context.Context, loanNo string) error
}

func (s *reconcileServiceStub) Reconcile(ctx context.Context, loanNo string) error {
	return s.reconcileFn(ctx, loanNo)
}

func testLoan() *domain.Loan {
	return &domain.Loan{
		ID:                "loan-1",
		LoanNumber:        "LN-1",
		PartyName:         "Ramesh Kumar",
		Amount:            decimal.RequireFromString("10000"),
		InterestRate:      decimal.RequireFromString("10"),
		Duration:          10,
		CollectionType:    domain.CollectionTypeRegular,
		Status:            domain.LoanStatusActive,
		TotalPayable:      decimal.RequireFromString("11000"),
		InstallmentAmount: decimal.RequireFromString("1100"),
	}
}

func TestLoanHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateLoanInput
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
			captured = input
			return testLoan(), nil
		},
	}, &reconcileServiceStub{})

	body, _ := json.Marshal(dto.CreateLoanRequest{
		LoanNo:       "LN-1",
		PartyName:    "Ramesh Kumar",
		Amount:       decimal.RequireFromString("10000"),
		InterestRate: decimal.RequireFromString("10"),
		Duration:     10,
	})

	req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	if captured.LoanNumber != "LN-1" || captured.PartyName != "Ramesh Kumar" || captured.Duration != 10 {
		t.Fatalf("expected input to match request, got %+v", captured)
	}

	var resp dto.LoanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "loan-1" || resp.LoanNo != "LN-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestLoanHandler_Create_InvalidTerms(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
			return nil, domain.ErrInvalidLoanTerms
		},
	}, &reconcileServiceStub{})

	body, _ := json.Marshal(dto.CreateLoanRequest{PartyName: "x"})
	req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoanHandler_Create_InvalidJSON(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateLoanInput) (*domain.Loan, error) {
			t.Fatal("CreateLoan should not be called for invalid payload")
			return nil, nil
		},
	}, &reconcileServiceStub{})

	req := httptest.NewRequest(http.MethodPost, "/loans", bytes.NewBufferString("{invalid json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoanHandler_Get_NotFound(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Loan, error) {
			return nil, domain.ErrLoanNotFound
		},
	}, &reconcileServiceStub{})

	req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/loans/missing", nil), "id", "missing")
	rec := httptest.NewRecorder()

	handler.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestLoanHandler_List_FiltersByType(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		listFn: func(ctx context.Context, collectionType string) ([]*domain.Loan, error) {
			if collectionType != "monthly" {
				t.Fatalf("expected monthly filter, got %q", collectionType)
			}
			return []*domain.Loan{testLoan()}, nil
		},
	}, &reconcileServiceStub{})

	req := httptest.NewRequest(http.MethodGet, "/loans?collectionType=monthly", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.ListLoansResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 {
		t.Fatalf("expected 1 loan, got %d", resp.Total)
	}
}

func TestLoanHandler_Update(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{
		updateFn: func(ctx context.Context, id string, input usecase.UpdateLoanInput) (*domain.Loan, error) {
			if id != "loan-1" {
				t.Fatalf("expected id loan-1, got %s", id)
			}
			if input.InterestRate == nil || !input.InterestRate.Equal(decimal.RequireFromString("20")) {
				t.Fatalf("expected interest rate 20, got %+v", input.InterestRate)
			}
			return testLoan(), nil
		},
	}, &reconcileServiceStub{})

	req := setChiURLParam(
		httptest.NewRequest(http.MethodPut, "/loans/loan-1", bytes.NewBufferString(`{"interestRate":"20"}`)),
		"id", "loan-1",
	)
	rec := httptest.NewRecorder()

	handler.Update(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestLoanHandler_Delete(t *testing.T) {
	var deleted string
	handler := NewLoanHandler(&loanServiceStub{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = id
			return nil
		},
	}, &reconcileServiceStub{})

	req := setChiURLParam(httptest.NewRequest(http.MethodDelete, "/loans/loan-1", nil), "id", "loan-1")
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "loan-1" {
		t.Fatalf("expected loan-1 to be deleted, got %q", deleted)
	}
}

func TestLoanHandler_Reconcile(t *testing.T) {
	var reconciled string
	handler := NewLoanHandler(&loanServiceStub{}, &reconcileServiceStub{
		reconcileFn: func(ctx context.Context, loanNo string) error {
			reconciled = loanNo
			return nil
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/LN-1/reconcile", nil), "loanNo", "LN-1")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reconciled != "LN-1" {
		t.Fatalf("expected LN-1 to be reconciled, got %q", reconciled)
	}
}

func TestLoanHandler_Reconcile_Error(t *testing.T) {
	handler := NewLoanHandler(&loanServiceStub{}, &reconcileServiceStub{
		reconcileFn: func(ctx context.Context, loanNo string) error {
			return errors.New("db down")
		},
	})

	req := setChiURLParam(httptest.NewRequest(http.MethodPost, "/loans/LN-1/reconcile", nil), "loanNo", "LN-1")
	rec := httptest.NewRecorder()

	handler.Reconcile(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func setChiURLParam(r *http.Request, key, value string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, &chi.Context{
		URLParams: chi.RouteParams{
			Keys:   []string{key},
			Values: []string{value},
		},
	}))
}
