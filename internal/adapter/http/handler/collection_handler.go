package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/praveenks/lendbook/internal/adapter/http/dto"
	"github.com/praveenks/lendbook/internal/domain"
	"github.com/praveenks/lendbook/internal/usecase"
)

// CollectionService defines the behavior needed by CollectionHandler.
type CollectionService interface {
	AddCollection(ctx context.Context, input usecase.AddCollectionInput) (*domain.Collection, error)
	UpdateCollection(ctx context.Context, id string, input usecase.UpdateCollectionInput) (*domain.Collection, error)
	DeleteCollection(ctx context.Context, id string) error
	ListCollections(ctx context.Context) (*usecase.CollectionList, error)
	Report(ctx context.Context, filter usecase.ReportFilter) (*usecase.CollectionList, error)
}

// CollectionHandler handles collection-related HTTP requests.
type CollectionHandler struct {
	collectionUC CollectionService
}

// NewCollectionHandler creates a new CollectionHandler.
func NewCollectionHandler(collectionUC CollectionService) *CollectionHandler {
	return &CollectionHandler{collectionUC: collectionUC}
}

// Create records a payment against a loan.
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	collection, err := h.collectionUC.AddCollection(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record collection", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.CollectionFromDomain(collection))
}

// List lists every collection with the amount total.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.collectionUC.ListCollections(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list collections", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCollectionsFromUseCase(list))
}

// Report filters collections by loan number and/or calendar day.
func (h *CollectionHandler) Report(w http.ResponseWriter, r *http.Request) {
	filter := usecase.ReportFilter{
		LoanNo: r.URL.Query().Get("loanNo"),
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		day, err := parseReportDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date", err.Error())
			return
		}
		filter.Day = &day
	}

	list, err := h.collectionUC.Report(r.Context(), filter)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCollectionsFromUseCase(list))
}

// Update edits a payment's amount or date and replays the loan's history.
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing collection ID", "")
		return
	}

	var req dto.UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	collection, err := h.collectionUC.UpdateCollection(r.Context(), id, req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update collection", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CollectionFromDomain(collection))
}

// Delete removes a payment and replays the loan's history.
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing collection ID", "")
		return
	}

	if err := h.collectionUC.DeleteCollection(r.Context(), id); err != nil {
		writeError(w, mapDomainError(err), "failed to delete collection", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseReportDate accepts a calendar day with or without a time component.
func parseReportDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}

	return time.Parse(time.RFC3339, raw)
}
