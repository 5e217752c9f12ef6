package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/dto"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/metrics"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// PostingHandler handles posting-related HTTP requests.
type PostingHandler struct {
	postingUC *usecase.PostingUseCase
	metrics   *metrics.Metrics
}

// NewPostingHandler creates a new PostingHandler.
func NewPostingHandler(postingUC *usecase.PostingUseCase, m *metrics.Metrics) *PostingHandler {
	return &PostingHandler{postingUC: postingUC, metrics: m}
}

// Create posts a new ledger entry. A repeated request with an already-used
// external reference returns the original entry with the same status code.
func (h *PostingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.PostEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	start := time.Now()

	entry, err := h.postingUC.Post(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.PostingErrors.WithLabelValues(errorKindLabel(err)).Inc()
		writeError(w, mapDomainError(err), "failed to post entry", err.Error())

		return
	}

	h.metrics.PostingsCommitted.Inc()
	h.metrics.PostingDuration.Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}

// Get retrieves the entry posted under an external reference.
func (h *PostingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing external reference", "")
		return
	}

	entry, err := h.postingUC.GetByExternalReference(r.Context(), ref)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get entry", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// Reverse posts a reversing entry for the entry committed under ref.
func (h *PostingHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	ref := chi.URLParam(r, "ref")
	if ref == "" {
		writeError(w, http.StatusBadRequest, "missing external reference", "")
		return
	}

	var req dto.ReverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var entryDate time.Time
	if req.EntryDate != nil {
		entryDate = *req.EntryDate
	}

	entry, err := h.postingUC.Reverse(r.Context(), ref, entryDate)
	if err != nil {
		h.metrics.PostingErrors.WithLabelValues(errorKindLabel(err)).Inc()
		writeError(w, mapDomainError(err), "failed to reverse entry", err.Error())

		return
	}

	h.metrics.PostingsCommitted.Inc()

	writeJSON(w, http.StatusCreated, dto.EntryFromDomain(entry))
}
