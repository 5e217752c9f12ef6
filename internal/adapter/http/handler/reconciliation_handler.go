package handler

import (
	"net/http"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/dto"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/metrics"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// ReconciliationHandler exposes reconciliation runs over HTTP. Findings are
// reported in the response body; drift is data, not an HTTP error.
type ReconciliationHandler struct {
	reconUC *usecase.ReconciliationUseCase
	metrics *metrics.Metrics
}

// NewReconciliationHandler creates a new ReconciliationHandler.
func NewReconciliationHandler(reconUC *usecase.ReconciliationUseCase, m *metrics.Metrics) *ReconciliationHandler {
	return &ReconciliationHandler{reconUC: reconUC, metrics: m}
}

// Invoices compares operational invoice paid amounts against the ledger.
func (h *ReconciliationHandler) Invoices(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of timestamp", err.Error())
		return
	}

	mismatches, err := h.reconUC.VerifyInvoiceTotals(r.Context(), asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	h.metrics.ReconciliationRuns.Inc()
	h.metrics.ReconciliationMismatches.Set(float64(len(mismatches)))

	writeJSON(w, http.StatusOK, dto.MismatchesFromDomain(mismatches))
}

// Equation verifies the accounting identity as of the cutoff.
func (h *ReconciliationHandler) Equation(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of timestamp", err.Error())
		return
	}

	report, err := h.reconUC.VerifyAccountingEquation(r.Context(), asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "equation check failed", err.Error())
		return
	}

	result := "balanced"
	if !report.Balanced {
		result = "unbalanced"
	}
	h.metrics.EquationChecks.WithLabelValues(result).Inc()

	writeJSON(w, http.StatusOK, dto.EquationFromDomain(report))
}

// Report runs a full reconciliation pass.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of timestamp", err.Error())
		return
	}

	report, err := h.reconUC.Report(r.Context(), asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "reconciliation failed", err.Error())
		return
	}

	h.metrics.ReconciliationRuns.Inc()
	h.metrics.ReconciliationMismatches.Set(float64(len(report.Mismatches)))

	writeJSON(w, http.StatusOK, dto.ReportFromDomain(report))
}
