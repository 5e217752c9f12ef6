package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/dto"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/metrics"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// AccountHandler handles account-directory HTTP requests.
type AccountHandler struct {
	accountUC *usecase.AccountUseCase
	balanceUC *usecase.BalanceUseCase
	metrics   *metrics.Metrics
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC *usecase.AccountUseCase, balanceUC *usecase.BalanceUseCase, m *metrics.Metrics) *AccountHandler {
	return &AccountHandler{accountUC: accountUC, balanceUC: balanceUC, metrics: m}
}

// List returns the chart of accounts.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.List(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list accounts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountsFromDomain(accounts))
}

// Get retrieves an account by its business code.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	account, err := h.accountUC.GetByCode(r.Context(), code)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Entries lists the entries touching an account, newest first. Pagination via
// limit (default 50, capped at 200) and offset query parameters.
func (h *AccountHandler) Entries(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	limit, err := parseIntQuery(r, "limit", 50)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid limit", err.Error())
		return
	}
	if limit > 200 {
		limit = 200
	}

	offset, err := parseIntQuery(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offset", err.Error())
		return
	}

	entries, err := h.balanceUC.EntriesByCode(r.Context(), code, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list entries", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}

// Balance returns the account's balance as of the as_of query parameter
// (RFC3339, default now), expressed per the account's normal balance.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing account code", "")
		return
	}

	asOf, err := parseTimeQuery(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid as_of timestamp", err.Error())
		return
	}

	balance, err := h.balanceUC.BalanceByCodeAsOf(r.Context(), code, asOf)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	h.metrics.BalanceQueries.Inc()

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		AccountCode:    code,
		AsOf:           asOf,
		Balance:        balance,
		BalanceDisplay: dto.FormatMinor(balance),
	})
}
