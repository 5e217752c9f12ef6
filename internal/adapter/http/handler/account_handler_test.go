package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/mock/gomock"

	"github.com/fleetbooks/fleetbooks/internal/adapter/http/dto"
	"github.com/fleetbooks/fleetbooks/internal/domain"
	"github.com/fleetbooks/fleetbooks/internal/infrastructure/metrics"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
	"github.com/fleetbooks/fleetbooks/internal/usecase/mocks"
)

// Prometheus collectors register globally, so the handler tests share one set.
var testMetrics = metrics.New()

func newAccountRouter(t *testing.T) (*chi.Mux, *mocks.MockAccountRepository, *mocks.MockEntryRepository) {
	t.Helper()

	ctrl := gomock.NewController(t)
	accountRepo := mocks.NewMockAccountRepository(ctrl)
	entryRepo := mocks.NewMockEntryRepository(ctrl)

	h := NewAccountHandler(
		usecase.NewAccountUseCase(accountRepo),
		usecase.NewBalanceUseCase(accountRepo, entryRepo),
		testMetrics,
	)

	r := chi.NewRouter()
	r.Get("/accounts", h.List)
	r.Get("/accounts/{code}", h.Get)
	r.Get("/accounts/{code}/balance", h.Balance)
	r.Get("/accounts/{code}/entries", h.Entries)

	return r, accountRepo, entryRepo
}

func TestAccountHandlerGet(t *testing.T) {
	router, accountRepo, _ := newAccountRouter(t)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "1100").Return(&domain.Account{
		ID:   "acc-ar",
		Code: "1100",
		Name: "Accounts Receivable",
		Type: domain.AccountTypeAsset,
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/1100", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Code != "1100" || resp.Type != "ASSET" {
		t.Fatalf("unexpected account: %+v", resp)
	}
}

func TestAccountHandlerGetNotFound(t *testing.T) {
	router, accountRepo, _ := newAccountRouter(t)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "9999").Return(nil, domain.ErrAccountNotFound)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts/9999", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAccountHandlerBalance(t *testing.T) {
	router, accountRepo, entryRepo := newAccountRouter(t)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "1000").Return(&domain.Account{
		ID:   "acc-cash",
		Code: "1000",
		Type: domain.AccountTypeAsset,
	}, nil)
	entryRepo.EXPECT().SumLinesForAccount(gomock.Any(), "acc-cash", gomock.Any()).
		Return(domain.LineSum{Debits: 15000}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/accounts/1000/balance?as_of=2026-03-01T00:00:00Z", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.BalanceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Balance != 15000 || resp.BalanceDisplay != "150.00" {
		t.Fatalf("unexpected balance: %+v", resp)
	}
}

func TestAccountHandlerBalanceRejectsBadTimestamp(t *testing.T) {
	router, _, _ := newAccountRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/accounts/1000/balance?as_of=yesterday", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandlerEntries(t *testing.T) {
	router, accountRepo, entryRepo := newAccountRouter(t)

	accountRepo.EXPECT().GetByCode(gomock.Any(), "1100").Return(&domain.Account{
		ID:   "acc-ar",
		Code: "1100",
		Type: domain.AccountTypeAsset,
	}, nil)
	entryRepo.EXPECT().ListByAccount(gomock.Any(), "acc-ar", 10, 5).Return([]*domain.Entry{
		{ID: "entry-1", ExternalReference: "invoice-42-issuance"},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/accounts/1100/entries?limit=10&offset=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp []dto.EntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].ExternalReference != "invoice-42-issuance" {
		t.Fatalf("unexpected entries: %+v", resp)
	}
}

func TestAccountHandlerEntriesRejectsBadLimit(t *testing.T) {
	router, _, _ := newAccountRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(
		http.MethodGet, "/accounts/1100/entries?limit=-1", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAccountHandlerList(t *testing.T) {
	router, accountRepo, _ := newAccountRouter(t)

	accountRepo.EXPECT().List(gomock.Any()).Return([]*domain.Account{
		{ID: "acc-cash", Code: "1000", Type: domain.AccountTypeAsset},
		{ID: "acc-ar", Code: "1100", Type: domain.AccountTypeAsset},
	}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/accounts", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []dto.AccountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(resp))
	}
}
