package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// The ledger core works exclusively in integer minor units. Decimal
// rendering happens here, at the presentation boundary, and nowhere else.

// minorUnitExponent assumes a two-decimal currency for display purposes.
const minorUnitExponent = -2

// FormatMinor renders minor units as a fixed two-decimal string.
func FormatMinor(amount int64) string {
	return decimal.New(amount, minorUnitExponent).StringFixed(2)
}

// ErrorResponse is the error payload shape.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// EntryLineResponse represents an entry line in API responses.
type EntryLineResponse struct {
	ID            string `json:"id"`
	AccountID     string `json:"account_id"`
	Debit         int64  `json:"debit"`
	Credit        int64  `json:"credit"`
	DebitDisplay  string `json:"debit_display"`
	CreditDisplay string `json:"credit_display"`
	Description   string `json:"description,omitempty"`
}

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID                string              `json:"id"`
	EntryNumber       string              `json:"entry_number"`
	ExternalReference string              `json:"external_reference"`
	EntryDate         time.Time           `json:"entry_date"`
	Description       string              `json:"description,omitempty"`
	Lines             []EntryLineResponse `json:"lines"`
	CreatedAt         time.Time           `json:"created_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	resp := &EntryResponse{
		ID:                e.ID,
		EntryNumber:       e.EntryNumber,
		ExternalReference: e.ExternalReference,
		EntryDate:         e.EntryDate,
		Description:       e.Description,
		CreatedAt:         e.CreatedAt,
	}

	resp.Lines = make([]EntryLineResponse, len(e.Lines))
	for i, line := range e.Lines {
		resp.Lines[i] = EntryLineResponse{
			ID:            line.ID,
			AccountID:     line.AccountID,
			Debit:         line.Debit,
			Credit:        line.Credit,
			DebitDisplay:  FormatMinor(line.Debit),
			CreditDisplay: FormatMinor(line.Credit),
			Description:   line.Description,
		}
	}

	return resp
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// BalanceResponse reports an account balance as of a point in time.
type BalanceResponse struct {
	AccountCode    string    `json:"account_code"`
	AsOf           time.Time `json:"as_of"`
	Balance        int64     `json:"balance"`
	BalanceDisplay string    `json:"balance_display"`
}

// MismatchResponse represents a reconciliation finding.
type MismatchResponse struct {
	EntityID         string `json:"entity_id"`
	Kind             string `json:"kind"`
	OperationalValue int64  `json:"operational_value"`
	LedgerValue      int64  `json:"ledger_value"`
	Difference       int64  `json:"difference"`
}

// MismatchesFromDomain converts reconciliation findings to responses.
func MismatchesFromDomain(mismatches []domain.Mismatch) []MismatchResponse {
	result := make([]MismatchResponse, len(mismatches))
	for i, m := range mismatches {
		result[i] = MismatchResponse{
			EntityID:         m.EntityID,
			Kind:             string(m.Kind),
			OperationalValue: m.OperationalValue,
			LedgerValue:      m.LedgerValue,
			Difference:       m.Difference(),
		}
	}
	return result
}

// EquationResponse reports the accounting-equation check.
type EquationResponse struct {
	AsOf               time.Time `json:"as_of"`
	Assets             int64     `json:"assets"`
	Liabilities        int64     `json:"liabilities"`
	Equity             int64     `json:"equity"`
	AssetsDisplay      string    `json:"assets_display"`
	LiabilitiesDisplay string    `json:"liabilities_display"`
	EquityDisplay      string    `json:"equity_display"`
	Balanced           bool      `json:"balanced"`
}

// EquationFromDomain converts an equation report to a response.
func EquationFromDomain(r *domain.EquationReport) *EquationResponse {
	return &EquationResponse{
		AsOf:               r.AsOf,
		Assets:             r.Assets,
		Liabilities:        r.Liabilities,
		Equity:             r.Equity,
		AssetsDisplay:      FormatMinor(r.Assets),
		LiabilitiesDisplay: FormatMinor(r.Liabilities),
		EquityDisplay:      FormatMinor(r.Equity),
		Balanced:           r.Balanced,
	}
}

// ReconciliationReportResponse bundles a full reconciliation run.
type ReconciliationReportResponse struct {
	Mismatches []MismatchResponse `json:"mismatches"`
	Equation   *EquationResponse  `json:"equation"`
	CheckedAt  time.Time          `json:"checked_at"`
}

// ReportFromDomain converts a reconciliation report to a response.
func ReportFromDomain(r *domain.ReconciliationReport) *ReconciliationReportResponse {
	return &ReconciliationReportResponse{
		Mismatches: MismatchesFromDomain(r.Mismatches),
		Equation:   EquationFromDomain(r.Equation),
		CheckedAt:  r.CheckedAt,
	}
}
