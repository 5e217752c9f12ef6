package domain

import "time"

// MismatchKind labels the source of a detected drift.
type MismatchKind string

const (
	// MismatchKindInvoicePaidAmount flags an invoice whose recorded paid
	// amount disagrees with the ledger postings under its payment prefix.
	MismatchKindInvoicePaidAmount MismatchKind = "invoice_paid_amount"
)

// Mismatch is a reconciliation finding: the operational aggregate and the
// ledger disagree about the same business object. Findings are data-quality
// signals, reported and never thrown; reconciliation never auto-corrects.
type Mismatch struct {
	EntityID         string
	Kind             MismatchKind
	OperationalValue int64
	LedgerValue      int64
}

// Difference returns operational minus ledger value.
func (m Mismatch) Difference() int64 {
	return m.OperationalValue - m.LedgerValue
}

// InvoiceTotal is the operational view of an invoice consumed by
// reconciliation: its identity and the paid amount the owning module has
// recorded. This core never mutates invoices.
type InvoiceTotal struct {
	InvoiceID  string
	PaidAmount int64
}

// EquationReport carries the result of the accounting-equation check with
// per-type subtotals for diagnostics. Revenue and expense accounts are
// excluded under the assumption they have not been closed into equity; for
// a ledger with unclosed periods Balanced=false is a documented possibility,
// not necessarily corruption.
type EquationReport struct {
	AsOf        time.Time
	Assets      int64
	Liabilities int64
	Equity      int64
	Balanced    bool
}

// ReconciliationReport bundles a full reconciliation run.
type ReconciliationReport struct {
	Mismatches []Mismatch
	Equation   *EquationReport
	CheckedAt  time.Time
}
