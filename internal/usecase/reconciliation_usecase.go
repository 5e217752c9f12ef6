package usecase

import (
	"context"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// ReconciliationUseCase detects drift between operational aggregates and the
// ledger, and verifies the global accounting identity. It only reads; it
// tolerates slightly stale snapshots and reports findings instead of failing
// hard on transient races with in-flight postings.
type ReconciliationUseCase struct {
	accountRepo   AccountRepository
	entryRepo     EntryRepository
	invoiceRepo   InvoiceTotalsRepository
	arAccountCode string
}

// NewReconciliationUseCase creates a new ReconciliationUseCase. An empty
// arAccountCode falls back to the standard accounts-receivable code.
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	invoiceRepo InvoiceTotalsRepository,
	arAccountCode string,
) *ReconciliationUseCase {
	if arAccountCode == "" {
		arAccountCode = CodeAccountsReceivable
	}

	return &ReconciliationUseCase{
		accountRepo:   accountRepo,
		entryRepo:     entryRepo,
		invoiceRepo:   invoiceRepo,
		arAccountCode: arAccountCode,
	}
}

// VerifyInvoiceTotals compares each invoice's recorded paid amount against
// the ledger postings under its payment-reference prefix on the AR account.
// Payments credit AR, so the ledger-derived paid total is credits minus
// debits. A freshly issued invoice with no postings yet shows up as a
// mismatch; callers decide whether that is transient or a bug.
func (uc *ReconciliationUseCase) VerifyInvoiceTotals(ctx context.Context, asOf time.Time) ([]domain.Mismatch, error) {
	arAccount, err := uc.accountRepo.GetByCode(ctx, uc.arAccountCode)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			return nil, domain.NewConfiguration("accounts-receivable account is not provisioned", err)
		}

		return nil, err
	}

	invoices, err := uc.invoiceRepo.ListPaidTotals(ctx)
	if err != nil {
		return nil, err
	}

	mismatches := make([]domain.Mismatch, 0)
	for _, inv := range invoices {
		sum, err := uc.entryRepo.SumLinesForAccount(ctx, arAccount.ID, SumFilter{
			ReferencePrefix: domain.InvoicePaymentPrefix(inv.InvoiceID),
			UpTo:            &asOf,
		})
		if err != nil {
			return nil, err
		}

		ledgerPaid := sum.Credits - sum.Debits
		if ledgerPaid != inv.PaidAmount {
			mismatches = append(mismatches, domain.Mismatch{
				EntityID:         inv.InvoiceID,
				Kind:             domain.MismatchKindInvoicePaidAmount,
				OperationalValue: inv.PaidAmount,
				LedgerValue:      ledgerPaid,
			})
		}
	}

	return mismatches, nil
}

// VerifyAccountingEquation sums balances across all asset accounts against
// liability plus equity accounts as of the cutoff. Revenue and expense
// accounts are excluded: they have not been closed into equity, so including
// them would fail the identity for any ledger with open periods.
func (uc *ReconciliationUseCase) VerifyAccountingEquation(ctx context.Context, asOf time.Time) (*domain.EquationReport, error) {
	accounts, err := uc.accountRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	report := &domain.EquationReport{AsOf: asOf}

	for _, account := range accounts {
		switch account.Type {
		case domain.AccountTypeRevenue, domain.AccountTypeExpense:
			continue
		}

		sum, err := uc.entryRepo.SumLinesForAccount(ctx, account.ID, SumFilter{UpTo: &asOf})
		if err != nil {
			return nil, err
		}

		balance := sum.Signed(account.Type.NormalBalance())

		switch account.Type {
		case domain.AccountTypeAsset:
			report.Assets += balance
		case domain.AccountTypeLiability:
			report.Liabilities += balance
		case domain.AccountTypeEquity:
			report.Equity += balance
		}
	}

	report.Balanced = report.Assets == report.Liabilities+report.Equity

	return report, nil
}

// Report runs a full reconciliation pass: invoice drift plus the accounting
// equation.
func (uc *ReconciliationUseCase) Report(ctx context.Context, asOf time.Time) (*domain.ReconciliationReport, error) {
	mismatches, err := uc.VerifyInvoiceTotals(ctx, asOf)
	if err != nil {
		return nil, err
	}

	equation, err := uc.VerifyAccountingEquation(ctx, asOf)
	if err != nil {
		return nil, err
	}

	return &domain.ReconciliationReport{
		Mismatches: mismatches,
		Equation:   equation,
		CheckedAt:  time.Now().UTC(),
	}, nil
}
