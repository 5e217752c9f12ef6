package dto

import (
	"testing"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

func TestFormatMinor(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{15000, "150.00"},
		{-2550, "-25.50"},
		{999999999, "9999999.99"},
	}

	for _, tt := range tests {
		if got := FormatMinor(tt.amount); got != tt.want {
			t.Errorf("FormatMinor(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestEntryFromDomain(t *testing.T) {
	entry := &domain.Entry{
		ID:                "entry-1",
		EntryNumber:       "JE-entry-1",
		ExternalReference: "invoice-42-issuance",
		EntryDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Lines: []domain.EntryLine{
			{ID: "line-1", AccountID: "acc-ar", Debit: 15000},
			{ID: "line-2", AccountID: "acc-rev", Credit: 15000},
		},
	}

	resp := EntryFromDomain(entry)

	if resp.ExternalReference != "invoice-42-issuance" {
		t.Fatalf("unexpected reference: %s", resp.ExternalReference)
	}
	if len(resp.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(resp.Lines))
	}
	if resp.Lines[0].DebitDisplay != "150.00" {
		t.Fatalf("expected display 150.00, got %s", resp.Lines[0].DebitDisplay)
	}
	if resp.Lines[0].Debit != 15000 {
		t.Fatalf("expected raw minor units preserved, got %d", resp.Lines[0].Debit)
	}
}

func TestEquationFromDomain(t *testing.T) {
	report := &domain.EquationReport{
		Assets:      200000,
		Liabilities: 50000,
		Equity:      150000,
		Balanced:    true,
	}

	resp := EquationFromDomain(report)

	if !resp.Balanced {
		t.Fatal("expected balanced")
	}
	if resp.AssetsDisplay != "2000.00" {
		t.Fatalf("unexpected assets display: %s", resp.AssetsDisplay)
	}
}

func TestMismatchesFromDomain(t *testing.T) {
	mismatches := MismatchesFromDomain([]domain.Mismatch{
		{EntityID: "inv-1", Kind: domain.MismatchKindInvoicePaidAmount, OperationalValue: 1000, LedgerValue: 700},
	})

	if len(mismatches) != 1 {
		t.Fatalf("expected 1 mismatch, got %d", len(mismatches))
	}
	if mismatches[0].Difference != 300 {
		t.Fatalf("expected difference 300, got %d", mismatches[0].Difference)
	}
}
