package dto

import (
	"testing"
	"time"
)

func TestPostEntryRequestToUseCaseInput(t *testing.T) {
	date := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := &PostEntryRequest{
		ExternalReference: "invoice-42-issuance",
		EntryDate:         &date,
		Description:       "invoice 42 issued",
		Lines: []PostEntryLineItem{
			{AccountCode: "1100", Debit: 15000},
			{AccountCode: "4000", Credit: 15000},
		},
	}

	input := req.ToUseCaseInput()

	if input.ExternalReference != "invoice-42-issuance" {
		t.Fatalf("unexpected reference: %s", input.ExternalReference)
	}
	if !input.EntryDate.Equal(date) {
		t.Fatalf("unexpected date: %v", input.EntryDate)
	}
	if len(input.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(input.Lines))
	}
	if input.Lines[0].AccountCode != "1100" || input.Lines[0].Debit != 15000 {
		t.Fatalf("unexpected first line: %+v", input.Lines[0])
	}
}

func TestPostEntryRequestOmittedDateStaysZero(t *testing.T) {
	req := &PostEntryRequest{ExternalReference: "ref"}

	input := req.ToUseCaseInput()

	if !input.EntryDate.IsZero() {
		t.Fatalf("expected zero date, got %v", input.EntryDate)
	}
}
