package dto

import (
	"time"

	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// PostEntryRequest describes a business event to record in the ledger.
// Amounts are integers in minor currency units.
type PostEntryRequest struct {
	ExternalReference string              `json:"external_reference"`
	EntryDate         *time.Time          `json:"entry_date,omitempty"`
	Description       string              `json:"description,omitempty"`
	Lines             []PostEntryLineItem `json:"lines"`
}

// PostEntryLineItem is one debit or credit movement in a posting request.
type PostEntryLineItem struct {
	AccountCode string `json:"account_code"`
	Debit       int64  `json:"debit"`
	Credit      int64  `json:"credit"`
	Description string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostEntryRequest) ToUseCaseInput() usecase.PostInput {
	input := usecase.PostInput{
		ExternalReference: r.ExternalReference,
		Description:       r.Description,
	}

	if r.EntryDate != nil {
		input.EntryDate = *r.EntryDate
	}

	input.Lines = make([]usecase.PostLineInput, len(r.Lines))
	for i, line := range r.Lines {
		input.Lines[i] = usecase.PostLineInput{
			AccountCode: line.AccountCode,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		}
	}

	return input
}

// ReverseEntryRequest optionally dates the reversing entry.
type ReverseEntryRequest struct {
	EntryDate *time.Time `json:"entry_date,omitempty"`
}
