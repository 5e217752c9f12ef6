package domain

import "time"

// Entry is one balanced, immutable accounting transaction. All amounts are
// integers in minor currency units. Once committed an entry and its lines are
// never updated or deleted; corrections happen via new, reversing entries.
type Entry struct {
	ID                string
	EntryNumber       string
	ExternalReference string
	EntryDate         time.Time
	Description       string
	Lines             []EntryLine
	CreatedAt         time.Time
}

// EntryLine is a single debit or credit movement against one account.
// Exactly one of Debit/Credit is nonzero.
type EntryLine struct {
	ID          string
	EntryID     string
	AccountID   string
	Debit       int64
	Credit      int64
	Description string
}

// Validate checks the structural invariants of an entry before it may be
// committed: an external reference is present, at least two lines exist,
// every line carries exactly one non-negative side, and total debits equal
// total credits.
func (e *Entry) Validate() error {
	if e.ExternalReference == "" {
		return NewValidation("entry requires an external reference")
	}

	if len(e.Lines) < 2 {
		return NewValidation("entry requires at least two lines")
	}

	var debits, credits int64
	for i := range e.Lines {
		line := &e.Lines[i]

		if line.AccountID == "" {
			return NewValidation("entry line requires an account")
		}

		if line.Debit < 0 || line.Credit < 0 {
			return NewValidation("entry line amounts must be non-negative")
		}

		if (line.Debit == 0) == (line.Credit == 0) {
			return NewValidation("entry line must be either a debit or a credit")
		}

		debits += line.Debit
		credits += line.Credit
	}

	if debits != credits {
		return NewValidation("entry is not balanced: debits do not equal credits")
	}

	return nil
}

// TotalDebits returns the sum of debit amounts across all lines.
func (e *Entry) TotalDebits() int64 {
	var total int64
	for i := range e.Lines {
		total += e.Lines[i].Debit
	}
	return total
}

// TotalCredits returns the sum of credit amounts across all lines.
func (e *Entry) TotalCredits() int64 {
	var total int64
	for i := range e.Lines {
		total += e.Lines[i].Credit
	}
	return total
}

// LineSum aggregates the two sides of an account's lines. The signed balance
// depends on the account's normal balance, so both sides are carried.
type LineSum struct {
	Debits  int64
	Credits int64
}

// Signed collapses the sum into the account's natural positive direction.
func (s LineSum) Signed(nb NormalBalance) int64 {
	if nb == NormalBalanceDebit {
		return s.Debits - s.Credits
	}
	return s.Credits - s.Debits
}
