package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// PostingUseCase translates a business event into a balanced ledger entry
// and commits it idempotently. It knows nothing about invoices or payments;
// callers describe the economic event as account codes and amounts.
type PostingUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	retrier     Retrier
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		retrier:     retrier,
	}
}

// PostLineInput is one debit or credit movement described by account code.
type PostLineInput struct {
	AccountCode string
	Debit       int64
	Credit      int64
	Description string
}

// PostInput describes the economic event to record.
type PostInput struct {
	ExternalReference string
	EntryDate         time.Time
	Description       string
	Lines             []PostLineInput
}

// Post resolves account codes, validates the balance invariant, and commits
// a new entry. Retrying with the same external reference is safe by
// construction: the pre-existing entry is returned and the operation is a
// no-op, indistinguishable from a fresh post.
func (uc *PostingUseCase) Post(ctx context.Context, input PostInput) (*domain.Entry, error) {
	if input.ExternalReference == "" {
		return nil, domain.NewValidation("posting requires an external reference")
	}

	if len(input.Lines) < 2 {
		return nil, domain.NewValidation("posting requires at least two lines")
	}

	// Resolve every account code up front. An unresolved code means the
	// chart of accounts was not provisioned and fails the whole posting.
	resolved := make(map[string]*domain.Account, len(input.Lines))
	for _, line := range input.Lines {
		if _, ok := resolved[line.AccountCode]; ok {
			continue
		}

		account, err := uc.accountRepo.GetByCode(ctx, line.AccountCode)
		if err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				return nil, domain.NewConfiguration(
					fmt.Sprintf("account code %q is not provisioned", line.AccountCode), err)
			}

			return nil, err
		}

		resolved[line.AccountCode] = account
	}

	entryDate := input.EntryDate
	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}

	entryID := uc.idGen.Generate()
	entry := &domain.Entry{
		ID:                entryID,
		EntryNumber:       "JE-" + entryID,
		ExternalReference: input.ExternalReference,
		EntryDate:         entryDate,
		Description:       input.Description,
		CreatedAt:         time.Now().UTC(),
	}

	entry.Lines = make([]domain.EntryLine, 0, len(input.Lines))
	for _, line := range input.Lines {
		entry.Lines = append(entry.Lines, domain.EntryLine{
			ID:          uc.idGen.Generate(),
			EntryID:     entryID,
			AccountID:   resolved[line.AccountCode].ID,
			Debit:       line.Debit,
			Credit:      line.Credit,
			Description: line.Description,
		})
	}

	// Validate before touching the store so caller bugs surface as precise
	// validation errors rather than generic store rejections.
	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return uc.commit(ctx, entry)
}

// Reverse posts a new entry that undoes the entry committed under ref, with
// debit and credit sides swapped. History is never edited; the reversal is
// itself idempotent under its derived reference.
func (uc *PostingUseCase) Reverse(ctx context.Context, ref string, entryDate time.Time) (*domain.Entry, error) {
	original, err := uc.entryRepo.GetByExternalReference(ctx, ref)
	if err != nil {
		return nil, err
	}

	if entryDate.IsZero() {
		entryDate = time.Now().UTC()
	}

	entryID := uc.idGen.Generate()
	reversal := &domain.Entry{
		ID:                entryID,
		EntryNumber:       "JE-" + entryID,
		ExternalReference: domain.ReversalReference(ref),
		EntryDate:         entryDate,
		Description:       "reversal of " + original.EntryNumber,
		CreatedAt:         time.Now().UTC(),
	}

	reversal.Lines = make([]domain.EntryLine, 0, len(original.Lines))
	for _, line := range original.Lines {
		reversal.Lines = append(reversal.Lines, domain.EntryLine{
			ID:          uc.idGen.Generate(),
			EntryID:     entryID,
			AccountID:   line.AccountID,
			Debit:       line.Credit,
			Credit:      line.Debit,
			Description: line.Description,
		})
	}

	if err := reversal.Validate(); err != nil {
		return nil, err
	}

	return uc.commit(ctx, reversal)
}

// GetByExternalReference looks up the entry posted for a business event.
func (uc *PostingUseCase) GetByExternalReference(ctx context.Context, ref string) (*domain.Entry, error) {
	return uc.entryRepo.GetByExternalReference(ctx, ref)
}

func (uc *PostingUseCase) commit(ctx context.Context, entry *domain.Entry) (*domain.Entry, error) {
	var committed *domain.Entry

	err := uc.retrier.Retry(ctx, func() error {
		txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
		defer cancel()

		tx, err := uc.txManager.Begin(txCtx)
		if err != nil {
			return err
		}
		defer tx.Rollback(txCtx)

		result, _, err := uc.entryRepo.Commit(txCtx, tx, entry)
		if err != nil {
			return err
		}

		if err := tx.Commit(txCtx); err != nil {
			return err
		}

		committed = result

		return nil
	})
	if err != nil {
		return nil, err
	}

	return committed, nil
}
