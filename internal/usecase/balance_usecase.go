package usecase

import (
	"context"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// BalanceUseCase computes account balances by aggregating entry lines.
type BalanceUseCase struct {
	accountRepo AccountRepository
	entryRepo   EntryRepository
}

// NewBalanceUseCase creates a new BalanceUseCase.
func NewBalanceUseCase(accountRepo AccountRepository, entryRepo EntryRepository) *BalanceUseCase {
	return &BalanceUseCase{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// BalanceAsOf returns the account's balance at a point in time, in minor
// currency units, expressed in the account's natural positive direction
// (debit-normal for ASSET/EXPENSE, credit-normal otherwise).
func (uc *BalanceUseCase) BalanceAsOf(ctx context.Context, accountID string, at time.Time) (int64, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return 0, err
	}

	return uc.balanceOf(ctx, account, at)
}

// BalanceByCodeAsOf resolves the account by its business code first.
func (uc *BalanceUseCase) BalanceByCodeAsOf(ctx context.Context, code string, at time.Time) (int64, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}

	return uc.balanceOf(ctx, account, at)
}

// EntriesByCode lists the entries touching an account, newest first.
func (uc *BalanceUseCase) EntriesByCode(ctx context.Context, code string, limit, offset int) ([]*domain.Entry, error) {
	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	return uc.entryRepo.ListByAccount(ctx, account.ID, limit, offset)
}

func (uc *BalanceUseCase) balanceOf(ctx context.Context, account *domain.Account, at time.Time) (int64, error) {
	sum, err := uc.entryRepo.SumLinesForAccount(ctx, account.ID, SumFilter{UpTo: &at})
	if err != nil {
		return 0, err
	}

	return sum.Signed(account.Type.NormalBalance()), nil
}
