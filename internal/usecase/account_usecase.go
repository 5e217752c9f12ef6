package usecase

import (
	"context"
	"fmt"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// AccountUseCase exposes read access to the account directory.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// GetByCode resolves an account by its stable business code.
func (uc *AccountUseCase) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	return uc.accountRepo.GetByCode(ctx, code)
}

// List returns all accounts, unordered.
func (uc *AccountUseCase) List(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.List(ctx)
}

// VerifyChartOfAccounts resolves every required well-known code. A miss is a
// configuration error; the server refuses to start on it rather than failing
// postings one by one at runtime.
func (uc *AccountUseCase) VerifyChartOfAccounts(ctx context.Context, codes ...string) error {
	if len(codes) == 0 {
		codes = RequiredAccountCodes
	}

	for _, code := range codes {
		if _, err := uc.accountRepo.GetByCode(ctx, code); err != nil {
			if domain.IsKind(err, domain.KindNotFound) {
				return domain.NewConfiguration(
					fmt.Sprintf("required account code %q is not provisioned", code), err)
			}

			return err
		}
	}

	return nil
}
