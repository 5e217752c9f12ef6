package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// AccountRepository implements usecase.AccountRepository on PostgreSQL.
// The chart of accounts is managed out-of-band; this repository only reads.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const selectAccountSQL = `
SELECT id, code, name, type, created_at
FROM accounts `

// GetByCode retrieves an account by its stable business code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, selectAccountSQL+`WHERE code = $1`, code))
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return scanAccount(r.pool.QueryRow(ctx, selectAccountSQL+`WHERE id = $1`, id))
}

// List returns all accounts.
func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx, selectAccountSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		var account domain.Account

		err := rows.Scan(&account.ID, &account.Code, &account.Name, &account.Type, &account.CreatedAt)
		if err != nil {
			return nil, err
		}

		accounts = append(accounts, &account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var account domain.Account

	err := row.Scan(&account.ID, &account.Code, &account.Name, &account.Type, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return &account, nil
}
