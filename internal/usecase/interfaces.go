package usecase

import (
	"context"
	"time"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// AccountRepository is the account directory: a read-only catalog of the
// chart of accounts, provisioned out-of-band.
type AccountRepository interface {
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
}

// SumFilter restricts a line aggregation to entries whose external reference
// starts with ReferencePrefix and/or whose entry date is on or before UpTo.
type SumFilter struct {
	ReferencePrefix string
	UpTo            *time.Time
}

// EntryRepository is the ledger store: append-only persistence of entries
// and their lines with the balance invariant enforced before commit.
type EntryRepository interface {
	// Commit atomically persists the entry and all its lines. If an entry
	// with the same external reference already exists, the existing entry is
	// returned with created=false and nothing is written; concurrent commits
	// racing on one reference converge on a single winner.
	Commit(ctx context.Context, tx Transaction, entry *domain.Entry) (*domain.Entry, bool, error)

	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByExternalReference(ctx context.Context, ref string) (*domain.Entry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
	SumLinesForAccount(ctx context.Context, accountID string, filter SumFilter) (domain.LineSum, error)
}

// InvoiceTotalsRepository reads operational invoice aggregates owned by the
// billing module. Strictly read-only from this core.
type InvoiceTotalsRepository interface {
	ListPaidTotals(ctx context.Context) ([]domain.InvoiceTotal, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-executes an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles request-level idempotency key storage at the API
// boundary. This is complementary to the ledger's own external-reference
// idempotency and protects read-modify-write endpoints generically.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
