package redis

import (
	"context"
	"encoding/json"

	"github.com/fleetbooks/fleetbooks/internal/domain"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// CachedAccountDirectory decorates an AccountRepository with a read-through
// cache. The chart of accounts is read-mostly and immutable once referenced,
// so a short TTL is safe; any cache failure falls back to the database.
type CachedAccountDirectory struct {
	inner usecase.AccountRepository
	cache usecase.Cache
}

// NewCachedAccountDirectory creates a new CachedAccountDirectory.
func NewCachedAccountDirectory(inner usecase.AccountRepository, cache usecase.Cache) *CachedAccountDirectory {
	return &CachedAccountDirectory{inner: inner, cache: cache}
}

// GetByCode resolves an account by code, consulting the cache first.
func (d *CachedAccountDirectory) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	return d.lookup(ctx, "account:code:"+code, func() (*domain.Account, error) {
		return d.inner.GetByCode(ctx, code)
	})
}

// GetByID resolves an account by ID, consulting the cache first.
func (d *CachedAccountDirectory) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return d.lookup(ctx, "account:id:"+id, func() (*domain.Account, error) {
		return d.inner.GetByID(ctx, id)
	})
}

// List always reads through: reconciliation needs the complete catalog.
func (d *CachedAccountDirectory) List(ctx context.Context) ([]*domain.Account, error) {
	return d.inner.List(ctx)
}

func (d *CachedAccountDirectory) lookup(ctx context.Context, key string, load func() (*domain.Account, error)) (*domain.Account, error) {
	if cached, err := d.cache.Get(ctx, key); err == nil {
		var account domain.Account
		if err := json.Unmarshal(cached, &account); err == nil {
			return &account, nil
		}
	}

	account, err := load()
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(account); err == nil {
		// Best effort; a failed write only costs a future database read.
		_ = d.cache.Set(ctx, key, payload, usecase.AccountCacheTTL)
	}

	return account, nil
}
