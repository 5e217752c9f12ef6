package usecase

import "time"

// Well-known chart-of-accounts codes the posting use cases rely on. Account
// provisioning guarantees these exist before any posting runs; a miss at
// runtime is a deployment failure.
const (
	CodeCash               = "1000"
	CodeAccountsReceivable = "1100"
	CodeTaxPayable         = "2200"
	CodeRentalRevenue      = "4000"
	CodeMaintenanceExpense = "5100"
)

const (
	// DefaultTransactionTimeout bounds a single commit round-trip so a stuck
	// transaction cannot hold locks indefinitely.
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long request-level idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour

	// AccountCacheTTL bounds staleness of the cached account directory.
	AccountCacheTTL = 5 * time.Minute
)

// RequiredAccountCodes lists the codes verified at startup.
var RequiredAccountCodes = []string{
	CodeCash,
	CodeAccountsReceivable,
	CodeTaxPayable,
	CodeRentalRevenue,
	CodeMaintenanceExpense,
}
