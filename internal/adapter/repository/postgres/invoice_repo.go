package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

// InvoiceTotalsRepository reads operational invoice aggregates from the
// billing module's table. Reconciliation compares these against the ledger;
// nothing here ever writes.
type InvoiceTotalsRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceTotalsRepository creates a new InvoiceTotalsRepository.
func NewInvoiceTotalsRepository(pool *pgxpool.Pool) *InvoiceTotalsRepository {
	return &InvoiceTotalsRepository{pool: pool}
}

const selectInvoiceTotalsSQL = `
SELECT id, paid_amount
FROM ar_invoices
WHERE status <> 'VOID'`

// ListPaidTotals returns (invoice id, recorded paid amount) for every
// non-void invoice.
func (r *InvoiceTotalsRepository) ListPaidTotals(ctx context.Context) ([]domain.InvoiceTotal, error) {
	rows, err := r.pool.Query(ctx, selectInvoiceTotalsSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.InvoiceTotal
	for rows.Next() {
		var total domain.InvoiceTotal

		if err := rows.Scan(&total.InvoiceID, &total.PaidAmount); err != nil {
			return nil, err
		}

		totals = append(totals, total)
	}

	return totals, rows.Err()
}
