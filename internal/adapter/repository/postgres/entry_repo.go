package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fleetbooks/fleetbooks/internal/domain"
	"github.com/fleetbooks/fleetbooks/internal/usecase"
)

// dbtx abstracts over a pool and a transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRepository implements usecase.EntryRepository on PostgreSQL. Entries
// are append-only; the unique index on external_reference is the sole
// mutual-exclusion mechanism between concurrent postings for one business
// event.
type EntryRepository struct {
	pool *pgxpool.Pool
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{pool: pool}
}

const insertEntrySQL = `
INSERT INTO entries (id, entry_number, external_reference, entry_date, description, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (external_reference) DO NOTHING`

const insertLineSQL = `
INSERT INTO entry_lines (id, entry_id, account_id, debit_amount, credit_amount, description)
VALUES ($1, $2, $3, $4, $5, $6)`

// Commit atomically persists the entry with all its lines. The insert is a
// single conditional statement: if another transaction already committed the
// same external reference, no row is written and the winner's entry is
// returned instead. The caller cannot distinguish the two outcomes except
// via the created flag.
func (r *EntryRepository) Commit(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, bool, error) {
	if err := entry.Validate(); err != nil {
		return nil, false, err
	}

	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, insertEntrySQL,
		entry.ID,
		entry.EntryNumber,
		entry.ExternalReference,
		entry.EntryDate,
		entry.Description,
		entry.CreatedAt,
	)
	if err != nil {
		return nil, false, err
	}

	if tag.RowsAffected() == 0 {
		existing, err := getByExternalReference(ctx, pgxTx, entry.ExternalReference)
		if err != nil {
			return nil, false, err
		}

		return existing, false, nil
	}

	for i := range entry.Lines {
		line := &entry.Lines[i]

		_, err := pgxTx.Exec(ctx, insertLineSQL,
			line.ID,
			line.EntryID,
			line.AccountID,
			line.Debit,
			line.Credit,
			line.Description,
		)
		if err != nil {
			return nil, false, err
		}
	}

	return entry, true, nil
}

const selectEntrySQL = `
SELECT id, entry_number, external_reference, entry_date, description, created_at
FROM entries `

// GetByID retrieves an entry with its lines.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	return r.getOne(ctx, selectEntrySQL+`WHERE id = $1`, id)
}

// GetByExternalReference retrieves the entry posted for a business event.
func (r *EntryRepository) GetByExternalReference(ctx context.Context, ref string) (*domain.Entry, error) {
	return r.getOne(ctx, selectEntrySQL+`WHERE external_reference = $1`, ref)
}

func (r *EntryRepository) getOne(ctx context.Context, sql string, arg any) (*domain.Entry, error) {
	entry, err := scanEntry(r.pool.QueryRow(ctx, sql, arg))
	if err != nil {
		return nil, err
	}

	entry.Lines, err = loadLines(ctx, r.pool, entry.ID)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

// ListByAccount lists entries that touch an account, newest first.
func (r *EntryRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.pool.Query(ctx, selectEntrySQL+`
WHERE id IN (SELECT DISTINCT entry_id FROM entry_lines WHERE account_id = $1)
ORDER BY entry_date DESC, id DESC
LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		entry.Lines, err = loadLines(ctx, r.pool, entry.ID)
		if err != nil {
			return nil, err
		}
	}

	return entries, nil
}

const sumLinesSQL = `
SELECT COALESCE(SUM(l.debit_amount), 0)::BIGINT, COALESCE(SUM(l.credit_amount), 0)::BIGINT
FROM entry_lines l
JOIN entries e ON e.id = l.entry_id
WHERE l.account_id = $1
  AND ($2::TEXT = '' OR e.external_reference LIKE $2 || '%')
  AND ($3::TIMESTAMPTZ IS NULL OR e.entry_date <= $3)`

// SumLinesForAccount aggregates both sides of the account's lines,
// optionally restricted by reference prefix and cutoff date.
func (r *EntryRepository) SumLinesForAccount(ctx context.Context, accountID string, filter usecase.SumFilter) (domain.LineSum, error) {
	var sum domain.LineSum

	err := r.pool.QueryRow(ctx, sumLinesSQL, accountID, escapeLike(filter.ReferencePrefix), filter.UpTo).
		Scan(&sum.Debits, &sum.Credits)
	if err != nil {
		return domain.LineSum{}, err
	}

	return sum, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE metacharacters so a reference prefix matches
// literally. References embed invoice ids, which are arbitrary billing-side
// text and may contain '_' or '%'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func getByExternalReference(ctx context.Context, q dbtx, ref string) (*domain.Entry, error) {
	entry, err := scanEntry(q.QueryRow(ctx, selectEntrySQL+`WHERE external_reference = $1`, ref))
	if err != nil {
		return nil, err
	}

	entry.Lines, err = loadLines(ctx, q, entry.ID)
	if err != nil {
		return nil, err
	}

	return entry, nil
}

func scanEntry(row pgx.Row) (*domain.Entry, error) {
	var entry domain.Entry

	err := row.Scan(
		&entry.ID,
		&entry.EntryNumber,
		&entry.ExternalReference,
		&entry.EntryDate,
		&entry.Description,
		&entry.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return &entry, nil
}

const selectLinesSQL = `
SELECT id, entry_id, account_id, debit_amount, credit_amount, description
FROM entry_lines
WHERE entry_id = $1
ORDER BY id`

func loadLines(ctx context.Context, q dbtx, entryID string) ([]domain.EntryLine, error) {
	rows, err := q.Query(ctx, selectLinesSQL, entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.EntryLine
	for rows.Next() {
		var line domain.EntryLine

		err := rows.Scan(
			&line.ID,
			&line.EntryID,
			&line.AccountID,
			&line.Debit,
			&line.Credit,
			&line.Description,
		)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	return lines, rows.Err()
}
