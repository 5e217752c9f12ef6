package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"

	"github.com/fleetbooks/fleetbooks/internal/domain"
)

func testEntry() *domain.Entry {
	return &domain.Entry{
		ID:                "entry-1",
		EntryNumber:       "JE-entry-1",
		ExternalReference: "invoice-42-issuance",
		EntryDate:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Description:       "invoice 42 issued",
		CreatedAt:         time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC),
		Lines: []domain.EntryLine{
			{ID: "line-1", EntryID: "entry-1", AccountID: "acc-ar", Debit: 15000},
			{ID: "line-2", EntryID: "entry-1", AccountID: "acc-rev", Credit: 15000},
		},
	}
}

func beginTx(t *testing.T, mockPool pgxmock.PgxPoolIface) *Tx {
	t.Helper()

	manager := newTxManagerWithPool(mockPool)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	return tx.(*Tx)
}

func TestEntryRepositoryCommitInsertsEntryAndLines(t *testing.T) {
	mockPool := newMockPool(t)
	entry := testEntry()

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO entries").
		WithArgs(entry.ID, entry.EntryNumber, entry.ExternalReference,
			entry.EntryDate, entry.Description, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO entry_lines").
		WithArgs("line-1", "entry-1", "acc-ar", int64(15000), int64(0), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectExec("INSERT INTO entry_lines").
		WithArgs("line-2", "entry-1", "acc-rev", int64(0), int64(15000), "").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	tx := beginTx(t, mockPool)
	repo := NewEntryRepository(nil)

	committed, created, err := repo.Commit(context.Background(), tx, entry)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !created {
		t.Fatal("expected created=true for a fresh reference")
	}
	if committed.ID != entry.ID {
		t.Fatalf("expected committed entry %q, got %q", entry.ID, committed.ID)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("tx commit failed: %v", err)
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryCommitReturnsExistingOnConflict(t *testing.T) {
	mockPool := newMockPool(t)
	entry := testEntry()

	existingDate := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectBegin()
	// Zero rows affected: another transaction already owns this reference.
	mockPool.ExpectExec("INSERT INTO entries").
		WithArgs(entry.ID, entry.EntryNumber, entry.ExternalReference,
			entry.EntryDate, entry.Description, entry.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))
	mockPool.ExpectQuery("SELECT id, entry_number, external_reference").
		WithArgs(entry.ExternalReference).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "entry_number", "external_reference", "entry_date", "description", "created_at"}).
			AddRow("winner-entry", "JE-winner-entry", entry.ExternalReference, existingDate, "", existingDate))
	mockPool.ExpectQuery("SELECT id, entry_id, account_id").
		WithArgs("winner-entry").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "entry_id", "account_id", "debit_amount", "credit_amount", "description"}).
			AddRow("w-line-1", "winner-entry", "acc-ar", int64(15000), int64(0), "").
			AddRow("w-line-2", "winner-entry", "acc-rev", int64(0), int64(15000), ""))

	tx := beginTx(t, mockPool)
	repo := NewEntryRepository(nil)

	committed, created, err := repo.Commit(context.Background(), tx, entry)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if created {
		t.Fatal("expected created=false on a conflicting reference")
	}
	if committed.ID != "winner-entry" {
		t.Fatalf("expected the winner's entry, got %q", committed.ID)
	}
	if len(committed.Lines) != 2 {
		t.Fatalf("expected winner's lines to be loaded, got %d", len(committed.Lines))
	}

	assertExpectations(t, mockPool)
}

func TestEntryRepositoryCommitRejectsInvalidEntry(t *testing.T) {
	mockPool := newMockPool(t)
	mockPool.ExpectBegin()

	entry := testEntry()
	entry.Lines[1].Credit = 14999

	tx := beginTx(t, mockPool)
	repo := NewEntryRepository(nil)

	_, _, err := repo.Commit(context.Background(), tx, entry)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation kind, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{
			name:   "plain prefix passes through",
			prefix: "invoice-42-payment",
			want:   "invoice-42-payment",
		},
		{
			// An unescaped '_' would match any single character, so a prefix
			// built from id INV_1 would also cover payments of id INVX1.
			name:   "underscore is escaped",
			prefix: "invoice-INV_2026_001-payment",
			want:   `invoice-INV\_2026\_001-payment`,
		},
		{
			name:   "percent is escaped",
			prefix: "invoice-100%-payment",
			want:   `invoice-100\%-payment`,
		},
		{
			name:   "backslash is escaped first",
			prefix: `invoice-a\_b-payment`,
			want:   `invoice-a\\\_b-payment`,
		},
		{
			name:   "empty prefix stays empty",
			prefix: "",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeLike(tt.prefix); got != tt.want {
				t.Fatalf("escapeLike(%q) = %q, want %q", tt.prefix, got, tt.want)
			}
		})
	}
}
