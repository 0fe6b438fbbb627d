package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finguru/internal/core"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestGetTransactionNotFound(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer tx.Rollback()

	_, err = tx.GetTransaction(ctx, "missing")
	if !errors.Is(err, core.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestCreateAndGetTransaction(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	want := core.Transaction{
		ID:              "txn-1",
		MerchantName:    "Whole Foods Market",
		Description:     "weekly shop",
		Amount:          core.Money{Cents: -4567},
		TransactionDate: "2025-05-30",
	}
	if err := repo.CreateTransaction(ctx, want); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "txn-1")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got != want {
		t.Errorf("GetTransaction = %+v, want %+v", got, want)
	}
	if got.EmbeddingSynced {
		t.Error("new transaction reports embedding_synced")
	}
	if !got.NeedsCategorization() {
		t.Error("uncategorized transaction reports NeedsCategorization false")
	}
}

func TestUpdateCategoryCommits(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := core.Transaction{ID: "txn-2", Amount: core.Money{Cents: -100}}
	if err := repo.CreateTransaction(ctx, seed); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.UpdateCategory(ctx, "txn-2", "Groceries", "Supermarkets"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if err := tx.MarkEmbeddingSynced(ctx, "txn-2"); err != nil {
		t.Fatalf("MarkEmbeddingSynced: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	got, err := repo.GetTransaction(ctx, "txn-2")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "Groceries" || got.Subcategory != "Supermarkets" {
		t.Errorf("category = %s/%s, want Groceries/Supermarkets", got.Category, got.Subcategory)
	}
	if !got.EmbeddingSynced {
		t.Error("embedding_synced not persisted")
	}
}

func TestRollbackDiscardsUpdates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seed := core.Transaction{ID: "txn-3", Amount: core.Money{Cents: -100}}
	if err := repo.CreateTransaction(ctx, seed); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.UpdateCategory(ctx, "txn-3", "Shopping", "Online Shopping"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	tx.Rollback()

	got, err := repo.GetTransaction(ctx, "txn-3")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "" {
		t.Errorf("category = %q after rollback, want empty", got.Category)
	}
}

func TestRollbackAfterCommitIsNoOp(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.CreateTransaction(ctx, core.Transaction{ID: "txn-4"}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tx.UpdateCategory(ctx, "txn-4", "Pets", "Veterinary"); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	tx.Rollback() // deferred in production code, must not undo the commit

	got, err := repo.GetTransaction(ctx, "txn-4")
	if err != nil {
		t.Fatalf("GetTransaction: %v", err)
	}
	if got.Category != "Pets" {
		t.Errorf("category = %q, want Pets", got.Category)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := NewRepository(dbPath)
	if err != nil {
		t.Fatalf("first NewRepository: %v", err)
	}
	repo.Close()

	// Reopening runs migrations again against the same file.
	repo, err = NewRepository(dbPath)
	if err != nil {
		t.Fatalf("second NewRepository: %v", err)
	}
	repo.Close()
}
