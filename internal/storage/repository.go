// Package storage is the SQLite-backed relational store for the
// enrichment pipeline.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"finguru/internal/core"

	_ "modernc.org/sqlite"
)

// Repository owns the database handle. Per-message work happens inside an
// explicit Tx so the category update, the sync flag and the commit stay
// one atomic unit.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Begin opens a transaction for one message's processing.
func (r *Repository) Begin(ctx context.Context) (*Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// CreateTransaction inserts a raw, unenriched row. The ingest side of the
// system owns inserts; the pipeline uses this for seeding and tests.
func (r *Repository) CreateTransaction(ctx context.Context, txn core.Transaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions
			(id, merchant_name, description, amount_cents, category, subcategory, transaction_date, embedding_synced)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		txn.ID, txn.MerchantName, txn.Description, txn.Amount.Cents,
		txn.Category, txn.Subcategory, txn.TransactionDate, boolToInt(txn.EmbeddingSynced))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetTransaction reads a row outside any transaction. Used for
// inspection; the writer goes through Tx.GetTransaction.
func (r *Repository) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return scanTransaction(r.db.QueryRowContext(ctx, selectTransaction, id))
}

// Tx is one in-flight relational transaction.
type Tx struct {
	tx   *sql.Tx
	done bool
}

const selectTransaction = `
	SELECT id, merchant_name, description, amount_cents, category, subcategory, transaction_date, embedding_synced
	FROM transactions
	WHERE id = ?`

// GetTransaction fetches the row by id. Returns
// core.ErrTransactionNotFound when no row matches.
func (t *Tx) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return scanTransaction(t.tx.QueryRowContext(ctx, selectTransaction, id))
}

// UpdateCategory sets the category labels on a row.
func (t *Tx) UpdateCategory(ctx context.Context, id, category, subcategory string) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE transactions
		SET category = ?, subcategory = ?
		WHERE id = ?`,
		category, subcategory, id)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return nil
}

// MarkEmbeddingSynced records that a vector-store object exists for the
// row. Only set after the vector write succeeded.
func (t *Tx) MarkEmbeddingSynced(ctx context.Context, id string) error {
	_, err := t.tx.ExecContext(ctx, `
		UPDATE transactions
		SET embedding_synced = 1
		WHERE id = ?`,
		id)
	if err != nil {
		return fmt.Errorf("mark embedding synced: %w", err)
	}
	return nil
}

func (t *Tx) Commit() error {
	t.done = true
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback is safe to defer: it is a no-op after Commit.
func (t *Tx) Rollback() {
	if t.done {
		return
	}
	t.done = true
	_ = t.tx.Rollback()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		txn    core.Transaction
		synced int64
	)
	err := row.Scan(
		&txn.ID,
		&txn.MerchantName,
		&txn.Description,
		&txn.Amount.Cents,
		&txn.Category,
		&txn.Subcategory,
		&txn.TransactionDate,
		&synced,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	txn.EmbeddingSynced = synced != 0
	return txn, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
