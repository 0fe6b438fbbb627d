// Package processor implements the per-message enrichment routine: fetch
// the transaction, categorize it, embed it, and keep the relational and
// vector stores in agreement.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finguru/internal/categorize"
	"finguru/internal/core"
	"finguru/internal/embedding"
	"finguru/internal/retry"
	"finguru/internal/stats"
	"finguru/internal/storage"
	"finguru/internal/vectorstore"
)

// VectorWriter is the slice of the vector-store client the writer needs.
type VectorWriter interface {
	InsertTransaction(ctx context.Context, obj vectorstore.Object, vector []float32) error
}

// Processor is the dual-store consistency writer. It never retries a
// whole message itself; transient failures surface in the result and the
// consumer decides whether the broker redelivers.
type Processor struct {
	repo        *storage.Repository
	categorizer *categorize.Categorizer
	embedder    embedding.Embedder
	vectors     VectorWriter
	tracker     *stats.Tracker
	dbRetry     retry.Policy
	now         func() time.Time
}

// NewProcessor wires the writer. embedder and vectors may both be nil,
// which disables the embedding step (categorization still runs).
func NewProcessor(repo *storage.Repository, categorizer *categorize.Categorizer, embedder embedding.Embedder, vectors VectorWriter, tracker *stats.Tracker, dbRetry retry.Policy) *Processor {
	return &Processor{
		repo:        repo,
		categorizer: categorizer,
		embedder:    embedder,
		vectors:     vectors,
		tracker:     tracker,
		dbRetry:     dbRetry,
		now:         time.Now,
	}
}

// Process enriches one transaction.
//
// The relational transaction brackets everything: a category update from
// step one commits even when the vector write in step two fails, while
// any relational failure rolls the whole operation back. A crash between
// the vector write and the commit leaves embedding_synced false with the
// vector object already written; redelivery is safe because the vector
// insert is an idempotent upsert keyed by transaction id.
func (p *Processor) Process(ctx context.Context, transactionID, userID string) core.ProcessingResult {
	result := core.ProcessingResult{TransactionID: transactionID}

	// Every attempt re-resolves a relational transaction instead of
	// trusting a long-lived handle.
	var tx *storage.Tx
	err := p.dbRetry.Do(ctx, "begin relational transaction", func() error {
		var beginErr error
		tx, beginErr = p.repo.Begin(ctx)
		return beginErr
	})
	if err != nil {
		return p.fail(ctx, result, core.NewError(core.ErrKindConnectivity, err))
	}
	defer tx.Rollback()

	txn, err := tx.GetTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, core.ErrTransactionNotFound) {
			return p.fail(ctx, result, core.Errorf(core.ErrKindNotFound, "transaction %s not found", transactionID))
		}
		return p.fail(ctx, result, core.NewError(core.ErrKindUnexpected, err))
	}

	if txn.NeedsCategorization() {
		match := p.categorizer.Categorize(txn.MerchantName, txn.Description, txn.Amount)
		if err := tx.UpdateCategory(ctx, txn.ID, match.Category, match.Subcategory); err != nil {
			return p.fail(ctx, result, core.NewError(core.ErrKindUnexpected, err))
		}
		txn.Category = match.Category
		txn.Subcategory = match.Subcategory
		result.Categorized = true
		p.tracker.AddCategorized()

		slog.InfoContext(ctx, "Categorized transaction",
			"transaction_id", txn.ID,
			"merchant", txn.MerchantName,
			"category", match.Category,
			"subcategory", match.Subcategory,
			"confidence", match.Confidence)
	}

	if p.vectors != nil && p.embedder != nil && !txn.EmbeddingSynced {
		if err := p.embedAndStore(ctx, tx, txn, userID); err != nil {
			// A failed vector write must not cost us the category
			// update: record it and commit anyway.
			result.Err = core.NewError(core.ErrKindEmbeddingWrite, err)
			slog.WarnContext(ctx, "Embedding write failed",
				"transaction_id", txn.ID,
				"error", err)
		} else {
			result.Embedded = true
			p.tracker.AddEmbedded()
		}
	}

	if err := tx.Commit(); err != nil {
		return p.fail(ctx, result, core.NewError(core.ErrKindUnexpected, err))
	}

	result.Success = true
	p.tracker.AddProcessed()
	return result
}

// embedAndStore runs the whole embedding step: build the input text, call
// the model, upsert the vector object, then flag the row as synced. The
// model call can take seconds while the relational transaction stays
// open; that is acceptable only because the consumer keeps a single
// message in flight, so nothing else contends for the row.
func (p *Processor) embedAndStore(ctx context.Context, tx *storage.Tx, txn core.Transaction, userID string) error {
	text := embedding.TransactionText(txn)
	vector, err := p.embedder.EmbedText(ctx, text)
	if err != nil {
		return fmt.Errorf("generate embedding: %w", err)
	}

	obj := vectorstore.NewObject(txn, userID, p.now())
	if err := p.vectors.InsertTransaction(ctx, obj, vector); err != nil {
		return fmt.Errorf("insert into vector store: %w", err)
	}

	if err := tx.MarkEmbeddingSynced(ctx, txn.ID); err != nil {
		return fmt.Errorf("mark embedding synced: %w", err)
	}

	slog.InfoContext(ctx, "Embedded transaction",
		"transaction_id", txn.ID,
		"vector_dim", len(vector))
	return nil
}

func (p *Processor) fail(ctx context.Context, result core.ProcessingResult, cerr *core.Error) core.ProcessingResult {
	result.Err = cerr
	p.tracker.AddError()

	slog.ErrorContext(ctx, "Transaction processing failed",
		"transaction_id", result.TransactionID,
		"kind", string(cerr.Kind),
		"error", cerr.Err)
	return result
}
