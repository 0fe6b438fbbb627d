// Package vectorstore writes transaction objects and their embeddings to
// a Weaviate instance over its REST API.
package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"finguru/internal/core"
)

const className = "Transaction"

// Object is the payload stored alongside a transaction's embedding.
// user_id and category back the agent's user-scoped similarity filters.
type Object struct {
	TransactionID   string  `json:"transaction_id"`
	UserID          string  `json:"user_id"`
	MerchantName    string  `json:"merchant_name"`
	Category        string  `json:"category"`
	Subcategory     string  `json:"subcategory"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Description     string  `json:"description"`
	CreatedAt       string  `json:"created_at"`
}

// Client talks to one Weaviate instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New builds a client for the given base URL. All requests share the
// timeout.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ready probes the instance's readiness endpoint.
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/.well-known/ready", nil)
	if err != nil {
		return fmt.Errorf("build readiness request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("readiness probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("readiness probe: status %d", resp.StatusCode)
	}
	return nil
}

// EnsureSchema creates the Transaction class when the instance does not
// have it yet. Weaviate indexes all properties by default, which covers
// the user_id and category filters used by similarity search.
func (c *Client) EnsureSchema(ctx context.Context) error {
	exists, err := c.classExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		slog.InfoContext(ctx, "Vector store schema already exists", "class", className)
		return nil
	}

	schema := map[string]any{
		"class":       className,
		"description": "Financial transaction data with semantic embeddings",
		"vectorizer":  "none",
		"properties": []map[string]any{
			{"name": "transaction_id", "dataType": []string{"string"}},
			{"name": "user_id", "dataType": []string{"string"}},
			{"name": "merchant_name", "dataType": []string{"string"}},
			{"name": "category", "dataType": []string{"string"}},
			{"name": "subcategory", "dataType": []string{"string"}},
			{"name": "amount", "dataType": []string{"number"}},
			{"name": "transaction_date", "dataType": []string{"string"}},
			{"name": "description", "dataType": []string{"text"}},
			{"name": "created_at", "dataType": []string{"string"}},
		},
	}

	if err := c.post(ctx, "/v1/schema", schema, nil); err != nil {
		return fmt.Errorf("create schema class: %w", err)
	}
	slog.InfoContext(ctx, "Vector store schema created", "class", className)
	return nil
}

// InsertTransaction upserts the object and its vector. The object id is
// derived deterministically from the transaction id, so a redelivered
// message overwrites the existing object instead of duplicating it.
func (c *Client) InsertTransaction(ctx context.Context, obj Object, vector []float32) error {
	id := ObjectID(obj.TransactionID)
	body := map[string]any{
		"class":      className,
		"id":         id,
		"properties": obj,
		"vector":     vector,
	}

	err := c.post(ctx, "/v1/objects", body, nil)
	if err == nil {
		return nil
	}

	// An id collision means a previous attempt already wrote this
	// transaction (e.g. a crash between the vector write and the
	// relational commit). Replace the object in place.
	var statusErr *statusError
	if !errors.As(err, &statusErr) || statusErr.code != http.StatusUnprocessableEntity {
		return fmt.Errorf("insert vector object: %w", err)
	}

	path := fmt.Sprintf("/v1/objects/%s/%s", className, id)
	if err := c.put(ctx, path, body); err != nil {
		return fmt.Errorf("replace vector object: %w", err)
	}
	slog.InfoContext(ctx, "Replaced existing vector object",
		"transaction_id", obj.TransactionID,
		"object_id", id)
	return nil
}

// ObjectID maps a transaction id onto a stable UUID for the vector store.
func ObjectID(transactionID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("finguru/transactions/"+transactionID)).String()
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.body)
}

func (c *Client) classExists(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/schema", nil)
	if err != nil {
		return false, fmt.Errorf("build schema request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("get schema: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("get schema: status %d", resp.StatusCode)
	}

	var schema struct {
		Classes []struct {
			Class string `json:"class"`
		} `json:"classes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&schema); err != nil {
		return false, fmt.Errorf("decode schema: %w", err)
	}

	for _, class := range schema.Classes {
		if class.Class == className {
			return true, nil
		}
	}
	return false, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.send(ctx, http.MethodPost, path, body, out)
}

func (c *Client) put(ctx context.Context, path string, body any) error {
	return c.send(ctx, http.MethodPut, path, body, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{code: resp.StatusCode, body: string(raw)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// NewObject builds the vector-store payload for a transaction.
func NewObject(txn core.Transaction, userID string, now time.Time) Object {
	merchant := txn.MerchantName
	if merchant == "" {
		merchant = "Unknown"
	}
	category := txn.Category
	if category == "" {
		category = core.DefaultCategory
	}

	return Object{
		TransactionID:   txn.ID,
		UserID:          userID,
		MerchantName:    merchant,
		Category:        category,
		Subcategory:     txn.Subcategory,
		Amount:          txn.Amount.Dollars(),
		TransactionDate: txn.TransactionDate,
		Description:     txn.Description,
		CreatedAt:       now.UTC().Format(time.RFC3339),
	}
}
