package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finguru/internal/core"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 2*time.Second)
}

func TestReady(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/.well-known/ready" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := c.Ready(context.Background()); err != nil {
		t.Fatalf("Ready: %v", err)
	}
}

func TestReadyNotUp(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	if err := c.Ready(context.Background()); err == nil {
		t.Fatal("Ready returned nil for a 503")
	}
}

func TestEnsureSchemaCreatesMissingClass(t *testing.T) {
	var created map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/v1/schema":
			json.NewEncoder(w).Encode(map[string]any{"classes": []any{}})
		case r.Method == http.MethodPost && r.URL.Path == "/v1/schema":
			if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
				t.Errorf("decode schema body: %v", err)
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	}))

	if err := c.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if created["class"] != "Transaction" {
		t.Errorf("created class %v, want Transaction", created["class"])
	}
	props, ok := created["properties"].([]any)
	if !ok || len(props) != 9 {
		t.Errorf("created %d properties, want 9", len(props))
	}
}

func TestEnsureSchemaSkipsExistingClass(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			t.Error("schema created even though the class exists")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"classes": []map[string]string{{"class": "Transaction"}},
		})
	}))

	if err := c.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
}

func TestInsertTransaction(t *testing.T) {
	var body struct {
		Class      string    `json:"class"`
		ID         string    `json:"id"`
		Properties Object    `json:"properties"`
		Vector     []float32 `json:"vector"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/objects" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))

	obj := Object{TransactionID: "txn-1", UserID: "user-1", Amount: -45.67}
	if err := c.InsertTransaction(context.Background(), obj, []float32{0.1, 0.2}); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}
	if body.Class != "Transaction" {
		t.Errorf("class = %q, want Transaction", body.Class)
	}
	if body.ID != ObjectID("txn-1") {
		t.Errorf("id = %q, want deterministic id %q", body.ID, ObjectID("txn-1"))
	}
	if body.Properties.UserID != "user-1" {
		t.Errorf("user_id = %q, want user-1", body.Properties.UserID)
	}
	if len(body.Vector) != 2 {
		t.Errorf("vector length = %d, want 2", len(body.Vector))
	}
}

func TestInsertTransactionReplacesOnConflict(t *testing.T) {
	var putPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			w.WriteHeader(http.StatusUnprocessableEntity)
		case http.MethodPut:
			putPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	obj := Object{TransactionID: "txn-dup"}
	if err := c.InsertTransaction(context.Background(), obj, []float32{0.5}); err != nil {
		t.Fatalf("InsertTransaction: %v", err)
	}
	want := "/v1/objects/Transaction/" + ObjectID("txn-dup")
	if putPath != want {
		t.Errorf("replace path = %q, want %q", putPath, want)
	}
}

func TestInsertTransactionSurfacesServerError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := c.InsertTransaction(context.Background(), Object{TransactionID: "txn-2"}, []float32{0.5})
	if err == nil {
		t.Fatal("InsertTransaction returned nil for a 500")
	}
}

func TestObjectIDIsStable(t *testing.T) {
	if ObjectID("abc") != ObjectID("abc") {
		t.Error("ObjectID is not deterministic")
	}
	if ObjectID("abc") == ObjectID("abd") {
		t.Error("distinct transactions mapped to the same object id")
	}
}

func TestNewObjectDefaults(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	txn := core.Transaction{
		ID:              "txn-3",
		Amount:          core.Money{Cents: -1299},
		TransactionDate: "2025-05-30",
	}

	obj := NewObject(txn, "user-9", now)
	if obj.MerchantName != "Unknown" {
		t.Errorf("merchant = %q, want Unknown", obj.MerchantName)
	}
	if obj.Category != core.DefaultCategory {
		t.Errorf("category = %q, want %q", obj.Category, core.DefaultCategory)
	}
	if obj.Amount != -12.99 {
		t.Errorf("amount = %v, want -12.99", obj.Amount)
	}
	if obj.CreatedAt != "2025-06-01T12:00:00Z" {
		t.Errorf("created_at = %q", obj.CreatedAt)
	}
}
