package core

import "time"

const (
	// DefaultCategory is the placeholder a transaction carries before (or
	// instead of) a real categorization.
	DefaultCategory    = "Other"
	DefaultSubcategory = "Uncategorized"
)

type (
	// Money is a signed amount in cents. Negative amounts are expenses,
	// positive amounts are income.
	Money struct {
		Cents int64
	}

	// Transaction mirrors the consumed columns of the transactions table.
	// The pipeline reads it, fills in category data and flips the
	// embedding-synced flag; everything else is owned by other services.
	Transaction struct {
		ID              string
		MerchantName    string
		Description     string
		Amount          Money
		Category        string
		Subcategory     string
		TransactionDate string // YYYY-MM-DD
		EmbeddingSynced bool
	}

	// ProcessingResult is the per-message outcome returned by the writer
	// and translated by the consumer into an ack/nack decision.
	ProcessingResult struct {
		TransactionID string
		Success       bool
		Categorized   bool
		Embedded      bool
		Err           *Error
	}
)

// IsIncome reports whether the amount is positive.
func (m Money) IsIncome() bool {
	return m.Cents > 0
}

// Dollars returns the amount as a float64 for display and payloads.
// Calculations stay in cents to avoid floating-point drift.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// AbsDollars returns the magnitude of the amount in dollars.
func (m Money) AbsDollars() float64 {
	if m.Cents < 0 {
		return float64(-m.Cents) / 100.0
	}
	return float64(m.Cents) / 100.0
}

// NeedsCategorization reports whether the row still carries no real
// category label.
func (t Transaction) NeedsCategorization() bool {
	return t.Category == "" || t.Category == DefaultCategory
}

// FormatDate renders a timestamp the way transaction_date is stored.
func FormatDate(ts time.Time) string {
	return ts.Format("2006-01-02")
}
