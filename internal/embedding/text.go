package embedding

import (
	"fmt"
	"strings"

	"finguru/internal/core"
)

// TransactionText builds the embedding input for a transaction: merchant
// name, category and subcategory labels, description, then a direction
// marker for the amount. Empty fields are skipped.
func TransactionText(txn core.Transaction) string {
	var parts []string

	if txn.MerchantName != "" {
		parts = append(parts, txn.MerchantName)
	}
	if txn.Category != "" {
		parts = append(parts, fmt.Sprintf("category: %s", txn.Category))
	}
	if txn.Subcategory != "" {
		parts = append(parts, fmt.Sprintf("subcategory: %s", txn.Subcategory))
	}
	if txn.Description != "" {
		parts = append(parts, txn.Description)
	}

	if txn.Amount.Cents < 0 {
		parts = append(parts, fmt.Sprintf("expense of $%.2f", txn.Amount.AbsDollars()))
	} else {
		parts = append(parts, fmt.Sprintf("income of $%.2f", txn.Amount.Dollars()))
	}

	return strings.Join(parts, " ")
}
