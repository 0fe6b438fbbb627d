package amqp

import (
	"encoding/json"
	"fmt"
)

// Recognized message actions.
const (
	// ActionCategorizeAndEmbed asks the worker to enrich one transaction.
	ActionCategorizeAndEmbed = "categorize_and_embed"
	// ActionSync is a recognized trigger point for a future bulk resync.
	// The worker acknowledges it without doing work.
	ActionSync = "sync"
)

// EnrichmentMessage is the queue payload produced by the API when a
// transaction needs enrichment.
type EnrichmentMessage struct {
	Action        string `json:"action"`
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
}

// NewEnrichmentMessage builds a categorize-and-embed request.
func NewEnrichmentMessage(transactionID, userID string) *EnrichmentMessage {
	return &EnrichmentMessage{
		Action:        ActionCategorizeAndEmbed,
		TransactionID: transactionID,
		UserID:        userID,
	}
}

// ToJSON converts the message to JSON bytes.
func (m *EnrichmentMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EnrichmentMessageFromJSON decodes a queue payload. A decode error marks
// the message as poison: it will never parse and must not be redelivered.
func EnrichmentMessageFromJSON(data []byte) (*EnrichmentMessage, error) {
	var msg EnrichmentMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Validate checks the fields required by the declared action.
func (m *EnrichmentMessage) Validate() error {
	switch m.Action {
	case ActionCategorizeAndEmbed:
		if m.TransactionID == "" {
			return fmt.Errorf("missing transaction_id")
		}
		if m.UserID == "" {
			return fmt.Errorf("missing user_id")
		}
		return nil
	case ActionSync:
		return nil
	default:
		return fmt.Errorf("unknown action %q", m.Action)
	}
}
