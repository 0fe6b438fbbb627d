package core

import (
	"errors"
	"fmt"
)

// ErrKind classifies a processing failure. The consumer branches on the
// kind, never on error strings.
type ErrKind string

const (
	// ErrKindConnectivity covers broker/store unreachability that survived
	// the connection layer's bounded retries.
	ErrKindConnectivity ErrKind = "connectivity_failure"
	// ErrKindMalformedMessage marks an undecodable queue payload.
	ErrKindMalformedMessage ErrKind = "malformed_message"
	// ErrKindNotFound marks a referenced transaction that does not exist.
	ErrKindNotFound ErrKind = "not_found"
	// ErrKindEmbeddingWrite marks a failed vector-store write; the
	// relational part of the same operation still commits.
	ErrKindEmbeddingWrite ErrKind = "embedding_write_failure"
	// ErrKindUnexpected is everything else during processing.
	ErrKindUnexpected ErrKind = "unexpected_failure"
)

// Requeueable reports whether a message failing with this kind should go
// back to the broker for redelivery. Only transient conditions qualify;
// logical failures are terminal and acknowledged.
func (k ErrKind) Requeueable() bool {
	return k == ErrKindConnectivity || k == ErrKindUnexpected
}

// Error is a classified processing error.
type Error struct {
	Kind ErrKind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with a kind.
func NewError(kind ErrKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// ErrTransactionNotFound is returned by the storage layer when a fetch by
// id matches no row.
var ErrTransactionNotFound = errors.New("transaction not found")
