package domain

import "errors"

var (
	// ErrEmbedding signals an embedding enrichment failure that is not a connectivity issue.
	ErrEmbedding = errors.New("embedding failed")
	// ErrNetwork signals a connectivity failure reaching the AI provider.
	ErrNetwork = errors.New("network failure")
	// ErrDatabase signals a candidate-search or persistence failure.
	ErrDatabase = errors.New("database failure")
	// ErrModel signals a decision-logic or synthesis failure.
	ErrModel = errors.New("model failure")

	// ErrDimensionMismatch signals a vector of the wrong dimensionality.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
	// ErrIdeaNotFound signals a missing idea.
	ErrIdeaNotFound = errors.New("idea not found")
	// ErrFragmentNotFound signals a missing fragment.
	ErrFragmentNotFound = errors.New("fragment not found")
	// ErrSpaceNotFound signals a missing space.
	ErrSpaceNotFound = errors.New("space not found")
	// ErrNoHistory signals a fragment with no ledger entries.
	ErrNoHistory = errors.New("no decision history")
	// ErrNoEmbedding signals a fragment without an embedding where one is required.
	ErrNoEmbedding = errors.New("fragment has no embedding")
	// ErrInvalidMode signals an unknown decision mode.
	ErrInvalidMode = errors.New("invalid decision mode")
)
