package noema

import "github.com/noema-labs/noema/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmbedding         = domain.ErrEmbedding
	ErrNetwork           = domain.ErrNetwork
	ErrDatabase          = domain.ErrDatabase
	ErrModel             = domain.ErrModel
	ErrDimensionMismatch = domain.ErrDimensionMismatch
	ErrIdeaNotFound      = domain.ErrIdeaNotFound
	ErrFragmentNotFound  = domain.ErrFragmentNotFound
	ErrSpaceNotFound     = domain.ErrSpaceNotFound
	ErrNoHistory         = domain.ErrNoHistory
	ErrNoEmbedding       = domain.ErrNoEmbedding
	ErrInvalidMode       = domain.ErrInvalidMode
)
