package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxFragmentSize is the maximum raw fragment size in bytes.
const MaxFragmentSize = 65536 // 64KB

// Fragment is a raw ingested unit of text. Immutable after creation except
// for the soft-delete flag.
type Fragment struct {
	id        uuid.UUID
	text      string
	source    string
	spaceID   uuid.UUID
	language  string
	embedding []float32
	createdAt time.Time
	deleted   bool
}

// NewFragment validates input and creates a Fragment with a deterministic,
// content-derived identifier.
func NewFragment(text, source string, spaceID uuid.UUID, language string) (Fragment, error) {
	if text == "" {
		return Fragment{}, fmt.Errorf("fragment text is required")
	}
	if len(text) > MaxFragmentSize {
		return Fragment{}, fmt.Errorf("fragment too large (max %d bytes)", MaxFragmentSize)
	}
	if source == "" {
		source = "manual"
	}
	if language == "" {
		language = "en"
	}

	return Fragment{
		id:        FragmentID(text),
		text:      text,
		source:    source,
		spaceID:   spaceID,
		language:  language,
		createdAt: time.Now().UTC(),
	}, nil
}

// ReconstructFragment creates a Fragment without validation (storage hydration).
func ReconstructFragment(
	id uuid.UUID, text, source string, spaceID uuid.UUID, language string,
	embedding []float32, createdAt time.Time, deleted bool,
) Fragment {
	return Fragment{
		id: id, text: text, source: source, spaceID: spaceID, language: language,
		embedding: embedding, createdAt: createdAt, deleted: deleted,
	}
}

// ID returns the deterministic fragment identifier.
func (f *Fragment) ID() uuid.UUID { return f.id }

// Text returns the raw text.
func (f *Fragment) Text() string { return f.text }

// Source returns the provenance tag.
func (f *Fragment) Source() string { return f.source }

// SpaceID returns the knowledge-space scope.
func (f *Fragment) SpaceID() uuid.UUID { return f.spaceID }

// Language returns the fragment language.
func (f *Fragment) Language() string { return f.language }

// Embedding returns the embedding vector, nil until enrichment succeeds.
func (f *Fragment) Embedding() []float32 { return f.embedding }

// CreatedAt returns the creation timestamp.
func (f *Fragment) CreatedAt() time.Time { return f.createdAt }

// Deleted reports the soft-delete flag.
func (f *Fragment) Deleted() bool { return f.deleted }

// SetEmbedding sets the embedding vector in place (enrichment).
func (f *Fragment) SetEmbedding(v []float32) { f.embedding = v }

// MarkDeleted sets the soft-delete flag.
func (f *Fragment) MarkDeleted(deleted bool) { f.deleted = deleted }
