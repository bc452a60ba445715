package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdeaStatus is the lifecycle phase of an Idea.
type IdeaStatus string

// Lifecycle phases. The ingestion pipeline only drives germinal→exploration
// and <any>→tension; the remaining phases are reachable through
// administrative updates only.
const (
	StatusGerminal     IdeaStatus = "germinal"
	StatusExploration  IdeaStatus = "exploration"
	StatusTension      IdeaStatus = "tension"
	StatusAdjustment   IdeaStatus = "ajuste"
	StatusMaturation   IdeaStatus = "maduración"
	StatusConsolidated IdeaStatus = "consolidada"
	StatusDiscarded    IdeaStatus = "descartada"
)

// DefaultDomain is the classification tag for unclassified ideas.
const DefaultDomain = "Unclassified"

// Idea is a semantic cluster of fragments. Its identity is derived from the
// seed fragment, and its profile is owned exclusively by the idea.
type Idea struct {
	id               uuid.UUID
	titleProvisional string
	domain           string
	status           IdeaStatus
	profile          SemanticProfile
	spaceID          uuid.UUID
	language         string
	createdAt        time.Time
	updatedAt        time.Time
}

// NewIdea creates a germinal Idea seeded from a single fragment.
func NewIdea(seedFragmentID uuid.UUID, title string, profile SemanticProfile, spaceID uuid.UUID, language string) Idea {
	now := time.Now().UTC()
	return Idea{
		id:               IdeaID(seedFragmentID),
		titleProvisional: title,
		domain:           DefaultDomain,
		status:           StatusGerminal,
		profile:          profile,
		spaceID:          spaceID,
		language:         language,
		createdAt:        now,
		updatedAt:        now,
	}
}

// ReconstructIdea hydrates an Idea from storage without validation.
func ReconstructIdea(
	id uuid.UUID, title, ideaDomain string, status IdeaStatus,
	profile SemanticProfile, spaceID uuid.UUID, language string,
	createdAt, updatedAt time.Time,
) Idea {
	return Idea{
		id: id, titleProvisional: title, domain: ideaDomain, status: status,
		profile: profile, spaceID: spaceID, language: language,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

// ID returns the idea identifier.
func (i *Idea) ID() uuid.UUID { return i.id }

// TitleProvisional returns the provisional title.
func (i *Idea) TitleProvisional() string { return i.titleProvisional }

// Domain returns the classification tag.
func (i *Idea) Domain() string { return i.domain }

// Status returns the current lifecycle phase.
func (i *Idea) Status() IdeaStatus { return i.status }

// Profile returns the semantic profile.
func (i *Idea) Profile() SemanticProfile { return i.profile }

// SpaceID returns the knowledge-space scope.
func (i *Idea) SpaceID() uuid.UUID { return i.spaceID }

// Language returns the idea language.
func (i *Idea) Language() string { return i.language }

// CreatedAt returns the creation timestamp.
func (i *Idea) CreatedAt() time.Time { return i.createdAt }

// UpdatedAt returns the last modification timestamp.
func (i *Idea) UpdatedAt() time.Time { return i.updatedAt }

// ReplaceProfile swaps the semantic profile for an updated value.
func (i *Idea) ReplaceProfile(p SemanticProfile) {
	i.profile = p
	i.updatedAt = time.Now().UTC()
}

// TransitionTo moves the idea into a new lifecycle phase.
func (i *Idea) TransitionTo(status IdeaStatus) {
	i.status = status
	i.updatedAt = time.Now().UTC()
}
