package domain

import (
	"time"

	"github.com/google/uuid"
)

// IdeaVersion is a textual snapshot of an idea's synthesis at a point in
// time. Immutable once created; the version sequence of an idea is its
// append-only evolution history.
type IdeaVersion struct {
	id              uuid.UUID
	ideaID          uuid.UUID
	versionNumber   int
	stage           IdeaStatus
	synthesizedText string
	reasoningLog    string
	language        string
	createdAt       time.Time
}

// NewIdeaVersion creates a version snapshot.
func NewIdeaVersion(
	ideaID uuid.UUID, versionNumber int, stage IdeaStatus,
	synthesizedText, reasoningLog, language string,
) IdeaVersion {
	return IdeaVersion{
		id:              uuid.New(),
		ideaID:          ideaID,
		versionNumber:   versionNumber,
		stage:           stage,
		synthesizedText: synthesizedText,
		reasoningLog:    reasoningLog,
		language:        language,
		createdAt:       time.Now().UTC(),
	}
}

// ReconstructIdeaVersion hydrates a version from storage without validation.
func ReconstructIdeaVersion(
	id, ideaID uuid.UUID, versionNumber int, stage IdeaStatus,
	synthesizedText, reasoningLog, language string, createdAt time.Time,
) IdeaVersion {
	return IdeaVersion{
		id: id, ideaID: ideaID, versionNumber: versionNumber, stage: stage,
		synthesizedText: synthesizedText, reasoningLog: reasoningLog,
		language: language, createdAt: createdAt,
	}
}

// ID returns the version identifier.
func (v *IdeaVersion) ID() uuid.UUID { return v.id }

// IdeaID returns the owning idea.
func (v *IdeaVersion) IdeaID() uuid.UUID { return v.ideaID }

// VersionNumber returns the 1-based, strictly increasing sequence number.
func (v *IdeaVersion) VersionNumber() int { return v.versionNumber }

// Stage returns the idea status at creation time.
func (v *IdeaVersion) Stage() IdeaStatus { return v.stage }

// SynthesizedText returns the synthesis text.
func (v *IdeaVersion) SynthesizedText() string { return v.synthesizedText }

// ReasoningLog returns the synthesis reasoning trail.
func (v *IdeaVersion) ReasoningLog() string { return v.reasoningLog }

// Language returns the version language.
func (v *IdeaVersion) Language() string { return v.language }

// CreatedAt returns the creation timestamp.
func (v *IdeaVersion) CreatedAt() time.Time { return v.createdAt }
