package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Space is an isolated knowledge scope. Candidate search never crosses
// space boundaries.
type Space struct {
	id          uuid.UUID
	name        string
	description string
	color       string
	createdAt   time.Time
}

// NewSpace validates and creates a Space.
func NewSpace(name, description, color string) (Space, error) {
	if name == "" {
		return Space{}, fmt.Errorf("space name is required")
	}
	if color == "" {
		color = "#cbd5e1"
	}
	return Space{
		id:          uuid.New(),
		name:        name,
		description: description,
		color:       color,
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructSpace hydrates a Space from storage without validation.
func ReconstructSpace(id uuid.UUID, name, description, color string, createdAt time.Time) Space {
	return Space{id: id, name: name, description: description, color: color, createdAt: createdAt}
}

// ID returns the space identifier.
func (s *Space) ID() uuid.UUID { return s.id }

// Name returns the space name.
func (s *Space) Name() string { return s.name }

// Description returns the space description.
func (s *Space) Description() string { return s.description }

// Color returns the display color.
func (s *Space) Color() string { return s.color }

// CreatedAt returns the creation timestamp.
func (s *Space) CreatedAt() time.Time { return s.createdAt }
