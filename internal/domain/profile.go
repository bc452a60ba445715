package domain

import "fmt"

// SemanticProfile is the aggregated semantic state of an Idea: the running
// mean of every fragment embedding ever attached to it. A value object:
// Update returns a replacement instead of mutating in place.
type SemanticProfile struct {
	centroid      []float32
	fragmentCount int
}

// NewSemanticProfile seeds a profile from the first fragment embedding.
func NewSemanticProfile(centroid []float32) SemanticProfile {
	c := make([]float32, len(centroid))
	copy(c, centroid)
	return SemanticProfile{centroid: c, fragmentCount: 1}
}

// ReconstructSemanticProfile hydrates a profile from storage without validation.
func ReconstructSemanticProfile(centroid []float32, fragmentCount int) SemanticProfile {
	return SemanticProfile{centroid: centroid, fragmentCount: fragmentCount}
}

// Centroid returns the mean vector over all contributing fragments.
func (p SemanticProfile) Centroid() []float32 { return p.centroid }

// FragmentCount returns the number of contributing fragments.
func (p SemanticProfile) FragmentCount() int { return p.fragmentCount }

// Update returns a new profile folding newVector into the running mean:
// centroid'[i] = (centroid[i]*count + newVector[i]) / (count+1).
// The receiver is never modified.
func (p SemanticProfile) Update(newVector []float32) (SemanticProfile, error) {
	if len(newVector) != len(p.centroid) {
		return SemanticProfile{}, fmt.Errorf(
			"update profile: got %d dimensions, want %d: %w",
			len(newVector), len(p.centroid), ErrDimensionMismatch,
		)
	}

	newCount := p.fragmentCount + 1
	centroid := make([]float32, len(p.centroid))
	for i, old := range p.centroid {
		centroid[i] = float32((float64(old)*float64(p.fragmentCount) + float64(newVector[i])) / float64(newCount))
	}

	return SemanticProfile{centroid: centroid, fragmentCount: newCount}, nil
}
