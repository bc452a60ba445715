// Package evolution implements lifecycle phase-transition detection.
package evolution

import (
	"strings"

	"github.com/noema-labs/noema/internal/domain"
)

// TensionMarker is the literal, case-sensitive substring that flags a
// contradiction in synthesized text.
const TensionMarker = "BUT"

// DensityThreshold is the version count at which a germinal idea moves to
// exploration.
const DensityThreshold = 3

// Detector inspects an idea and its newest version for phase transitions.
// Pure and stateless: rules are evaluated in declared order and the first
// match wins, so at most one transition is reported per call.
type Detector struct{}

// NewDetector creates a phase-transition detector.
func NewDetector() *Detector { return &Detector{} }

// DetectTransition returns the first matching transition for the idea given
// its latest version, or false if no rule fires. The rules re-evaluate
// purely from current inputs; an idea already in tension whose synthesis
// still carries the marker reports the tension event again.
func (d *Detector) DetectTransition(idea domain.Idea, latest domain.IdeaVersion) (domain.PhaseEvent, bool) {
	// Density: enough accumulated versions to leave the germinal phase.
	if idea.Status() == domain.StatusGerminal && latest.VersionNumber() >= DensityThreshold {
		return domain.PhaseEvent{
			IdeaID:   idea.ID(),
			OldPhase: domain.StatusGerminal,
			NewPhase: domain.StatusExploration,
			Reason:   "Density reached (3+ versions)",
		}, true
	}

	// Tension: the synthesis contradicts itself.
	if strings.Contains(latest.SynthesizedText(), TensionMarker) {
		return domain.PhaseEvent{
			IdeaID:   idea.ID(),
			OldPhase: idea.Status(),
			NewPhase: domain.StatusTension,
			Reason:   "Contradiction detected in synthesis",
		}, true
	}

	return domain.PhaseEvent{}, false
}
