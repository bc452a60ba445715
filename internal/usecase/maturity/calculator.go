// Package maturity scores how consolidated an idea is from objective
// metrics: accumulated fragments, version churn, age, and classification.
package maturity

import (
	"time"

	"github.com/noema-labs/noema/internal/domain"
)

// Label buckets a maturity score for display.
type Label string

// Maturity labels.
const (
	LabelGerminal Label = "germinal"
	LabelGrowing  Label = "growing"
	LabelMature   Label = "mature"
)

// MinReadyScore is the default threshold for an idea to feed downstream work.
const MinReadyScore = 60

// Score computes a 0-100 maturity score for an idea.
// Fragments contribute up to 40 points, versions up to 30, age in days up
// to 20, and a classified domain adds 10.
func Score(idea domain.Idea, fragmentCount, versionCount int, now time.Time) int {
	score := min(fragmentCount*4, 40)
	score += min(versionCount*6, 30)

	days := int(now.Sub(idea.CreatedAt()).Hours() / 24)
	if days > 0 {
		score += min(days*2, 20)
	}

	if idea.Domain() != "" && idea.Domain() != domain.DefaultDomain {
		score += 10
	}

	return min(score, 100)
}

// LabelFor buckets a score.
func LabelFor(score int) Label {
	switch {
	case score < 30:
		return LabelGerminal
	case score < 70:
		return LabelGrowing
	default:
		return LabelMature
	}
}

// Ready reports whether the score clears the readiness threshold.
func Ready(score, minScore int) bool {
	if minScore <= 0 {
		minScore = MinReadyScore
	}
	return score >= minScore
}
