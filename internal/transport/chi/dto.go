package chi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/usecase/maturity"
	"github.com/noema-labs/noema/internal/usecase/replay"
)

type decisionResponse struct {
	FragmentID   string   `json:"fragment_id"`
	Action       string   `json:"action"`
	TargetIdeaID string   `json:"target_idea_id,omitempty"`
	Confidence   float64  `json:"confidence"`
	Reasoning    string   `json:"reasoning"`
	RuleID       string   `json:"rule_id"`
	Constraints  []string `json:"constraints,omitempty"`
}

// decisionToResponse renders a decision. The fragment id is derived from the
// text so callers can chase history and replay without a second lookup.
func decisionToResponse(fragmentID uuid.UUID, dec domain.DecisionResult) decisionResponse {
	resp := decisionResponse{
		FragmentID:  fragmentID.String(),
		Action:      string(dec.Action),
		Confidence:  dec.Confidence,
		Reasoning:   dec.Reasoning,
		RuleID:      dec.RuleID,
		Constraints: dec.Constraints,
	}
	if dec.HasTarget() {
		resp.TargetIdeaID = dec.TargetIdeaID.String()
	}
	return resp
}

type maturityResponse struct {
	Score int    `json:"score"`
	Label string `json:"label"`
	Ready bool   `json:"ready"`
}

type ideaResponse struct {
	ID               string            `json:"id"`
	TitleProvisional string            `json:"title_provisional"`
	Domain           string            `json:"domain"`
	Status           string            `json:"status"`
	SpaceID          string            `json:"space_id"`
	Language         string            `json:"language"`
	FragmentCount    int               `json:"fragment_count"`
	VersionCount     int               `json:"version_count"`
	Maturity         *maturityResponse `json:"maturity,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// ideaToResponse enriches an idea with its maturity score. A failing version
// count degrades to a response without maturity rather than failing the read.
func (s *Server) ideaToResponse(r *http.Request, idea domain.Idea, now time.Time) ideaResponse {
	resp := ideaResponse{
		ID:               idea.ID().String(),
		TitleProvisional: idea.TitleProvisional(),
		Domain:           idea.Domain(),
		Status:           string(idea.Status()),
		SpaceID:          idea.SpaceID().String(),
		Language:         idea.Language(),
		FragmentCount:    idea.Profile().FragmentCount(),
		CreatedAt:        idea.CreatedAt().UTC(),
		UpdatedAt:        idea.UpdatedAt().UTC(),
	}

	versionCount, err := s.ideas.CountVersions(r.Context(), idea.ID())
	if err != nil {
		s.logger.Warn("count versions failed",
			zap.String("idea_id", idea.ID().String()), zap.Error(err))
		return resp
	}
	resp.VersionCount = versionCount

	score := maturity.Score(idea, resp.FragmentCount, versionCount, now)
	resp.Maturity = &maturityResponse{
		Score: score,
		Label: string(maturity.LabelFor(score)),
		Ready: maturity.Ready(score, 0),
	}
	return resp
}

type versionResponse struct {
	ID              string    `json:"id"`
	IdeaID          string    `json:"idea_id"`
	VersionNumber   int       `json:"version_number"`
	Stage           string    `json:"stage"`
	SynthesizedText string    `json:"synthesized_text"`
	ReasoningLog    string    `json:"reasoning_log"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
}

func versionToResponse(v *domain.IdeaVersion) versionResponse {
	return versionResponse{
		ID:              v.ID().String(),
		IdeaID:          v.IdeaID().String(),
		VersionNumber:   v.VersionNumber(),
		Stage:           string(v.Stage()),
		SynthesizedText: v.SynthesizedText(),
		ReasoningLog:    v.ReasoningLog(),
		Language:        v.Language(),
		CreatedAt:       v.CreatedAt().UTC(),
	}
}

type logEntryResponse struct {
	FragmentID   string    `json:"fragment_id"`
	TargetIdeaID string    `json:"target_idea_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Action       string    `json:"action"`
	Confidence   float64   `json:"confidence"`
	RuleID       string    `json:"rule_id"`
	Reasoning    string    `json:"reasoning"`
	Constraints  []string  `json:"constraints,omitempty"`
}

func logEntryToResponse(e *domain.LogEntry) logEntryResponse {
	resp := logEntryResponse{
		FragmentID:  e.FragmentID.String(),
		Timestamp:   e.Timestamp.UTC(),
		Action:      string(e.Action),
		Confidence:  e.Confidence,
		RuleID:      e.RuleID,
		Reasoning:   e.Reasoning,
		Constraints: e.Constraints,
	}
	if e.TargetIdeaID != uuid.Nil {
		resp.TargetIdeaID = e.TargetIdeaID.String()
	}
	return resp
}

type spaceResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func spaceToResponse(sp *domain.Space) spaceResponse {
	return spaceResponse{
		ID:          sp.ID().String(),
		Name:        sp.Name(),
		Description: sp.Description(),
		Color:       sp.Color(),
		CreatedAt:   sp.CreatedAt().UTC(),
	}
}

type replaySummary struct {
	Action       string  `json:"action"`
	TargetIdeaID string  `json:"target_idea_id,omitempty"`
	Confidence   float64 `json:"confidence"`
	RuleID       string  `json:"rule_id"`
	Reasoning    string  `json:"reasoning"`
}

type replayResponse struct {
	FragmentID     string         `json:"fragment_id"`
	EngineVersion  string         `json:"engine_version"`
	RuleSetVersion string         `json:"rule_set_version"`
	Original       *replaySummary `json:"original,omitempty"`
	Replayed       replaySummary  `json:"replayed"`
	DriftDetected  bool           `json:"drift_detected"`
	DriftReason    string         `json:"drift_reason,omitempty"`
}

func replayToResponse(report replay.Report) replayResponse {
	resp := replayResponse{
		FragmentID:     report.FragmentID.String(),
		EngineVersion:  report.EngineVersion,
		RuleSetVersion: report.RuleSetVersion,
		Replayed:       summaryToResponse(report.Replayed),
		DriftDetected:  report.DriftDetected,
		DriftReason:    report.DriftReason,
	}
	if report.Original != nil {
		orig := summaryToResponse(*report.Original)
		resp.Original = &orig
	}
	return resp
}

func summaryToResponse(s replay.Summary) replaySummary {
	resp := replaySummary{
		Action:     string(s.Action),
		Confidence: s.Confidence,
		RuleID:     s.RuleID,
		Reasoning:  s.Reasoning,
	}
	if s.TargetIdeaID != uuid.Nil {
		resp.TargetIdeaID = s.TargetIdeaID.String()
	}
	return resp
}
