package ideation

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// ideaToHash converts a domain Idea to a map for HSET. The centroid is
// stored twice in spirit but once in bytes: the "vector" field doubles as
// FT index input and profile storage.
func ideaToHash(idea *domain.Idea) map[string]string {
	profile := idea.Profile()
	return map[string]string{
		"id":             idea.ID().String(),
		"title":          idea.TitleProvisional(),
		"domain":         idea.Domain(),
		"status":         string(idea.Status()),
		"space":          idea.SpaceID().String(),
		"language":       idea.Language(),
		"fragment_count": strconv.Itoa(profile.FragmentCount()),
		"vector":         vectorToBlob(profile.Centroid()),
		"created_at":     strconv.FormatInt(idea.CreatedAt().UnixNano(), 10),
		"updated_at":     strconv.FormatInt(idea.UpdatedAt().UnixNano(), 10),
	}
}

// ideaFromHash hydrates a domain Idea from an HGETALL result map.
func ideaFromHash(m map[string]string) (domain.Idea, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid idea id: %w", err)
	}
	spaceID, err := uuid.Parse(m["space"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid idea space: %w", err)
	}

	fragmentCount, err := strconv.Atoi(m["fragment_count"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid fragment_count: %w", err)
	}
	centroid, err := blobToVector(m["vector"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid centroid: %w", err)
	}

	createdAt, err := parseNanoTime(m["created_at"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid created_at: %w", err)
	}
	updatedAt, err := parseNanoTime(m["updated_at"])
	if err != nil {
		return domain.Idea{}, fmt.Errorf("invalid updated_at: %w", err)
	}

	profile := domain.ReconstructSemanticProfile(centroid, fragmentCount)
	return domain.ReconstructIdea(
		id, m["title"], m["domain"], domain.IdeaStatus(m["status"]),
		profile, spaceID, m["language"], createdAt, updatedAt,
	), nil
}

// fragmentToHash converts a domain Fragment to a map for HSET.
func fragmentToHash(f *domain.Fragment) map[string]string {
	return map[string]string{
		"id":         f.ID().String(),
		"text":       f.Text(),
		"source":     f.Source(),
		"space":      f.SpaceID().String(),
		"language":   f.Language(),
		"embedding":  vectorToBlob(f.Embedding()),
		"created_at": strconv.FormatInt(f.CreatedAt().UnixNano(), 10),
		"deleted":    strconv.FormatBool(f.Deleted()),
	}
}

// fragmentFromHash hydrates a domain Fragment from an HGETALL result map.
func fragmentFromHash(m map[string]string) (domain.Fragment, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("invalid fragment id: %w", err)
	}
	spaceID, err := uuid.Parse(m["space"])
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("invalid fragment space: %w", err)
	}

	embedding, err := blobToVector(m["embedding"])
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("invalid embedding: %w", err)
	}
	createdAt, err := parseNanoTime(m["created_at"])
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("invalid created_at: %w", err)
	}
	deleted := m["deleted"] == "true"

	return domain.ReconstructFragment(
		id, m["text"], m["source"], spaceID, m["language"],
		embedding, createdAt, deleted,
	), nil
}

// versionRow is the JSON-serializable representation of a version for RPUSH.
type versionRow struct {
	ID              string `json:"id"`
	IdeaID          string `json:"idea_id"`
	VersionNumber   int    `json:"version_number"`
	Stage           string `json:"stage"`
	SynthesizedText string `json:"synthesized_text"`
	ReasoningLog    string `json:"reasoning_log"`
	Language        string `json:"language"`
	CreatedAt       int64  `json:"created_at"`
}

func versionToJSON(v *domain.IdeaVersion) (string, error) {
	row := versionRow{
		ID:              v.ID().String(),
		IdeaID:          v.IdeaID().String(),
		VersionNumber:   v.VersionNumber(),
		Stage:           string(v.Stage()),
		SynthesizedText: v.SynthesizedText(),
		ReasoningLog:    v.ReasoningLog(),
		Language:        v.Language(),
		CreatedAt:       v.CreatedAt().UnixNano(),
	}
	data, err := json.Marshal(row)
	if err != nil {
		return "", fmt.Errorf("marshal version: %w", err)
	}
	return string(data), nil
}

func versionFromJSON(data string) (domain.IdeaVersion, error) {
	var row versionRow
	if err := json.Unmarshal([]byte(data), &row); err != nil {
		return domain.IdeaVersion{}, fmt.Errorf("unmarshal version: %w", err)
	}

	id, err := uuid.Parse(row.ID)
	if err != nil {
		return domain.IdeaVersion{}, fmt.Errorf("invalid version id: %w", err)
	}
	ideaID, err := uuid.Parse(row.IdeaID)
	if err != nil {
		return domain.IdeaVersion{}, fmt.Errorf("invalid version idea_id: %w", err)
	}

	return domain.ReconstructIdeaVersion(
		id, ideaID, row.VersionNumber, domain.IdeaStatus(row.Stage),
		row.SynthesizedText, row.ReasoningLog, row.Language,
		time.Unix(0, row.CreatedAt).UTC(),
	), nil
}

func parseNanoTime(s string) (time.Time, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, n).UTC(), nil
}

func vectorToBlob(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

func blobToVector(data string) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("invalid vector blob: len=%d (not multiple of 4)", len(data))
	}
	buf := []byte(data)
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec, nil
}
