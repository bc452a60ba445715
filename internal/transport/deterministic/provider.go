// Package deterministic provides an offline AI provider. Embeddings are
// content-derived pseudo-random unit vectors, synthesis is a truncation of
// the input. Identical input always produces identical output, which keeps
// replay verification exact in local mode.
package deterministic

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/noema-labs/noema/internal/domain"
)

// Provider implements domain.Embedder and domain.Synthesizer without any
// external service.
type Provider struct {
	dimensions int
}

// New creates a deterministic provider producing vectors of the given size.
func New(dimensions int) *Provider {
	if dimensions <= 0 {
		dimensions = domain.DefaultVectorConfig().Dimensions
	}
	return &Provider{dimensions: dimensions}
}

// Embed derives a unit vector from the text content.
func (p *Provider) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec := make([]float32, p.dimensions)

	seed := sha256.Sum256([]byte(text))
	block := seed[:]
	var norm float64

	for i := range vec {
		if i%4 == 0 && i > 0 {
			next := sha256.Sum256(block)
			block = next[:]
		}
		bits := binary.LittleEndian.Uint32(block[(i%4)*8:])
		// map uint32 to [-1, 1)
		v := float64(bits)/float64(math.MaxUint32)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}

	norm = math.Sqrt(norm)
	if norm == 0 {
		// cannot happen for sha256 output, but a zero vector would poison cosine space
		vec[0] = 1
	} else {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}

	return domain.EmbeddingResult{Embedding: vec}, nil
}

// Synthesize returns a deterministic text derived from the context.
func (p *Provider) Synthesize(_ context.Context, contextText, task, _ string) (string, error) {
	const maxLen = 80
	snippet := contextText
	if len(snippet) > maxLen {
		snippet = snippet[:maxLen] + "..."
	}
	return fmt.Sprintf("[%s] %s", task, snippet), nil
}

// GenerateJSON returns a fixed single-section structure.
func (p *Provider) GenerateJSON(_ context.Context, contextText, task, _ string) (map[string]any, error) {
	snippet := contextText
	if len(snippet) > 40 {
		snippet = snippet[:40]
	}
	return map[string]any{
		"task":    task,
		"summary": snippet,
	}, nil
}

// Name implements domain.Synthesizer.
func (p *Provider) Name() string { return "deterministic" }

// HealthCheck always succeeds.
func (p *Provider) HealthCheck(_ context.Context) error { return nil }
