package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Synthesizer produces text and structured output from the AI provider.
type Synthesizer interface {
	// Synthesize generates text for the given context and task label.
	Synthesize(ctx context.Context, contextText, task, language string) (string, error)
	// GenerateJSON generates a structured object for the given context and task label.
	GenerateJSON(ctx context.Context, contextText, task, language string) (map[string]any, error)
	// Name identifies the provider for provenance tagging.
	Name() string
}

// HealthChecker verifies AI provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries the embedding vector and token usage through the
// decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
