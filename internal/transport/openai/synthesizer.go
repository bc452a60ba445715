package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/noema-labs/noema/internal/domain"
	"github.com/noema-labs/noema/internal/metrics"
)

// Synthesizer produces idea titles and version syntheses via the
// OpenAI-compatible chat completions API.
type Synthesizer struct {
	client   *openai.Client
	model    string
	user     string
	provider string
	logger   *zap.Logger
}

// NewSynthesizer creates an OpenAI-compatible synthesis provider.
func NewSynthesizer(cfg *Config) *Synthesizer {
	return &Synthesizer{
		client:   newClient(cfg),
		model:    cfg.ChatModel,
		user:     cfg.User,
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Synthesize implements domain.Synthesizer.
func (s *Synthesizer) Synthesize(ctx context.Context, contextText, task, language string) (string, error) {
	prompt := buildPrompt(contextText, task, language)

	content, err := s.complete(ctx, prompt, false)
	if err != nil {
		return "", err
	}
	return content, nil
}

// GenerateJSON implements domain.Synthesizer. The response is requested in
// JSON mode and decoded into a generic map.
func (s *Synthesizer) GenerateJSON(ctx context.Context, contextText, task, language string) (map[string]any, error) {
	prompt := buildPrompt(contextText, task, language)

	content, err := s.complete(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, fmt.Errorf("decode JSON response: %v: %w", err, domain.ErrModel)
	}
	return out, nil
}

// Name implements domain.Synthesizer.
func (s *Synthesizer) Name() string {
	return s.provider + "/" + s.model
}

func (s *Synthesizer) complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		User: s.user,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	start := time.Now()

	resp, err := s.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.SynthesisRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", classifyError(err, "chat completion", domain.ErrModel)
	}
	if len(resp.Choices) == 0 {
		metrics.SynthesisRequestsTotal.WithLabelValues(s.provider, s.model, "error").Inc()
		return "", fmt.Errorf("empty completion response: %w", domain.ErrModel)
	}

	metrics.SynthesisRequestsTotal.WithLabelValues(s.provider, s.model, "success").Inc()
	metrics.SynthesisRequestDuration.WithLabelValues(s.provider, s.model).Observe(duration.Seconds())

	s.logger.Debug("Synthesis completed",
		zap.String("model", s.model),
		zap.Duration("duration", duration),
		zap.Int("prompt_chars", len(prompt)),
	)

	return resp.Choices[0].Message.Content, nil
}

// PromptTemplateHash identifies the current prompt template. Recorded as a
// provenance constraint so replays can tell template changes apart from rule
// changes.
func PromptTemplateHash() string {
	sum := sha256.Sum256([]byte(buildPrompt("", "", "en")))
	return hex.EncodeToString(sum[:8])
}

func buildPrompt(contextText, task, language string) string {
	instruction := "INSTRUCTION: Output strictly in English."
	if language == "es" {
		instruction = "INSTRUCCIÓN: Responde estrictamente en Español."
	}
	return fmt.Sprintf("%s\n\nContext:\n%s\n\nTask:\n%s", instruction, contextText, task)
}
