package noema

import "context"

// mockEmbedder maps whole input texts to fixed unit vectors so tests can
// steer similarity exactly.
type mockEmbedder struct {
	fn func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.fn(ctx, text)
}

// Fixture vectors. All unit length, so cosine similarity is the dot
// product: near/anchor = 0.96, mid/anchor = 0.60, far/anchor = 0.
var testVectors = map[string][]float32{
	"anchor thought": {1, 0, 0, 0},
	"near thought":   {0.96, 0.28, 0, 0},
	"mid thought":    {0.6, 0.8, 0, 0},
	"far thought":    {0, 0, 1, 0},
}

func fixtureEmbedder() *mockEmbedder {
	return &mockEmbedder{
		fn: func(_ context.Context, text string) ([]float32, error) {
			v, ok := testVectors[text]
			if !ok {
				return []float32{0, 0, 0, 1}, nil
			}
			return v, nil
		},
	}
}
