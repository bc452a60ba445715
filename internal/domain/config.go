package domain

// KeyPrefix namespaces all storage keys.
const KeyPrefix = "noema:"

// VectorConfig holds internal vectorization settings, not exposed to clients.
type VectorConfig struct {
	Model      string
	Dimensions int
	Metric     string
}

// DefaultVectorConfig returns the default embedding configuration.
func DefaultVectorConfig() VectorConfig {
	return VectorConfig{
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		Metric:     "COSINE",
	}
}
