package noema

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory" or "redis"
	addrs    []string
	username string
	password string
	db       int

	provider  string // "deterministic" or "openai"
	apiKey    string
	baseURL   string
	embModel  string
	chatModel string

	embedder Embedder

	vectorDimensions int
	hnswM            int
	hnswEFConstruct  int
	cacheTTL         time.Duration

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance. Without
// this option the client runs on the embedded in-memory store.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedisAuth sets the username and logical database for the Redis
// connection.
func WithRedisAuth(username string, db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.db = db
	})
}

// WithOpenAI configures an OpenAI-compatible provider for embeddings and
// synthesis. baseURL may be empty for the official endpoint.
func WithOpenAI(apiKey, baseURL, embeddingModel, chatModel string) Option {
	return optionFunc(func(c *clientConfig) {
		c.provider = "openai"
		c.apiKey = apiKey
		c.baseURL = baseURL
		c.embModel = embeddingModel
		c.chatModel = chatModel
	})
}

// WithEmbedder overrides the embedding provider with a custom one.
// Synthesis still uses the configured provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions sets the embedding dimension.
// Defaults to 1536 (text-embedding-3-small).
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.vectorDimensions = dim
	})
}

// WithHNSW configures HNSW index parameters for the Redis candidate index.
// Defaults: M=16, EFConstruct=200.
func WithHNSW(m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.hnswM = m
		c.hnswEFConstruct = efConstruct
	})
}

// WithEmbeddingCacheTTL bounds the lifetime of cached embeddings on the
// Redis driver. Zero keeps entries forever.
func WithEmbeddingCacheTTL(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheTTL = ttl
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
