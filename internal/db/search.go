package db

// KNNQuery is the input for vector similarity search. SpaceTag, when
// set, pre-filters candidates to a single space before the KNN pass.
type KNNQuery struct {
	IndexName    string
	SpaceTag     string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. Score is cosine
// similarity in [0,1].
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
