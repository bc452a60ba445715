package ideation

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/db"
	"github.com/noema-labs/noema/internal/domain"
)

// store is the consumer interface for the ideation aggregate (ISP).
//
//nolint:interfacebloat // ideas, fragments and versions persist as one unit
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	RPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LLen(ctx context.Context, key string) (int64, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo persists ideas, fragments and version history, and serves
// space-scoped candidate search over idea centroids.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates an ideation repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// EnsureIndex creates the idea centroid index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	exists, err := r.store.IndexExists(ctx, ideaIndexName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:     ideaIndexName,
		Prefixes: []string{ideaKey("")},
		Fields: []db.IndexField{
			{Name: "space", Type: db.IndexFieldTag},
			{
				Name:              "vector",
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         r.vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct,
			},
		},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create idea index: %w", err)
	}
	return nil
}

// SearchCandidates returns ideas ordered descending by cosine similarity
// to the vector, scoped to spaceID.
func (r *Repo) SearchCandidates(
	ctx context.Context, vector []float32, limit int, spaceID uuid.UUID,
) ([]domain.Candidate, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName: ideaIndexName,
		SpaceTag:  spaceID.String(),
		Vector:    vector,
		K:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("knn ideas: %w", err)
	}

	candidates := make([]domain.Candidate, 0, len(result.Entries))
	for _, entry := range result.Entries {
		idea, err := ideaFromHash(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse idea %s: %w", entry.Key, err)
		}
		candidates = append(candidates, domain.Candidate{Idea: idea, Similarity: entry.Score})
	}

	// FT.SEARCH returns ascending by distance; keep the descending
	// similarity contract explicit.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	return candidates, nil
}

// SaveIdea upserts an idea hash, centroid included.
func (r *Repo) SaveIdea(ctx context.Context, idea *domain.Idea) error {
	if err := r.store.HSet(ctx, ideaKey(idea.ID().String()), ideaToHash(idea)); err != nil {
		return fmt.Errorf("hset idea %s: %w", idea.ID(), err)
	}
	return nil
}

// GetIdea retrieves an idea by id.
func (r *Repo) GetIdea(ctx context.Context, id uuid.UUID) (domain.Idea, error) {
	m, err := r.store.HGetAll(ctx, ideaKey(id.String()))
	if err != nil {
		return domain.Idea{}, fmt.Errorf("hgetall idea %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Idea{}, domain.ErrIdeaNotFound
	}
	return ideaFromHash(m)
}

// ListIdeas returns all ideas in a space sorted by CreatedAt.
func (r *Repo) ListIdeas(ctx context.Context, spaceID uuid.UUID) ([]domain.Idea, error) {
	keys, err := r.store.Scan(ctx, ideaKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan ideas: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Idea{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi ideas: %w", err)
	}

	ideas := make([]domain.Idea, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		idea, err := ideaFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse idea %s: %w", keys[i], err)
		}
		if idea.SpaceID() != spaceID {
			continue
		}
		ideas = append(ideas, idea)
	}

	sort.Slice(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt().Before(ideas[j].CreatedAt())
	})

	return ideas, nil
}

// SaveFragment upserts a fragment hash.
func (r *Repo) SaveFragment(ctx context.Context, fragment *domain.Fragment) error {
	if err := r.store.HSet(ctx, fragmentKey(fragment.ID().String()), fragmentToHash(fragment)); err != nil {
		return fmt.Errorf("hset fragment %s: %w", fragment.ID(), err)
	}
	return nil
}

// GetFragment retrieves a fragment by id.
func (r *Repo) GetFragment(ctx context.Context, id uuid.UUID) (domain.Fragment, error) {
	m, err := r.store.HGetAll(ctx, fragmentKey(id.String()))
	if err != nil {
		return domain.Fragment{}, fmt.Errorf("hgetall fragment %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Fragment{}, domain.ErrFragmentNotFound
	}
	return fragmentFromHash(m)
}

// SaveIdeaVersion appends a version snapshot to the idea's history.
func (r *Repo) SaveIdeaVersion(ctx context.Context, version *domain.IdeaVersion) error {
	row, err := versionToJSON(version)
	if err != nil {
		return err
	}
	if err := r.store.RPush(ctx, versionsKey(version.IdeaID().String()), row); err != nil {
		return fmt.Errorf("rpush version for idea %s: %w", version.IdeaID(), err)
	}
	return nil
}

// GetLatestVersion returns the highest-numbered version, or found=false if
// the idea has none. History is append-only, so the tail is the latest.
func (r *Repo) GetLatestVersion(ctx context.Context, ideaID uuid.UUID) (domain.IdeaVersion, bool, error) {
	rows, err := r.store.LRange(ctx, versionsKey(ideaID.String()), -1, -1)
	if err != nil {
		return domain.IdeaVersion{}, false, fmt.Errorf("lrange versions for idea %s: %w", ideaID, err)
	}
	if len(rows) == 0 {
		return domain.IdeaVersion{}, false, nil
	}

	v, err := versionFromJSON(rows[0])
	if err != nil {
		return domain.IdeaVersion{}, false, err
	}
	return v, true, nil
}

// ListIdeaVersions returns the full version history in ascending order.
func (r *Repo) ListIdeaVersions(ctx context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error) {
	rows, err := r.store.LRange(ctx, versionsKey(ideaID.String()), 0, -1)
	if err != nil {
		return nil, fmt.Errorf("lrange versions for idea %s: %w", ideaID, err)
	}

	versions := make([]domain.IdeaVersion, 0, len(rows))
	for _, row := range rows {
		v, err := versionFromJSON(row)
		if err != nil {
			return nil, err
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// CountVersions returns the number of versions an idea has.
func (r *Repo) CountVersions(ctx context.Context, ideaID uuid.UUID) (int, error) {
	n, err := r.store.LLen(ctx, versionsKey(ideaID.String()))
	if err != nil {
		return 0, fmt.Errorf("llen versions for idea %s: %w", ideaID, err)
	}
	return int(n), nil
}

// Redis key patterns: noema:idea:{id}, noema:fragment:{id}, noema:idea_versions:{ideaId}

const ideaIndexName = domain.KeyPrefix + "ideas:idx"

func ideaKey(id string) string {
	return domain.KeyPrefix + "idea:" + id
}

func fragmentKey(id string) string {
	return domain.KeyPrefix + "fragment:" + id
}

func versionsKey(ideaID string) string {
	return domain.KeyPrefix + "idea_versions:" + ideaID
}
