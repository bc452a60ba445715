package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"github.com/noema-labs/noema/internal/domain"
)

// Store is an in-process driver for development and tests. Ideas,
// fragments, versions, spaces and the ledger live in maps; candidate
// search runs over a chromem-go collection per space.
//
// It satisfies the same consumer contracts as the Redis-backed
// repositories, so services cannot tell the drivers apart.
type Store struct {
	mu sync.RWMutex

	db        *chromem.DB
	ideas     map[uuid.UUID]domain.Idea
	fragments map[uuid.UUID]domain.Fragment
	versions  map[uuid.UUID][]domain.IdeaVersion
	spaces    map[uuid.UUID]domain.Space

	ledger       map[uuid.UUID][]domain.LogEntry
	recentLedger []domain.LogEntry
}

const recentCap = 1000

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		db:        chromem.NewDB(),
		ideas:     make(map[uuid.UUID]domain.Idea),
		fragments: make(map[uuid.UUID]domain.Fragment),
		versions:  make(map[uuid.UUID][]domain.IdeaVersion),
		spaces:    make(map[uuid.UUID]domain.Space),
		ledger:    make(map[uuid.UUID][]domain.LogEntry),
	}
}

// Ping reports readiness. The in-memory store is always ready.
func (s *Store) Ping(_ context.Context) error { return nil }

// EnsureIndex is a no-op: chromem collections are created on demand.
func (s *Store) EnsureIndex(_ context.Context) error { return nil }

// --- candidate search ---

// SearchCandidates returns ideas ordered descending by cosine similarity
// to the vector, scoped to spaceID.
func (s *Store) SearchCandidates(
	ctx context.Context, vector []float32, limit int, spaceID uuid.UUID,
) ([]domain.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	collection := s.db.GetCollection(collectionName(spaceID), nil)
	if collection == nil {
		return []domain.Candidate{}, nil
	}

	count := collection.Count()
	if count == 0 {
		return []domain.Candidate{}, nil
	}
	if limit > count {
		limit = count
	}

	results, err := collection.QueryEmbedding(ctx, vector, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("query space %s: %w", spaceID, err)
	}

	candidates := make([]domain.Candidate, 0, len(results))
	for _, res := range results {
		id, err := uuid.Parse(res.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid idea id %q: %w", res.ID, err)
		}
		idea, ok := s.ideas[id]
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Idea:       idea,
			Similarity: float64(res.Similarity),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	return candidates, nil
}

// --- ideas ---

// SaveIdea upserts an idea and its centroid in the space's collection.
func (s *Store) SaveIdea(ctx context.Context, idea *domain.Idea) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collection, err := s.db.GetOrCreateCollection(collectionName(idea.SpaceID()), nil, nil)
	if err != nil {
		return fmt.Errorf("collection for space %s: %w", idea.SpaceID(), err)
	}

	centroid := idea.Profile().Centroid()
	doc := chromem.Document{
		ID:        idea.ID().String(),
		Content:   idea.TitleProvisional(),
		Embedding: append([]float32(nil), centroid...),
	}
	if err := collection.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("index idea %s: %w", idea.ID(), err)
	}

	s.ideas[idea.ID()] = *idea
	return nil
}

// GetIdea retrieves an idea by id.
func (s *Store) GetIdea(_ context.Context, id uuid.UUID) (domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idea, ok := s.ideas[id]
	if !ok {
		return domain.Idea{}, domain.ErrIdeaNotFound
	}
	return idea, nil
}

// ListIdeas returns all ideas in a space sorted by CreatedAt.
func (s *Store) ListIdeas(_ context.Context, spaceID uuid.UUID) ([]domain.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ideas := make([]domain.Idea, 0)
	for _, idea := range s.ideas {
		if idea.SpaceID() == spaceID {
			ideas = append(ideas, idea)
		}
	}
	sort.Slice(ideas, func(i, j int) bool {
		return ideas[i].CreatedAt().Before(ideas[j].CreatedAt())
	})
	return ideas, nil
}

// --- fragments ---

// SaveFragment upserts a fragment.
func (s *Store) SaveFragment(_ context.Context, fragment *domain.Fragment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fragments[fragment.ID()] = *fragment
	return nil
}

// GetFragment retrieves a fragment by id.
func (s *Store) GetFragment(_ context.Context, id uuid.UUID) (domain.Fragment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.fragments[id]
	if !ok {
		return domain.Fragment{}, domain.ErrFragmentNotFound
	}
	return f, nil
}

// --- versions ---

// SaveIdeaVersion appends a version snapshot to the idea's history.
func (s *Store) SaveIdeaVersion(_ context.Context, version *domain.IdeaVersion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[version.IdeaID()] = append(s.versions[version.IdeaID()], *version)
	return nil
}

// GetLatestVersion returns the highest-numbered version, or found=false if
// the idea has none.
func (s *Store) GetLatestVersion(_ context.Context, ideaID uuid.UUID) (domain.IdeaVersion, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[ideaID]
	if len(history) == 0 {
		return domain.IdeaVersion{}, false, nil
	}
	return history[len(history)-1], true, nil
}

// ListIdeaVersions returns the full version history in ascending order.
func (s *Store) ListIdeaVersions(_ context.Context, ideaID uuid.UUID) ([]domain.IdeaVersion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.versions[ideaID]
	out := make([]domain.IdeaVersion, len(history))
	copy(out, history)
	return out, nil
}

// CountVersions returns the number of versions an idea has.
func (s *Store) CountVersions(_ context.Context, ideaID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.versions[ideaID]), nil
}

// --- ledger ---

// Record appends one immutable decision row.
func (s *Store) Record(_ context.Context, fragment domain.Fragment, decision domain.DecisionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := domain.LogEntry{
		FragmentID:   fragment.ID(),
		TargetIdeaID: decision.TargetIdeaID,
		Timestamp:    time.Now().UTC(),
		Action:       decision.Action,
		Confidence:   decision.Confidence,
		RuleID:       decision.RuleID,
		Reasoning:    decision.Reasoning,
		Constraints:  append([]string(nil), decision.Constraints...),
	}

	s.ledger[fragment.ID()] = append(s.ledger[fragment.ID()], entry)
	s.recentLedger = append(s.recentLedger, entry)
	if len(s.recentLedger) > recentCap {
		s.recentLedger = s.recentLedger[len(s.recentLedger)-recentCap:]
	}

	return nil
}

// HistoryFor returns the decision history of a fragment in recording order.
func (s *Store) HistoryFor(_ context.Context, fragmentID uuid.UUID) ([]domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.ledger[fragmentID]
	out := make([]domain.LogEntry, len(history))
	copy(out, history)
	return out, nil
}

// Recent returns up to limit of the newest decisions, oldest first.
func (s *Store) Recent(_ context.Context, limit int) ([]domain.LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.recentLedger) {
		limit = len(s.recentLedger)
	}
	out := make([]domain.LogEntry, limit)
	copy(out, s.recentLedger[len(s.recentLedger)-limit:])
	return out, nil
}

// --- spaces ---

// SaveSpace upserts a space.
func (s *Store) SaveSpace(_ context.Context, sp *domain.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.spaces[sp.ID()] = *sp
	return nil
}

// GetSpace retrieves a space by id.
func (s *Store) GetSpace(_ context.Context, id uuid.UUID) (domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sp, ok := s.spaces[id]
	if !ok {
		return domain.Space{}, domain.ErrSpaceNotFound
	}
	return sp, nil
}

// ListSpaces returns all spaces sorted by CreatedAt.
func (s *Store) ListSpaces(_ context.Context) ([]domain.Space, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	spaces := make([]domain.Space, 0, len(s.spaces))
	for _, sp := range s.spaces {
		spaces = append(spaces, sp)
	}
	sort.Slice(spaces, func(i, j int) bool {
		return spaces[i].CreatedAt().Before(spaces[j].CreatedAt())
	})
	return spaces, nil
}

// DeleteSpace removes a space. Ideas and fragments in it are untouched.
func (s *Store) DeleteSpace(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.spaces[id]; !ok {
		return domain.ErrSpaceNotFound
	}
	delete(s.spaces, id)
	return nil
}

// chromem collection names allow [a-zA-Z0-9._-]; a UUID fits.
func collectionName(spaceID uuid.UUID) string {
	return "ideas-" + spaceID.String()
}
