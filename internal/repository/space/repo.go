package space

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// store is the consumer interface for spaces (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo persists spaces as hashes.
type Repo struct {
	store store
}

// New creates a space repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SaveSpace upserts a space.
func (r *Repo) SaveSpace(ctx context.Context, sp *domain.Space) error {
	fields := map[string]string{
		"id":          sp.ID().String(),
		"name":        sp.Name(),
		"description": sp.Description(),
		"color":       sp.Color(),
		"created_at":  strconv.FormatInt(sp.CreatedAt().UnixNano(), 10),
	}
	if err := r.store.HSet(ctx, spaceKey(sp.ID().String()), fields); err != nil {
		return fmt.Errorf("hset space %s: %w", sp.ID(), err)
	}
	return nil
}

// GetSpace retrieves a space by id.
func (r *Repo) GetSpace(ctx context.Context, id uuid.UUID) (domain.Space, error) {
	m, err := r.store.HGetAll(ctx, spaceKey(id.String()))
	if err != nil {
		return domain.Space{}, fmt.Errorf("hgetall space %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.Space{}, domain.ErrSpaceNotFound
	}
	return spaceFromHash(m)
}

// ListSpaces returns all spaces sorted by CreatedAt.
func (r *Repo) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	keys, err := r.store.Scan(ctx, spaceKey("*"))
	if err != nil {
		return nil, fmt.Errorf("scan spaces: %w", err)
	}
	if len(keys) == 0 {
		return []domain.Space{}, nil
	}

	results, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall multi spaces: %w", err)
	}

	spaces := make([]domain.Space, 0, len(results))
	for i, m := range results {
		if len(m) == 0 {
			continue
		}
		sp, err := spaceFromHash(m)
		if err != nil {
			return nil, fmt.Errorf("parse space %s: %w", keys[i], err)
		}
		spaces = append(spaces, sp)
	}

	sort.Slice(spaces, func(i, j int) bool {
		return spaces[i].CreatedAt().Before(spaces[j].CreatedAt())
	})

	return spaces, nil
}

// DeleteSpace removes a space. Ideas and fragments in the space are untouched.
func (r *Repo) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	m, err := r.store.HGetAll(ctx, spaceKey(id.String()))
	if err != nil {
		return fmt.Errorf("hgetall space %s: %w", id, err)
	}
	if len(m) == 0 {
		return domain.ErrSpaceNotFound
	}
	if err := r.store.Del(ctx, spaceKey(id.String())); err != nil {
		return fmt.Errorf("del space %s: %w", id, err)
	}
	return nil
}

func spaceFromHash(m map[string]string) (domain.Space, error) {
	id, err := uuid.Parse(m["id"])
	if err != nil {
		return domain.Space{}, fmt.Errorf("invalid space id: %w", err)
	}
	nanos, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domain.Space{}, fmt.Errorf("invalid created_at: %w", err)
	}
	return domain.ReconstructSpace(
		id, m["name"], m["description"], m["color"], time.Unix(0, nanos).UTC(),
	), nil
}

// Redis key pattern: noema:space:{id}

func spaceKey(id string) string {
	return domain.KeyPrefix + "space:" + id
}
