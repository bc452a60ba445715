package noema

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/noema-labs/noema/internal/domain"
)

// CreateSpace creates a scoping space. Ideas and fragments in different
// spaces never see each other during candidate retrieval.
func (c *Client) CreateSpace(ctx context.Context, name, description, color string) (Space, error) {
	sp, err := domain.NewSpace(name, description, color)
	if err != nil {
		return Space{}, fmt.Errorf("noema: %w", err)
	}
	if err := c.spaces.SaveSpace(ctx, &sp); err != nil {
		return Space{}, fmt.Errorf("noema: save space: %w", err)
	}
	return spaceFromDomain(sp), nil
}

// Spaces lists all spaces, oldest first.
func (c *Client) Spaces(ctx context.Context) ([]Space, error) {
	spaces, err := c.spaces.ListSpaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("noema: list spaces: %w", err)
	}

	out := make([]Space, len(spaces))
	for i := range spaces {
		out[i] = spaceFromDomain(spaces[i])
	}
	return out, nil
}

// Space retrieves a single space.
func (c *Client) Space(ctx context.Context, id uuid.UUID) (Space, error) {
	sp, err := c.spaces.GetSpace(ctx, id)
	if err != nil {
		return Space{}, err
	}
	return spaceFromDomain(sp), nil
}

// DeleteSpace removes a space. Ideas and fragments already in the space are
// left untouched.
func (c *Client) DeleteSpace(ctx context.Context, id uuid.UUID) error {
	if err := c.spaces.DeleteSpace(ctx, id); err != nil {
		return fmt.Errorf("noema: delete space: %w", err)
	}
	return nil
}
