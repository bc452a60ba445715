package noema

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Ideas lists all ideas in a space, oldest first. The zero UUID selects the
// default space.
func (c *Client) Ideas(ctx context.Context, spaceID uuid.UUID) ([]Idea, error) {
	ideas, err := c.ideas.ListIdeas(ctx, spaceID)
	if err != nil {
		return nil, fmt.Errorf("noema: list ideas: %w", err)
	}

	out := make([]Idea, len(ideas))
	for i := range ideas {
		out[i] = ideaFromDomain(ideas[i])
	}
	return out, nil
}

// Idea retrieves a single idea.
func (c *Client) Idea(ctx context.Context, id uuid.UUID) (Idea, error) {
	idea, err := c.ideas.GetIdea(ctx, id)
	if err != nil {
		return Idea{}, err
	}
	return ideaFromDomain(idea), nil
}

// IdeaVersions returns the full synthesis history of an idea, oldest first.
func (c *Client) IdeaVersions(ctx context.Context, ideaID uuid.UUID) ([]IdeaVersion, error) {
	versions, err := c.ideas.ListIdeaVersions(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("noema: list versions: %w", err)
	}

	out := make([]IdeaVersion, len(versions))
	for i := range versions {
		out[i] = versionFromDomain(versions[i])
	}
	return out, nil
}

// IdeaMaturity scores how consolidated an idea is, from accumulated
// fragments, version churn, age, and classification.
func (c *Client) IdeaMaturity(ctx context.Context, ideaID uuid.UUID) (Maturity, error) {
	idea, err := c.ideas.GetIdea(ctx, ideaID)
	if err != nil {
		return Maturity{}, err
	}
	versionCount, err := c.ideas.CountVersions(ctx, ideaID)
	if err != nil {
		return Maturity{}, fmt.Errorf("noema: count versions: %w", err)
	}
	return maturityFor(idea, versionCount), nil
}
