package cache

import (
	"context"

	"github.com/google/uuid"

	"github.com/contentpipe/contentpipe/internal/model"
)

// DraftCache caches the current draft of a project. A miss returns (nil, nil);
// callers treat every cache error as a miss.
type DraftCache interface {
	// GetCurrentDraft gets the cached current draft of a project.
	GetCurrentDraft(ctx context.Context, projectID uuid.UUID) (*model.Draft, error)
	// SetCurrentDraft caches the current draft of a project.
	SetCurrentDraft(ctx context.Context, projectID uuid.UUID, draft *model.Draft) error
	// Invalidate drops the cached draft of a project.
	Invalidate(ctx context.Context, projectID uuid.UUID) error
}

var _ DraftCache = (*Nop)(nil)

// Nop is the cache used when no redis address is configured.
type Nop struct {
}

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) GetCurrentDraft(ctx context.Context, projectID uuid.UUID) (*model.Draft, error) {
	return nil, nil
}

func (n *Nop) SetCurrentDraft(ctx context.Context, projectID uuid.UUID, draft *model.Draft) error {
	return nil
}

func (n *Nop) Invalidate(ctx context.Context, projectID uuid.UUID) error {
	return nil
}
