package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/contentpipe/contentpipe/internal/model"
)

type Store interface {
	ProjectStore
	SourceStore
	DraftStore
	RevisionStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type ProjectStore interface {
	// CreateProject creates a new project.
	CreateProject(ctx context.Context, project *model.Project) error
	// GetProject retrieves a project by ID.
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// ListProjects retrieves the projects owned by a user, most recently updated first.
	ListProjects(ctx context.Context, userID string) ([]*model.Project, error)
	// UpdateProject updates a project.
	UpdateProject(ctx context.Context, project *model.Project) error
	// CommitDraftVersion applies the version bump (version_count, current_version_id,
	// status) conditioned on the project still being at fromVersion.
	// Returns ErrVersionConflict when another generate call won the slot.
	CommitDraftVersion(ctx context.Context, projectID uuid.UUID, fromVersion int64, draft *model.Draft, status string) error
	// DeleteProject deletes a project by ID.
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

type SourceStore interface {
	// CreateSource creates a new source.
	CreateSource(ctx context.Context, source *model.Source) error
	// GetSource retrieves a source by ID.
	GetSource(ctx context.Context, id uuid.UUID) (*model.Source, error)
	// ListSources retrieves the sources of a project, newest first.
	ListSources(ctx context.Context, projectID uuid.UUID) ([]*model.Source, error)
	// UpdateSource updates a source.
	UpdateSource(ctx context.Context, source *model.Source) error
	// DeleteSource deletes a source by ID.
	DeleteSource(ctx context.Context, id uuid.UUID) error
	// DeleteSourcesByProject deletes all sources of a project.
	DeleteSourcesByProject(ctx context.Context, projectID uuid.UUID) error
	// ListStaleSources retrieves sources stuck in pending/processing since before cutoff.
	ListStaleSources(ctx context.Context, cutoff time.Time) ([]*model.Source, error)
}

type DraftStore interface {
	// CreateDraft creates a new draft version.
	CreateDraft(ctx context.Context, draft *model.Draft) error
	// GetDraft retrieves a draft by ID.
	GetDraft(ctx context.Context, id uuid.UUID) (*model.Draft, error)
	// ListDrafts retrieves the drafts of a project, highest version first.
	ListDrafts(ctx context.Context, projectID uuid.UUID) ([]*model.Draft, error)
	// DeleteDraftsByProject deletes all drafts of a project.
	DeleteDraftsByProject(ctx context.Context, projectID uuid.UUID) error
}

type RevisionStore interface {
	// CreateRevision records a refinement of a draft.
	CreateRevision(ctx context.Context, revision *model.Revision) error
	// ListRevisions retrieves the revisions of a draft, newest first.
	ListRevisions(ctx context.Context, draftID uuid.UUID) ([]*model.Revision, error)
	// DeleteRevisionsByProject deletes the revisions of all drafts of a project.
	DeleteRevisionsByProject(ctx context.Context, projectID uuid.UUID) error
}
