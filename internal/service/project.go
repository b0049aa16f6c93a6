package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contentpipe/contentpipe/internal/cache"
	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/store"
)

// CreateProjectInput is the validated payload for project creation.
type CreateProjectInput struct {
	Title          string `json:"title"`
	ContentType    string `json:"contentType"`
	TonePreference string `json:"tonePreference"`
	TargetLength   int    `json:"targetLength"`
}

// Validate enforces the boundary rules: non-empty bounded title, enum
// membership and a target length in [100, 10000] words.
func (in *CreateProjectInput) Validate() error {
	if in.Title == "" {
		return NewValidationError("title is required")
	}
	if len(in.Title) > 255 {
		return NewValidationError("title is too long")
	}
	if !contains(model.ContentTypes, in.ContentType) {
		return NewValidationError(fmt.Sprintf("invalid contentType %q", in.ContentType))
	}
	if !contains(model.TonePreferences, in.TonePreference) {
		return NewValidationError(fmt.Sprintf("invalid tonePreference %q", in.TonePreference))
	}
	if in.TargetLength < 100 || in.TargetLength > 10000 {
		return NewValidationError("targetLength must be between 100 and 10000")
	}
	return nil
}

// UpdateProjectInput carries a partial update; nil fields are left untouched.
type UpdateProjectInput struct {
	Title          *string `json:"title"`
	ContentType    *string `json:"contentType"`
	TonePreference *string `json:"tonePreference"`
	TargetLength   *int    `json:"targetLength"`
	Status         *string `json:"status"`
}

func (in *UpdateProjectInput) Validate() error {
	if in.Title != nil && (*in.Title == "" || len(*in.Title) > 255) {
		return NewValidationError("title must be between 1 and 255 characters")
	}
	if in.ContentType != nil && !contains(model.ContentTypes, *in.ContentType) {
		return NewValidationError(fmt.Sprintf("invalid contentType %q", *in.ContentType))
	}
	if in.TonePreference != nil && !contains(model.TonePreferences, *in.TonePreference) {
		return NewValidationError(fmt.Sprintf("invalid tonePreference %q", *in.TonePreference))
	}
	if in.TargetLength != nil && (*in.TargetLength < 100 || *in.TargetLength > 10000) {
		return NewValidationError("targetLength must be between 100 and 10000")
	}
	if in.Status != nil && !contains(model.ProjectStatuses, *in.Status) {
		return NewValidationError(fmt.Sprintf("invalid status %q", *in.Status))
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

// NewProjectService creates a new ProjectService.
func NewProjectService(store store.Store, cache cache.DraftCache) *ProjectService {
	return &ProjectService{
		store: store,
		cache: cache,
	}
}

// ProjectService owns the project lifecycle. Every other entity resolves its
// ownership through GetByID here.
type ProjectService struct {
	store store.Store
	cache cache.DraftCache
}

func (p *ProjectService) List(ctx context.Context, userID string) ([]*model.Project, error) {
	return p.store.ListProjects(ctx, userID)
}

func (p *ProjectService) Create(ctx context.Context, userID string, in *CreateProjectInput) (*model.Project, error) {
	project := &model.Project{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          in.Title,
		ContentType:    in.ContentType,
		TonePreference: in.TonePreference,
		TargetLength:   in.TargetLength,
		Status:         model.StatusDraft,
		VersionCount:   0,
	}

	if err := p.store.CreateProject(ctx, project); err != nil {
		return nil, err
	}

	logrus.Infof("project created: %s (%s)", project.ID, project.Title)

	return project, nil
}

// GetByID resolves a project and enforces ownership. A project owned by
// another user reports not-found, never forbidden.
func (p *ProjectService) GetByID(ctx context.Context, id, userID string) (*model.Project, error) {
	projectID, err := uuid.Parse(id)
	if err != nil {
		return nil, NewNotFoundError("Project", id)
	}

	project, err := p.store.GetProject(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Project", id)
		}
		return nil, err
	}

	if project.UserID != userID {
		return nil, NewNotFoundError("Project", id)
	}

	return project, nil
}

func (p *ProjectService) Update(ctx context.Context, id, userID string, in *UpdateProjectInput) (*model.Project, error) {
	project, err := p.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		project.Title = *in.Title
	}
	if in.ContentType != nil {
		project.ContentType = *in.ContentType
	}
	if in.TonePreference != nil {
		project.TonePreference = *in.TonePreference
	}
	if in.TargetLength != nil {
		project.TargetLength = *in.TargetLength
	}
	if in.Status != nil {
		project.Status = *in.Status
	}

	if err := p.store.UpdateProject(ctx, project); err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project and everything hanging off it in one transaction.
func (p *ProjectService) Delete(ctx context.Context, id, userID string) error {
	project, err := p.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}
	projectID := uuid.MustParse(project.ID)

	err = p.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.DeleteRevisionsByProject(ctx, projectID); err != nil {
			return err
		}
		if err := tx.DeleteDraftsByProject(ctx, projectID); err != nil {
			return err
		}
		if err := tx.DeleteSourcesByProject(ctx, projectID); err != nil {
			return err
		}
		return tx.DeleteProject(ctx, projectID)
	})
	if err != nil {
		return err
	}

	if err := p.cache.Invalidate(ctx, projectID); err != nil {
		logrus.Errorf("error invalidating draft cache for project %s: %v", project.ID, err)
	}

	logrus.Infof("project deleted: %s", project.ID)

	return nil
}
