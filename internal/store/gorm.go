package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contentpipe/contentpipe/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateProject(ctx context.Context, project *model.Project) error {
	return g.db.WithContext(ctx).Create(project).Error
}

func (g *GormStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (g *GormStore) ListProjects(ctx context.Context, userID string) ([]*model.Project, error) {
	var projects []*model.Project
	err := g.db.WithContext(ctx).Where("user_id = ?", userID).Order("updated_at desc").Find(&projects).Error
	return projects, err
}

func (g *GormStore) UpdateProject(ctx context.Context, project *model.Project) error {
	return g.db.WithContext(ctx).Save(project).Error
}

// CommitDraftVersion inserts the draft and bumps the project version pointer as
// one unit. The project update is conditioned on version_count so that two
// concurrent generate calls cannot both claim the same version slot.
// NOTE: should run in a transaction
func (g *GormStore) CommitDraftVersion(ctx context.Context, projectID uuid.UUID, fromVersion int64, draft *model.Draft, status string) error {
	if err := g.db.WithContext(ctx).Create(draft).Error; err != nil {
		return err
	}

	res := g.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ? AND version_count = ?", projectID.String(), fromVersion).
		Updates(map[string]interface{}{
			"version_count":      draft.VersionNumber,
			"current_version_id": draft.ID,
			"status":             status,
		})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		logrus.Warnf("version conflict on project %s: expected version_count %d", projectID, fromVersion)
		return ErrVersionConflict
	}

	return nil
}

func (g *GormStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Project{}).Error
}

func (g *GormStore) CreateSource(ctx context.Context, source *model.Source) error {
	return g.db.WithContext(ctx).Create(source).Error
}

func (g *GormStore) GetSource(ctx context.Context, id uuid.UUID) (*model.Source, error) {
	var source model.Source
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&source).Error
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (g *GormStore) ListSources(ctx context.Context, projectID uuid.UUID) ([]*model.Source, error) {
	var sources []*model.Source
	err := g.db.WithContext(ctx).Where("project_id = ?", projectID.String()).Order("created_at desc").Find(&sources).Error
	return sources, err
}

func (g *GormStore) UpdateSource(ctx context.Context, source *model.Source) error {
	return g.db.WithContext(ctx).Save(source).Error
}

func (g *GormStore) DeleteSource(ctx context.Context, id uuid.UUID) error {
	return g.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&model.Source{}).Error
}

func (g *GormStore) DeleteSourcesByProject(ctx context.Context, projectID uuid.UUID) error {
	return g.db.WithContext(ctx).Where("project_id = ?", projectID.String()).Delete(&model.Source{}).Error
}

func (g *GormStore) ListStaleSources(ctx context.Context, cutoff time.Time) ([]*model.Source, error) {
	var sources []*model.Source
	err := g.db.WithContext(ctx).
		Where("processing_status in (?) AND updated_at < ?", []string{model.ProcessingPending, model.ProcessingProcessing}, cutoff).
		Find(&sources).Error
	return sources, err
}

func (g *GormStore) CreateDraft(ctx context.Context, draft *model.Draft) error {
	return g.db.WithContext(ctx).Create(draft).Error
}

func (g *GormStore) GetDraft(ctx context.Context, id uuid.UUID) (*model.Draft, error) {
	var draft model.Draft
	err := g.db.WithContext(ctx).Where("id = ?", id.String()).First(&draft).Error
	if err != nil {
		return nil, err
	}
	return &draft, nil
}

func (g *GormStore) ListDrafts(ctx context.Context, projectID uuid.UUID) ([]*model.Draft, error) {
	var drafts []*model.Draft
	err := g.db.WithContext(ctx).Where("project_id = ?", projectID.String()).Order("version_number desc").Find(&drafts).Error
	return drafts, err
}

func (g *GormStore) DeleteDraftsByProject(ctx context.Context, projectID uuid.UUID) error {
	return g.db.WithContext(ctx).Where("project_id = ?", projectID.String()).Delete(&model.Draft{}).Error
}

func (g *GormStore) CreateRevision(ctx context.Context, revision *model.Revision) error {
	return g.db.WithContext(ctx).Create(revision).Error
}

func (g *GormStore) ListRevisions(ctx context.Context, draftID uuid.UUID) ([]*model.Revision, error) {
	var revisions []*model.Revision
	err := g.db.WithContext(ctx).Where("draft_id = ?", draftID.String()).Order("created_at desc").Find(&revisions).Error
	return revisions, err
}

func (g *GormStore) DeleteRevisionsByProject(ctx context.Context, projectID uuid.UUID) error {
	return g.db.WithContext(ctx).
		Where("draft_id in (?)", g.db.Model(&model.Draft{}).Select("id").Where("project_id = ?", projectID.String())).
		Delete(&model.Revision{}).Error
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
