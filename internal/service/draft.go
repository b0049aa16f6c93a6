package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contentpipe/contentpipe/internal/cache"
	"github.com/contentpipe/contentpipe/internal/compress"
	"github.com/contentpipe/contentpipe/internal/export"
	"github.com/contentpipe/contentpipe/internal/generator"
	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/store"
)

// maxGenerateAttempts bounds the regenerate-and-retry loop on version
// conflicts. Regeneration is not idempotent, so a lost race re-runs the whole
// attempt instead of reusing the stale output.
const maxGenerateAttempts = 3

// ExportResult is the rendered current draft of a project.
type ExportResult struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

// NewDraftService creates a new DraftService.
func NewDraftService(store store.Store, projects *ProjectService, gen generator.Generator, cache cache.DraftCache, compress compress.Compress) *DraftService {
	return &DraftService{
		store:     store,
		projects:  projects,
		generator: gen,
		cache:     cache,
		compress:  compress,
	}
}

// DraftService orchestrates draft generation: it pulls the project's sources,
// invokes the content generator, and commits the new immutable version
// together with the project's version pointer in one transaction.
type DraftService struct {
	store     store.Store
	projects  *ProjectService
	generator generator.Generator
	cache     cache.DraftCache
	compress  compress.Compress
}

func (d *DraftService) ListByProject(ctx context.Context, projectID, userID string) ([]*model.Draft, error) {
	project, err := d.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	drafts, err := d.store.ListDrafts(ctx, uuid.MustParse(project.ID))
	if err != nil {
		return nil, err
	}

	for _, draft := range drafts {
		if err := d.decodeContent(draft); err != nil {
			return nil, err
		}
	}

	return drafts, nil
}

// GetByID resolves a draft and enforces ownership through its parent project.
func (d *DraftService) GetByID(ctx context.Context, draftID, userID string) (*model.Draft, error) {
	id, err := uuid.Parse(draftID)
	if err != nil {
		return nil, NewNotFoundError("Draft", draftID)
	}

	draft, err := d.store.GetDraft(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewNotFoundError("Draft", draftID)
		}
		return nil, err
	}

	if _, err := d.projects.GetByID(ctx, draft.ProjectID, userID); err != nil {
		return nil, NewNotFoundError("Draft", draftID)
	}

	if err := d.decodeContent(draft); err != nil {
		return nil, err
	}

	return draft, nil
}

// Generate produces the next draft version for a project. The generator runs
// outside any transaction; the draft insert and the project's
// (version_count, current_version_id) bump commit as one conditional unit and
// the whole attempt retries when a concurrent call wins the version slot.
func (d *DraftService) Generate(ctx context.Context, projectID, userID string) (*model.Draft, error) {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		project, err := d.projects.GetByID(ctx, projectID, userID)
		if err != nil {
			return nil, err
		}
		pid := uuid.MustParse(project.ID)

		sources, err := d.store.ListSources(ctx, pid)
		if err != nil {
			return nil, err
		}
		if len(sources) == 0 {
			return nil, NewValidationError("No sources found. Please add sources before generating content.")
		}

		inputs := make([]generator.SourceInput, 0, len(sources))
		for _, source := range sources {
			text, err := compress.ForDecoding(source.Compression).Decode([]byte(source.ExtractedText))
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, generator.SourceInput{
				ID:            source.ID,
				SourceType:    source.SourceType,
				OriginalPath:  source.OriginalPath,
				ExtractedText: string(text),
			})
		}

		logrus.Infof("generating draft for project %s from %d sources (attempt %d)", project.ID, len(sources), attempt)

		out, err := d.generator.Generate(ctx, inputs, generator.ProjectSpec{
			Title:          project.Title,
			ContentType:    project.ContentType,
			TonePreference: project.TonePreference,
			TargetLength:   project.TargetLength,
		})
		if err != nil {
			return nil, NewGenerationError(err)
		}

		draft, err := d.buildDraft(project, out)
		if err != nil {
			return nil, err
		}

		err = d.store.Transaction(ctx, func(tx store.Store) error {
			return tx.CommitDraftVersion(ctx, pid, project.VersionCount, draft, model.StatusDraft)
		})
		if errors.Is(err, store.ErrVersionConflict) {
			logrus.Warnf("generate lost version slot %d on project %s, retrying", project.VersionCount+1, project.ID)
			continue
		}
		if err != nil {
			return nil, err
		}

		if err := d.decodeContent(draft); err != nil {
			return nil, err
		}

		if err := d.cache.SetCurrentDraft(ctx, pid, draft); err != nil {
			logrus.Errorf("error caching current draft for project %s: %v", project.ID, err)
		}

		logrus.Infof("draft generated: %s version %d (project %s)", draft.ID, draft.VersionNumber, project.ID)

		return draft, nil
	}

	return nil, NewConflictError("could not commit draft version, too many concurrent generations")
}

func (d *DraftService) buildDraft(project *model.Project, out *generator.Output) (*model.Draft, error) {
	outline, err := json.Marshal(out.Outline)
	if err != nil {
		return nil, err
	}
	citations, err := json.Marshal(out.Citations)
	if err != nil {
		return nil, err
	}
	content, err := d.compress.Encode([]byte(out.Content))
	if err != nil {
		return nil, err
	}

	return &model.Draft{
		ID:             uuid.New().String(),
		ProjectID:      project.ID,
		VersionNumber:  project.VersionCount + 1,
		Content:        string(content),
		Outline:        outline,
		Citations:      citations,
		QualityScore:   out.QualityScore,
		GenerationTime: out.GenerationTime,
		ParentDraftID:  project.CurrentVersionID,
		Compression:    d.compress.Name(),
	}, nil
}

// Refine records feedback against a draft. The refinement engine is not wired
// yet: the revision is persisted, the draft content stays unchanged.
func (d *DraftService) Refine(ctx context.Context, draftID, userID, feedback, feedbackType string) (*model.Revision, error) {
	if strings.TrimSpace(feedback) == "" {
		return nil, NewValidationError("feedback must not be empty")
	}
	if !contains(model.FeedbackTypes, feedbackType) {
		return nil, NewValidationError(fmt.Sprintf("invalid feedbackType %q", feedbackType))
	}

	draft, err := d.GetByID(ctx, draftID, userID)
	if err != nil {
		return nil, err
	}

	revision := &model.Revision{
		ID:                    uuid.New().String(),
		DraftID:               draft.ID,
		Feedback:              feedback,
		FeedbackType:          feedbackType,
		ChangeSummary:         "Refinement applied",
		AlternativesGenerated: 1,
		AlternativeSelected:   0,
		IntentPreserved:       true,
		ChangesApplied:        []byte("[]"),
	}

	if err := d.store.CreateRevision(ctx, revision); err != nil {
		return nil, err
	}

	logrus.Infof("revision recorded for draft %s (%s)", draft.ID, feedbackType)

	return revision, nil
}

// Export renders the project's current draft in the requested format.
func (d *DraftService) Export(ctx context.Context, projectID, userID, format string, includeCitations bool) (*ExportResult, error) {
	project, err := d.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if project.CurrentVersionID == nil {
		return nil, NewValidationError("No draft available for export")
	}

	draft, err := d.currentDraft(ctx, project, userID)
	if err != nil {
		return nil, err
	}

	document := draft.Content
	if includeCitations {
		document += renderCitations(draft)
	}

	content, err := export.Render(format, document)
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			return nil, NewValidationError(err.Error())
		}
		return nil, err
	}

	return &ExportResult{Content: content, Format: format}, nil
}

// currentDraft reads through the cache. Cache failures fall back to the store.
func (d *DraftService) currentDraft(ctx context.Context, project *model.Project, userID string) (*model.Draft, error) {
	pid := uuid.MustParse(project.ID)

	cached, err := d.cache.GetCurrentDraft(ctx, pid)
	if err != nil {
		logrus.Errorf("error reading draft cache for project %s: %v", project.ID, err)
	}
	if cached != nil && cached.ID == *project.CurrentVersionID {
		return cached, nil
	}

	draft, err := d.GetByID(ctx, *project.CurrentVersionID, userID)
	if err != nil {
		return nil, err
	}

	if err := d.cache.SetCurrentDraft(ctx, pid, draft); err != nil {
		logrus.Errorf("error caching current draft for project %s: %v", project.ID, err)
	}

	return draft, nil
}

func renderCitations(draft *model.Draft) string {
	var citations []generator.Citation
	if err := json.Unmarshal(draft.Citations, &citations); err != nil || len(citations) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\n## Citations\n")
	for i, citation := range citations {
		sb.WriteString(fmt.Sprintf("\n%d. %s (%s)", i+1, citation.Text, citation.Context))
	}
	return sb.String()
}

func (d *DraftService) decodeContent(draft *model.Draft) error {
	content, err := compress.ForDecoding(draft.Compression).Decode([]byte(draft.Content))
	if err != nil {
		return err
	}
	draft.Content = string(content)
	draft.Compression = ""
	return nil
}
