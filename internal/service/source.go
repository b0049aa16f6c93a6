package service

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/contentpipe/contentpipe/internal/compress"
	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/queue"
	"github.com/contentpipe/contentpipe/internal/store"
)

// MaxUploadSize bounds file source uploads.
const MaxUploadSize = 50 << 20 // 50MB

// NewSourceService creates a new SourceService.
func NewSourceService(store store.Store, projects *ProjectService, queue queue.ExtractionQueue, compress compress.Compress) *SourceService {
	return &SourceService{
		store:    store,
		projects: projects,
		queue:    queue,
		compress: compress,
	}
}

// SourceService attaches ingested material to projects. File and url sources
// wait for the external extraction worker, note sources are final on arrival.
type SourceService struct {
	store    store.Store
	projects *ProjectService
	queue    queue.ExtractionQueue
	compress compress.Compress
}

func (s *SourceService) ListByProject(ctx context.Context, projectID, userID string) ([]*model.Source, error) {
	project, err := s.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	sources, err := s.store.ListSources(ctx, uuid.MustParse(project.ID))
	if err != nil {
		return nil, err
	}

	for _, source := range sources {
		if err := s.decodeText(source); err != nil {
			return nil, err
		}
	}

	return sources, nil
}

// CreateFromFile records an uploaded file source. The raw bytes belong to the
// external blob store; only metadata is captured here and extraction is
// queued for the external worker.
func (s *SourceService) CreateFromFile(ctx context.Context, projectID, userID, filename string, data []byte) (*model.Source, error) {
	project, err := s.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, NewValidationError("uploaded file is empty")
	}
	if len(data) > MaxUploadSize {
		return nil, NewValidationError("uploaded file exceeds the 50MB limit")
	}

	metadata, err := json.Marshal(map[string]interface{}{
		"fileType": strings.TrimPrefix(filepath.Ext(filename), "."),
		"fileSize": len(data),
	})
	if err != nil {
		return nil, err
	}

	source := &model.Source{
		ID:               uuid.New().String(),
		ProjectID:        project.ID,
		SourceType:       model.SourceTypeFile,
		OriginalPath:     filename,
		ExtractedText:    "",
		Metadata:         metadata,
		ProcessingStatus: model.ProcessingPending,
	}

	if err := s.store.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	s.requestExtraction(ctx, source)

	return source, nil
}

func (s *SourceService) CreateFromURL(ctx context.Context, projectID, userID, url string) (*model.Source, error) {
	project, err := s.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, NewValidationError("url must start with http:// or https://")
	}

	metadata, err := json.Marshal(map[string]string{"url": url})
	if err != nil {
		return nil, err
	}

	source := &model.Source{
		ID:               uuid.New().String(),
		ProjectID:        project.ID,
		SourceType:       model.SourceTypeURL,
		OriginalPath:     url,
		ExtractedText:    "",
		Metadata:         metadata,
		ProcessingStatus: model.ProcessingPending,
	}

	if err := s.store.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	s.requestExtraction(ctx, source)

	return source, nil
}

// CreateFromNote stores a literal note. The text is already final, so the
// source is completed immediately and never queued.
func (s *SourceService) CreateFromNote(ctx context.Context, projectID, userID, note string) (*model.Source, error) {
	project, err := s.projects.GetByID(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(note) == "" {
		return nil, NewValidationError("note must not be empty")
	}

	encoded, err := s.compress.Encode([]byte(note))
	if err != nil {
		return nil, err
	}

	source := &model.Source{
		ID:               uuid.New().String(),
		ProjectID:        project.ID,
		SourceType:       model.SourceTypeNote,
		OriginalPath:     "note",
		ExtractedText:    string(encoded),
		Metadata:         []byte("{}"),
		ProcessingStatus: model.ProcessingCompleted,
		Compression:      s.compress.Name(),
	}

	if err := s.store.CreateSource(ctx, source); err != nil {
		return nil, err
	}

	source.ExtractedText = note

	return source, nil
}

func (s *SourceService) Delete(ctx context.Context, sourceID, userID string) error {
	id, err := uuid.Parse(sourceID)
	if err != nil {
		return NewNotFoundError("Source", sourceID)
	}

	source, err := s.store.GetSource(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError("Source", sourceID)
		}
		return err
	}

	// ownership resolves through the parent project
	if _, err := s.projects.GetByID(ctx, source.ProjectID, userID); err != nil {
		return NewNotFoundError("Source", sourceID)
	}

	return s.store.DeleteSource(ctx, id)
}

func (s *SourceService) requestExtraction(ctx context.Context, source *model.Source) {
	if err := s.queue.PublishExtractionRequest(ctx, source); err != nil {
		// extraction is retried by the reaper path, ingestion itself succeeded
		logrus.Errorf("error queueing extraction for source %s: %v", source.ID, err)
	}
}

func (s *SourceService) decodeText(source *model.Source) error {
	if source.ExtractedText == "" {
		return nil
	}

	text, err := compress.ForDecoding(source.Compression).Decode([]byte(source.ExtractedText))
	if err != nil {
		return err
	}
	source.ExtractedText = string(text)

	return nil
}
