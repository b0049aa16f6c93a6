package server

import (
	"encoding/json"
	"time"

	"github.com/contentpipe/contentpipe/internal/model"
)

// Wire representations. Records are mapped explicitly, never passed through
// as raw store rows.

type projectDTO struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	Title            string    `json:"title"`
	ContentType      string    `json:"contentType"`
	TonePreference   string    `json:"tonePreference"`
	TargetLength     int       `json:"targetLength"`
	Status           string    `json:"status"`
	VersionCount     int64     `json:"versionCount"`
	CurrentVersionID *string   `json:"currentVersionId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toProjectDTO(p *model.Project) *projectDTO {
	return &projectDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		Title:            p.Title,
		ContentType:      p.ContentType,
		TonePreference:   p.TonePreference,
		TargetLength:     p.TargetLength,
		Status:           p.Status,
		VersionCount:     p.VersionCount,
		CurrentVersionID: p.CurrentVersionID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func toProjectDTOs(projects []*model.Project) []*projectDTO {
	out := make([]*projectDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProjectDTO(p))
	}
	return out
}

type sourceDTO struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"projectId"`
	SourceType       string          `json:"sourceType"`
	OriginalPath     string          `json:"originalPath"`
	ExtractedText    string          `json:"extractedText"`
	Metadata         json.RawMessage `json:"metadata"`
	ProcessingStatus string          `json:"processingStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
}

func toSourceDTO(s *model.Source) *sourceDTO {
	metadata := json.RawMessage(s.Metadata)
	if len(metadata) == 0 {
		metadata = json.RawMessage("{}")
	}
	return &sourceDTO{
		ID:               s.ID,
		ProjectID:        s.ProjectID,
		SourceType:       s.SourceType,
		OriginalPath:     s.OriginalPath,
		ExtractedText:    s.ExtractedText,
		Metadata:         metadata,
		ProcessingStatus: s.ProcessingStatus,
		CreatedAt:        s.CreatedAt,
	}
}

func toSourceDTOs(sources []*model.Source) []*sourceDTO {
	out := make([]*sourceDTO, 0, len(sources))
	for _, s := range sources {
		out = append(out, toSourceDTO(s))
	}
	return out
}

type draftDTO struct {
	ID             string          `json:"id"`
	ProjectID      string          `json:"projectId"`
	VersionNumber  int64           `json:"versionNumber"`
	Content        string          `json:"content"`
	Outline        json.RawMessage `json:"outline"`
	Citations      json.RawMessage `json:"citations"`
	QualityScore   float64         `json:"qualityScore"`
	GenerationTime int64           `json:"generationTime"`
	ParentDraftID  *string         `json:"parentDraftId"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func toDraftDTO(d *model.Draft) *draftDTO {
	citations := json.RawMessage(d.Citations)
	if len(citations) == 0 {
		citations = json.RawMessage("[]")
	}
	outline := json.RawMessage(d.Outline)
	if len(outline) == 0 {
		outline = json.RawMessage("{}")
	}
	return &draftDTO{
		ID:             d.ID,
		ProjectID:      d.ProjectID,
		VersionNumber:  d.VersionNumber,
		Content:        d.Content,
		Outline:        outline,
		Citations:      citations,
		QualityScore:   d.QualityScore,
		GenerationTime: d.GenerationTime,
		ParentDraftID:  d.ParentDraftID,
		CreatedAt:      d.CreatedAt,
	}
}

func toDraftDTOs(drafts []*model.Draft) []*draftDTO {
	out := make([]*draftDTO, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, toDraftDTO(d))
	}
	return out
}

type revisionDTO struct {
	ID                    string          `json:"id"`
	DraftID               string          `json:"draftId"`
	Feedback              string          `json:"feedback"`
	FeedbackType          string          `json:"feedbackType"`
	ChangeSummary         string          `json:"changeSummary"`
	AlternativesGenerated int             `json:"alternativesGenerated"`
	AlternativeSelected   int             `json:"alternativeSelected"`
	IntentPreserved       bool            `json:"intentPreserved"`
	ChangesApplied        json.RawMessage `json:"changesApplied"`
	CreatedAt             time.Time       `json:"createdAt"`
}

func toRevisionDTO(r *model.Revision) *revisionDTO {
	changes := json.RawMessage(r.ChangesApplied)
	if len(changes) == 0 {
		changes = json.RawMessage("[]")
	}
	return &revisionDTO{
		ID:                    r.ID,
		DraftID:               r.DraftID,
		Feedback:              r.Feedback,
		FeedbackType:          r.FeedbackType,
		ChangeSummary:         r.ChangeSummary,
		AlternativesGenerated: r.AlternativesGenerated,
		AlternativeSelected:   r.AlternativeSelected,
		IntentPreserved:       r.IntentPreserved,
		ChangesApplied:        changes,
		CreatedAt:             r.CreatedAt,
	}
}
