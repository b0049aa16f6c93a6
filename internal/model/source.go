package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Source types.
const (
	SourceTypeFile       = "file"
	SourceTypeURL        = "url"
	SourceTypeNote       = "note"
	SourceTypeTranscript = "transcript"
)

// Source processing states. Note sources are completed on creation, the rest
// wait for the external extraction worker.
const (
	ProcessingPending    = "pending"
	ProcessingProcessing = "processing"
	ProcessingCompleted  = "completed"
	ProcessingFailed     = "failed"
)

// Source is ingested material attached to a project. ExtractedText stays empty
// until the extraction collaborator fills it in; the stored text may be
// compressed, Compression names the codec used.
type Source struct {
	gorm.Model
	ID               string `gorm:"primaryKey;uuid;not null"`
	ProjectID        string `gorm:"uuid;not null;index:source_project_id_index"`
	SourceType       string `gorm:"not null"`
	OriginalPath     string `gorm:"not null"`
	ExtractedText    string
	Metadata         datatypes.JSON
	ProcessingStatus string `gorm:"not null;default:pending"`
	Compression      string
}
