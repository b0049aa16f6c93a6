package model

import (
	"encoding/json"

	"gorm.io/gorm"
)

// Content types a project can produce.
const (
	ContentTypeBlog    = "blog"
	ContentTypeArticle = "article"
	ContentTypeReport  = "report"
	ContentTypeSummary = "summary"
)

// Tone preferences for generated content.
const (
	ToneFormal     = "formal"
	ToneCasual     = "casual"
	ToneTechnical  = "technical"
	TonePersuasive = "persuasive"
)

// Project lifecycle states.
const (
	StatusDraft      = "draft"
	StatusDistilling = "distilling"
	StatusGenerating = "generating"
	StatusRefining   = "refining"
	StatusCompleted  = "completed"
	StatusArchived   = "archived"
)

// ContentTypes lists the accepted contentType values in wire order.
var ContentTypes = []string{ContentTypeBlog, ContentTypeArticle, ContentTypeReport, ContentTypeSummary}

// TonePreferences lists the accepted tonePreference values.
var TonePreferences = []string{ToneFormal, ToneCasual, ToneTechnical, TonePersuasive}

// ProjectStatuses lists the accepted status values.
var ProjectStatuses = []string{StatusDraft, StatusDistilling, StatusGenerating, StatusRefining, StatusCompleted, StatusArchived}

// Project is the anchor entity. Sources and drafts hang off it and every
// ownership check resolves to its UserID. VersionCount is bumped together with
// each new draft inside a single store transaction.
type Project struct {
	gorm.Model
	ID               string `gorm:"primaryKey;uuid;not null"`
	UserID           string `gorm:"uuid;not null;index:project_user_id_index"`
	Title            string `gorm:"not null"`
	ContentType      string `gorm:"not null"`
	TonePreference   string `gorm:"not null"`
	TargetLength     int    `gorm:"not null"`
	Status           string `gorm:"not null;default:draft"`
	VersionCount     int64  `gorm:"not null;default:0"`
	CurrentVersionID *string
}

func (p *Project) MarshalBinary() ([]byte, error) {
	return json.Marshal(p)
}
