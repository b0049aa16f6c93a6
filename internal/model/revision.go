package model

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Feedback types accepted by the refine operation.
const (
	FeedbackInline     = "inline"
	FeedbackGeneral    = "general"
	FeedbackStructural = "structural"
	FeedbackTone       = "tone"
)

// FeedbackTypes lists the accepted feedbackType values.
var FeedbackTypes = []string{FeedbackInline, FeedbackGeneral, FeedbackStructural, FeedbackTone}

// Revision records feedback against a draft. The refinement engine is not
// wired yet, so ChangesApplied stays an empty list and the draft content is
// left untouched.
type Revision struct {
	gorm.Model
	ID                    string `gorm:"primaryKey;uuid;not null"`
	DraftID               string `gorm:"uuid;not null;index:revision_draft_id_index"`
	Feedback              string `gorm:"not null"`
	FeedbackType          string `gorm:"not null"`
	ChangeSummary         string
	AlternativesGenerated int
	AlternativeSelected   int
	IntentPreserved       bool
	ChangesApplied        datatypes.JSON
}
