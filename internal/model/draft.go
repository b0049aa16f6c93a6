package model

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Draft is an immutable generated version of a project's content. A draft is
// never updated after creation, only superseded; ParentDraftID links to the
// draft that was current when this one was generated.
type Draft struct {
	gorm.Model
	ID             string `gorm:"primaryKey;uuid;not null"`
	ProjectID      string `gorm:"uuid;not null;index:draft_project_id_index"`
	VersionNumber  int64  `gorm:"not null"`
	Content        string `gorm:"not null"`
	Outline        datatypes.JSON
	Citations      datatypes.JSON
	QualityScore   float64
	GenerationTime int64 // milliseconds
	ParentDraftID  *string
	Compression    string
}

func (d *Draft) MarshalBinary() ([]byte, error) {
	return json.Marshal(d)
}
