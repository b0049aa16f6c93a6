package queue

import (
	"context"

	"github.com/contentpipe/contentpipe/internal/model"
)

// SourceExtractTopic carries extraction requests for file and url sources.
// The extraction worker consuming it is an external collaborator.
var SourceExtractTopic = "source.extract"

// ExtractionRequest is the message payload on the extraction topic.
type ExtractionRequest struct {
	SourceID     string `json:"sourceId"`
	ProjectID    string `json:"projectId"`
	SourceType   string `json:"sourceType"`
	OriginalPath string `json:"originalPath"`
}

// ExtractionQueue hands freshly ingested sources to the extraction worker.
type ExtractionQueue interface {
	// PublishExtractionRequest appends a source to the extraction topic.
	PublishExtractionRequest(ctx context.Context, source *model.Source) error
	// Close flushes and releases the underlying producer.
	Close()
}

var _ ExtractionQueue = (*Nop)(nil)

// Nop drops extraction requests. Used when no broker is configured; the
// sources stay pending until an operator runs extraction by hand.
type Nop struct {
}

func NewNop() *Nop {
	return &Nop{}
}

func (n *Nop) PublishExtractionRequest(ctx context.Context, source *model.Source) error {
	return nil
}

func (n *Nop) Close() {}
