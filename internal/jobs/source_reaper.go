package jobs

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/store"
)

// SourceReaper fails sources that sat in pending/processing longer than
// maxAge. By then the extraction worker is assumed to have dropped them and
// the user should re-ingest.
type SourceReaper struct {
	store  store.Store
	maxAge time.Duration
	cron   string
}

func NewSourceReaper(store store.Store, maxAge time.Duration, schedule string) *SourceReaper {
	if schedule == "" {
		schedule = "@every 5m"
	}
	return &SourceReaper{
		store:  store,
		maxAge: maxAge,
		cron:   schedule,
	}
}

func (r *SourceReaper) Name() string {
	return "source_reaper"
}

func (r *SourceReaper) Schedule() string {
	return r.cron
}

func (r *SourceReaper) Run() {
	ctx := context.Background()
	cutoff := time.Now().Add(-r.maxAge)

	sources, err := r.store.ListStaleSources(ctx, cutoff)
	if err != nil {
		logrus.Errorf("error listing stale sources: %v", err)
		return
	}

	for _, source := range sources {
		source.ProcessingStatus = model.ProcessingFailed
		if err := r.store.UpdateSource(ctx, source); err != nil {
			logrus.Errorf("error failing stale source %s: %v", source.ID, err)
			continue
		}
		logrus.Warnf("source %s stuck since %s, marked failed", source.ID, source.UpdatedAt.Format(time.RFC3339))
	}

	if len(sources) > 0 {
		logrus.Infof("reaped %d stale sources", len(sources))
	}
}
