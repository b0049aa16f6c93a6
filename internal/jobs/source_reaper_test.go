package jobs

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/store"
	"github.com/contentpipe/contentpipe/internal/tester"
)

func TestMain(m *testing.M) {
	tester.Setup()
	code := m.Run()

	os.Exit(code)
}

func seedSource(t *testing.T, s store.Store, status string) *model.Source {
	t.Helper()

	source := &model.Source{
		ID:               uuid.New().String(),
		ProjectID:        uuid.New().String(),
		SourceType:       model.SourceTypeURL,
		OriginalPath:     "https://example.com",
		Metadata:         []byte("{}"),
		ProcessingStatus: status,
	}
	assert.NoError(t, s.CreateSource(context.TODO(), source))
	return source
}

func TestSourceReaper(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	gormStore := store.NewGormStore(tester.TestDB())

	stuck := seedSource(t, gormStore, model.ProcessingPending)
	processing := seedSource(t, gormStore, model.ProcessingProcessing)
	done := seedSource(t, gormStore, model.ProcessingCompleted)

	// age the rows past the cutoff
	err := tester.TestDB().Model(&model.Source{}).
		Where("id in (?)", []string{stuck.ID, processing.ID}).
		UpdateColumn("updated_at", time.Now().Add(-2*time.Hour)).Error
	assert.NoError(t, err)

	reaper := NewSourceReaper(gormStore, time.Hour, "")
	assert.Equal(t, "source_reaper", reaper.Name())
	assert.Equal(t, "@every 5m", reaper.Schedule())

	reaper.Run()

	got, err := gormStore.GetSource(context.TODO(), uuid.MustParse(stuck.ID))
	assert.NoError(t, err)
	assert.Equal(t, model.ProcessingFailed, got.ProcessingStatus)

	got, err = gormStore.GetSource(context.TODO(), uuid.MustParse(processing.ID))
	assert.NoError(t, err)
	assert.Equal(t, model.ProcessingFailed, got.ProcessingStatus)

	// completed sources are left alone
	got, err = gormStore.GetSource(context.TODO(), uuid.MustParse(done.ID))
	assert.NoError(t, err)
	assert.Equal(t, model.ProcessingCompleted, got.ProcessingStatus)
}

func TestSourceReaper_NothingStale(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	gormStore := store.NewGormStore(tester.TestDB())
	fresh := seedSource(t, gormStore, model.ProcessingPending)

	NewSourceReaper(gormStore, time.Hour, "@every 1m").Run()

	got, err := gormStore.GetSource(context.TODO(), uuid.MustParse(fresh.ID))
	assert.NoError(t, err)
	assert.Equal(t, model.ProcessingPending, got.ProcessingStatus)
}
