package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/contentpipe/contentpipe/internal/cache"
	"github.com/contentpipe/contentpipe/internal/compress"
	"github.com/contentpipe/contentpipe/internal/model"
	"github.com/contentpipe/contentpipe/internal/queue"
	"github.com/contentpipe/contentpipe/internal/store"
	"github.com/contentpipe/contentpipe/internal/tester"
)

const testUserID = "temp-user-id"

func newProjectService() *ProjectService {
	return NewProjectService(store.NewGormStore(tester.TestDB()), cache.NewNop())
}

func TestCreateProjectInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		in      *CreateProjectInput
		wantErr bool
	}{
		{
			name: "valid",
			in: &CreateProjectInput{
				Title:          "Remote work trends",
				ContentType:    model.ContentTypeBlog,
				TonePreference: model.ToneCasual,
				TargetLength:   1000,
			},
		},
		{
			name: "missing title",
			in: &CreateProjectInput{
				ContentType:    model.ContentTypeBlog,
				TonePreference: model.ToneCasual,
				TargetLength:   1000,
			},
			wantErr: true,
		},
		{
			name: "bad content type",
			in: &CreateProjectInput{
				Title:          "x",
				ContentType:    "poem",
				TonePreference: model.ToneCasual,
				TargetLength:   1000,
			},
			wantErr: true,
		},
		{
			name: "bad tone",
			in: &CreateProjectInput{
				Title:          "x",
				ContentType:    model.ContentTypeBlog,
				TonePreference: "sarcastic",
				TargetLength:   1000,
			},
			wantErr: true,
		},
		{
			name: "target length too short",
			in: &CreateProjectInput{
				Title:          "x",
				ContentType:    model.ContentTypeBlog,
				TonePreference: model.ToneCasual,
				TargetLength:   50,
			},
			wantErr: true,
		},
		{
			name: "target length too long",
			in: &CreateProjectInput{
				Title:          "x",
				ContentType:    model.ContentTypeBlog,
				TonePreference: model.ToneCasual,
				TargetLength:   20000,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				svcErr, ok := AsServiceError(err)
				assert.True(t, ok)
				assert.Equal(t, CodeValidation, svcErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProjectService_CreateRoundTrip(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := newProjectService()

	created, err := projects.Create(context.TODO(), testUserID, &CreateProjectInput{
		Title:          "T",
		ContentType:    model.ContentTypeBlog,
		TonePreference: model.ToneFormal,
		TargetLength:   500,
	})
	assert.NoError(t, err)
	assert.NotNil(t, created)
	assert.Equal(t, model.StatusDraft, created.Status)
	assert.Equal(t, int64(0), created.VersionCount)
	assert.Nil(t, created.CurrentVersionID)

	got, err := projects.GetByID(context.TODO(), created.ID, testUserID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, model.ContentTypeBlog, got.ContentType)
	assert.Equal(t, model.ToneFormal, got.TonePreference)
	assert.Equal(t, 500, got.TargetLength)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Equal(t, int64(0), got.VersionCount)
	assert.Nil(t, got.CurrentVersionID)
}

func TestProjectService_GetByID_NotFound(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := newProjectService()

	_, err := projects.GetByID(context.TODO(), uuid.New().String(), testUserID)
	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)

	// malformed id reads as not found, not as a validation failure
	_, err = projects.GetByID(context.TODO(), "not-a-uuid", testUserID)
	svcErr, ok = AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}

func TestProjectService_OwnershipHidesProjects(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := newProjectService()

	created, err := projects.Create(context.TODO(), "owner-a", &CreateProjectInput{
		Title:          "private research",
		ContentType:    model.ContentTypeArticle,
		TonePreference: model.ToneTechnical,
		TargetLength:   1200,
	})
	assert.NoError(t, err)

	// another caller sees not found, never forbidden
	_, err = projects.GetByID(context.TODO(), created.ID, "owner-b")
	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)

	list, err := projects.List(context.TODO(), "owner-b")
	assert.NoError(t, err)
	assert.Empty(t, list)

	list, err = projects.List(context.TODO(), "owner-a")
	assert.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestProjectService_Update(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	projects := newProjectService()

	created, err := projects.Create(context.TODO(), testUserID, &CreateProjectInput{
		Title:          "before",
		ContentType:    model.ContentTypeBlog,
		TonePreference: model.ToneCasual,
		TargetLength:   800,
	})
	assert.NoError(t, err)

	title := "after"
	tone := model.ToneTechnical
	updated, err := projects.Update(context.TODO(), created.ID, testUserID, &UpdateProjectInput{
		Title:          &title,
		TonePreference: &tone,
	})
	assert.NoError(t, err)
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, model.ToneTechnical, updated.TonePreference)
	// untouched fields survive the merge
	assert.Equal(t, model.ContentTypeBlog, updated.ContentType)
	assert.Equal(t, 800, updated.TargetLength)

	// other users cannot update
	_, err = projects.Update(context.TODO(), created.ID, "owner-b", &UpdateProjectInput{Title: &title})
	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}

func TestProjectService_DeleteCascades(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	gormStore := store.NewGormStore(tester.TestDB())
	projects := NewProjectService(gormStore, cache.NewNop())
	sources := NewSourceService(gormStore, projects, queue.NewNop(), compress.NewNop())

	created, err := projects.Create(context.TODO(), testUserID, &CreateProjectInput{
		Title:          "to delete",
		ContentType:    model.ContentTypeBlog,
		TonePreference: model.ToneCasual,
		TargetLength:   600,
	})
	assert.NoError(t, err)

	_, err = sources.CreateFromNote(context.TODO(), created.ID, testUserID, "some research note")
	assert.NoError(t, err)

	err = projects.Delete(context.TODO(), created.ID, testUserID)
	assert.NoError(t, err)

	_, err = projects.GetByID(context.TODO(), created.ID, testUserID)
	svcErr, ok := AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)

	remaining, err := gormStore.ListSources(context.TODO(), uuid.MustParse(created.ID))
	assert.NoError(t, err)
	assert.Empty(t, remaining)

	// deleting an already deleted project reads as not found
	err = projects.Delete(context.TODO(), created.ID, testUserID)
	svcErr, ok = AsServiceError(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, svcErr.Code)
}
