package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/contentpipe/contentpipe/internal/cache"
	"github.com/contentpipe/contentpipe/internal/compress"
	"github.com/contentpipe/contentpipe/internal/generator"
	"github.com/contentpipe/contentpipe/internal/queue"
	"github.com/contentpipe/contentpipe/internal/service"
	"github.com/contentpipe/contentpipe/internal/store"
	"github.com/contentpipe/contentpipe/internal/tester"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	tester.RemoveDBFile()
	tester.Setup()

	gormStore := store.NewGormStore(tester.TestDB())
	projects := service.NewProjectService(gormStore, cache.NewNop())
	sources := service.NewSourceService(gormStore, projects, queue.NewNop(), compress.NewNop())
	drafts := service.NewDraftService(gormStore, projects, generator.NewService(nil, time.Minute), cache.NewNop(), compress.NewNop())

	return RequestTimeMiddleware(NewHandler(projects, sources, drafts, ""))
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *ErrorBody      `json:"error"`
	Meta    Meta            `json:"meta"`
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, *testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code == http.StatusNoContent {
		return rec, nil
	}

	var env testEnvelope
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, &env
}

func TestHealthRoute(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Meta.RequestID)
	assert.NotEmpty(t, env.Meta.Timestamp)
	assert.Equal(t, env.Meta.RequestID, rec.Header().Get("X-Request-Id"))
}

func TestProjectRoutes(t *testing.T) {
	h := newTestHandler(t)

	// create
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"title":          "Remote Work Trends",
		"contentType":    "blog",
		"tonePreference": "casual",
		"targetLength":   800,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var created struct {
		ID               string  `json:"id"`
		Status           string  `json:"status"`
		VersionCount     int64   `json:"versionCount"`
		CurrentVersionID *string `json:"currentVersionId"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "draft", created.Status)
	assert.Equal(t, int64(0), created.VersionCount)
	assert.Nil(t, created.CurrentVersionID)

	// read back
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/projects/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	// list
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/projects", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	assert.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)

	// update
	rec, env = doJSON(t, h, http.MethodPut, "/api/v1/projects/"+created.ID, map[string]interface{}{
		"title": "Remote Work in 2026",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	// delete
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/projects/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())

	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/projects/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, service.CodeNotFound, env.Error.Code)
}

func TestProjectValidationErrors(t *testing.T) {
	h := newTestHandler(t)

	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"title":          "",
		"contentType":    "blog",
		"tonePreference": "casual",
		"targetLength":   800,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, service.CodeValidation, env.Error.Code)

	// malformed body
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusBadRequest, rec2.Code)
}

func createTestProject(t *testing.T, h http.Handler) string {
	t.Helper()

	_, env := doJSON(t, h, http.MethodPost, "/api/v1/projects", map[string]interface{}{
		"title":          "fixture",
		"contentType":    "article",
		"tonePreference": "technical",
		"targetLength":   500,
	})
	var created struct {
		ID string `json:"id"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &created))
	return created.ID
}

func TestSourceRoutes(t *testing.T) {
	h := newTestHandler(t)
	projectID := createTestProject(t, h)

	// note source
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/sources", map[string]string{
		"note": "Remote work has increased by 300% since 2020 according to the survey.",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	var note struct {
		ID               string `json:"id"`
		SourceType       string `json:"sourceType"`
		ProcessingStatus string `json:"processingStatus"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &note))
	assert.Equal(t, "note", note.SourceType)
	assert.Equal(t, "completed", note.ProcessingStatus)

	// url source
	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/sources", map[string]string{
		"url": "https://example.com/study",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var url struct {
		SourceType       string `json:"sourceType"`
		ProcessingStatus string `json:"processingStatus"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &url))
	assert.Equal(t, "url", url.SourceType)
	assert.Equal(t, "pending", url.ProcessingStatus)

	// file upload
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "notes.txt")
	assert.NoError(t, err)
	_, err = part.Write([]byte("uploaded research material"))
	assert.NoError(t, err)
	assert.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/"+projectID+"/sources", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	assert.Equal(t, http.StatusCreated, rec2.Code)

	// neither url nor note
	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/sources", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.CodeValidation, env.Error.Code)

	// list
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/projects/"+projectID+"/sources", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var list []json.RawMessage
	assert.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 3)

	// delete
	rec, _ = doJSON(t, h, http.MethodDelete, "/api/v1/sources/"+note.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDraftRoutes(t *testing.T) {
	h := newTestHandler(t)
	projectID := createTestProject(t, h)

	// generating before any source exists fails and mutates nothing
	rec, env := doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/drafts", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.CodeValidation, env.Error.Code)
	assert.Equal(t, "No sources found. Please add sources before generating content.", env.Error.Message)

	_, _ = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/sources", map[string]string{
		"note": "Remote work has increased by 300% since 2020. Companies report higher productivity with distributed teams.",
	})

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/drafts", nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var draft struct {
		ID            string          `json:"id"`
		VersionNumber int64           `json:"versionNumber"`
		Content       string          `json:"content"`
		Citations     json.RawMessage `json:"citations"`
		QualityScore  float64         `json:"qualityScore"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &draft))
	assert.Equal(t, int64(1), draft.VersionNumber)
	assert.NotEmpty(t, draft.Content)
	assert.GreaterOrEqual(t, draft.QualityScore, 0.5)

	var citations []map[string]interface{}
	assert.NoError(t, json.Unmarshal(draft.Citations, &citations))
	assert.Len(t, citations, 1)

	// the project pointer advanced
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/projects/"+projectID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	var project struct {
		VersionCount     int64   `json:"versionCount"`
		CurrentVersionID *string `json:"currentVersionId"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &project))
	assert.Equal(t, int64(1), project.VersionCount)
	assert.NotNil(t, project.CurrentVersionID)
	assert.Equal(t, draft.ID, *project.CurrentVersionID)

	// fetch the draft by id
	rec, env = doJSON(t, h, http.MethodGet, "/api/v1/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// refine
	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/drafts/"+draft.ID+"/refine", map[string]string{
		"feedback":     "tighten the introduction",
		"feedbackType": "structural",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	var revision struct {
		ChangeSummary         string `json:"changeSummary"`
		AlternativesGenerated int    `json:"alternativesGenerated"`
		IntentPreserved       bool   `json:"intentPreserved"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &revision))
	assert.Equal(t, "Refinement applied", revision.ChangeSummary)
	assert.Equal(t, 1, revision.AlternativesGenerated)
	assert.True(t, revision.IntentPreserved)

	// export
	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/export", map[string]interface{}{
		"format":           "markdown",
		"includeCitations": true,
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	var export struct {
		Content string `json:"content"`
		Format  string `json:"format"`
	}
	assert.NoError(t, json.Unmarshal(env.Data, &export))
	assert.Equal(t, "markdown", export.Format)
	assert.Contains(t, export.Content, "## Citations")

	rec, env = doJSON(t, h, http.MethodPost, "/api/v1/projects/"+projectID+"/export", map[string]interface{}{
		"format": "docx",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, service.CodeValidation, env.Error.Code)
}
