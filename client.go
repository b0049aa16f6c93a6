package contentpipe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client is a typed HTTP client for the contentpipe REST API.
type Client interface {
	ListProjects(ctx context.Context) ([]*Project, error)
	CreateProject(ctx context.Context, in *CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	UpdateProject(ctx context.Context, id string, in *UpdateProjectRequest) (*Project, error)
	DeleteProject(ctx context.Context, id string) error

	ListSources(ctx context.Context, projectID string) ([]*Source, error)
	AddURLSource(ctx context.Context, projectID, url string) (*Source, error)
	AddNoteSource(ctx context.Context, projectID, note string) (*Source, error)
	AddFileSource(ctx context.Context, projectID, filename string, content io.Reader) (*Source, error)
	DeleteSource(ctx context.Context, sourceID string) error

	GenerateDraft(ctx context.Context, projectID string) (*Draft, error)
	ListDrafts(ctx context.Context, projectID string) ([]*Draft, error)
	GetDraft(ctx context.Context, draftID string) (*Draft, error)
	RefineDraft(ctx context.Context, draftID string, in *RefineRequest) (*Revision, error)
	ExportProject(ctx context.Context, projectID string, in *ExportRequest) (*Export, error)
}

type Project struct {
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

type Source struct {
	ID               string          `json:"id"`
	ProjectID        string          `json:"projectId"`
	SourceType       string          `json:"sourceType"`
	OriginalPath     string          `json:"originalPath"`
	ExtractedText    string          `json:"extractedText"`
	Metadata         json.RawMessage `json:"metadata"`
	ProcessingStatus string          `json:"processingStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type Draft struct {
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

type Revision struct {
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

type Export struct {
	Content string `json:"content"`
	Format  string `json:"format"`
}

type CreateProjectRequest struct {
	Title          string `json:"title"`
	ContentType    string `json:"contentType"`
	TonePreference string `json:"tonePreference,omitempty"`
	TargetLength   int    `json:"targetLength,omitempty"`
}

type UpdateProjectRequest struct {
	Title          *string `json:"title,omitempty"`
	ContentType    *string `json:"contentType,omitempty"`
	TonePreference *string `json:"tonePreference,omitempty"`
	TargetLength   *int    `json:"targetLength,omitempty"`
	Status         *string `json:"status,omitempty"`
}

type RefineRequest struct {
	Feedback     string `json:"feedback"`
	FeedbackType string `json:"feedbackType"`
}

type ExportRequest struct {
	Format           string `json:"format"`
	IncludeCitations bool   `json:"includeCitations"`
}

// APIError is the error body returned inside the server response envelope.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
}

type client struct {
	base  string
	token string
	http  *http.Client
}

// NewClient connects to a contentpipe server, e.g. http://localhost:4020.
func NewClient(baseURL, token string) Client {
	return &client{
		base:  strings.TrimRight(baseURL, "/") + "/api/v1",
		token: token,
		http:  &http.Client{Timeout: 5 * time.Minute},
	}
}

func (c *client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		return env.Error
	}
	if !env.Success {
		return fmt.Errorf("request failed with status %d", res.StatusCode)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(buf)
	}
	return c.do(ctx, method, path, body, "application/json", out)
}

func (c *client) ListProjects(ctx context.Context) ([]*Project, error) {
	var projects []*Project
	err := c.doJSON(ctx, http.MethodGet, "/projects", nil, &projects)
	return projects, err
}

func (c *client) CreateProject(ctx context.Context, in *CreateProjectRequest) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodPost, "/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *client) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodGet, "/projects/"+id, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *client) UpdateProject(ctx context.Context, id string, in *UpdateProjectRequest) (*Project, error) {
	var project Project
	if err := c.doJSON(ctx, http.MethodPut, "/projects/"+id, in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *client) DeleteProject(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/projects/"+id, nil, nil)
}

func (c *client) ListSources(ctx context.Context, projectID string) ([]*Source, error) {
	var sources []*Source
	err := c.doJSON(ctx, http.MethodGet, "/projects/"+projectID+"/sources", nil, &sources)
	return sources, err
}

func (c *client) AddURLSource(ctx context.Context, projectID, url string) (*Source, error) {
	var source Source
	err := c.doJSON(ctx, http.MethodPost, "/projects/"+projectID+"/sources", map[string]string{"url": url}, &source)
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (c *client) AddNoteSource(ctx context.Context, projectID, note string) (*Source, error) {
	var source Source
	err := c.doJSON(ctx, http.MethodPost, "/projects/"+projectID+"/sources", map[string]string{"note": note}, &source)
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (c *client) AddFileSource(ctx context.Context, projectID, filename string, content io.Reader) (*Source, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var source Source
	err = c.do(ctx, http.MethodPost, "/projects/"+projectID+"/sources", &buf, mw.FormDataContentType(), &source)
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (c *client) DeleteSource(ctx context.Context, sourceID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/sources/"+sourceID, nil, nil)
}

func (c *client) GenerateDraft(ctx context.Context, projectID string) (*Draft, error) {
	var draft Draft
	if err := c.doJSON(ctx, http.MethodPost, "/projects/"+projectID+"/drafts", nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *client) ListDrafts(ctx context.Context, projectID string) ([]*Draft, error) {
	var drafts []*Draft
	err := c.doJSON(ctx, http.MethodGet, "/projects/"+projectID+"/drafts", nil, &drafts)
	return drafts, err
}

func (c *client) GetDraft(ctx context.Context, draftID string) (*Draft, error) {
	var draft Draft
	if err := c.doJSON(ctx, http.MethodGet, "/drafts/"+draftID, nil, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *client) RefineDraft(ctx context.Context, draftID string, in *RefineRequest) (*Revision, error) {
	var revision Revision
	if err := c.doJSON(ctx, http.MethodPost, "/drafts/"+draftID+"/refine", in, &revision); err != nil {
		return nil, err
	}
	return &revision, nil
}

func (c *client) ExportProject(ctx context.Context, projectID string, in *ExportRequest) (*Export, error) {
	var export Export
	if err := c.doJSON(ctx, http.MethodPost, "/projects/"+projectID+"/export", in, &export); err != nil {
		return nil, err
	}
	return &export, nil
}
