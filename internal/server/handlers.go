package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/contentpipe/contentpipe/internal/service"
)

// NewHandler wires the REST routes to the services.
func NewHandler(projects *service.ProjectService, sources *service.SourceService, drafts *service.DraftService, jwtSecret string) http.Handler {
	h := &handler{
		projects:  projects,
		sources:   sources,
		drafts:    drafts,
		jwtSecret: jwtSecret,
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.health)

	mux.HandleFunc("GET /api/v1/projects", h.listProjects)
	mux.HandleFunc("POST /api/v1/projects", h.createProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.getProject)
	mux.HandleFunc("PUT /api/v1/projects/{id}", h.updateProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", h.deleteProject)

	mux.HandleFunc("GET /api/v1/projects/{id}/sources", h.listSources)
	mux.HandleFunc("POST /api/v1/projects/{id}/sources", h.createSource)
	mux.HandleFunc("DELETE /api/v1/sources/{sourceId}", h.deleteSource)

	mux.HandleFunc("GET /api/v1/projects/{id}/drafts", h.listDrafts)
	mux.HandleFunc("POST /api/v1/projects/{id}/drafts", h.generateDraft)
	mux.HandleFunc("GET /api/v1/drafts/{draftId}", h.getDraft)
	mux.HandleFunc("POST /api/v1/drafts/{draftId}/refine", h.refineDraft)
	mux.HandleFunc("POST /api/v1/projects/{id}/export", h.exportDraft)

	return mux
}

type handler struct {
	projects  *service.ProjectService
	sources   *service.SourceService
	drafts    *service.DraftService
	jwtSecret string
}

func (h *handler) user(r *http.Request) string {
	return userFromRequest(r, h.jwtSecret)
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeData(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context(), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProjectDTOs(projects))
}

func (h *handler) createProject(w http.ResponseWriter, r *http.Request) {
	var in service.CreateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	project, err := h.projects.Create(r.Context(), h.user(r), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toProjectDTO(project))
}

func (h *handler) getProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetByID(r.Context(), r.PathValue("id"), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProjectDTO(project))
}

func (h *handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateProjectInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	project, err := h.projects.Update(r.Context(), r.PathValue("id"), h.user(r), &in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProjectDTO(project))
}

func (h *handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.Delete(r.Context(), r.PathValue("id"), h.user(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusNoContent, nil)
}

func (h *handler) listSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.ListByProject(r.Context(), r.PathValue("id"), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toSourceDTOs(sources))
}

// createSource accepts a JSON body with a url or note, or a multipart upload
// with a file part.
func (h *handler) createSource(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	userID := h.user(r)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		var body struct {
			URL  string `json:"url"`
			Note string `json:"note"`
		}
		if err := decodeJSON(r, &body); err != nil {
			writeError(w, r, err)
			return
		}

		switch {
		case body.URL != "":
			source, err := h.sources.CreateFromURL(r.Context(), projectID, userID, body.URL)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeData(w, r, http.StatusCreated, toSourceDTO(source))
		case body.Note != "":
			source, err := h.sources.CreateFromNote(r.Context(), projectID, userID, body.Note)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeData(w, r, http.StatusCreated, toSourceDTO(source))
		default:
			writeError(w, r, service.NewValidationError("must provide url or note"))
		}
		return
	}

	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		writeError(w, r, service.NewValidationError("invalid multipart body"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, service.NewValidationError("missing file part"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, service.MaxUploadSize+1))
	if err != nil {
		writeError(w, r, err)
		return
	}

	source, err := h.sources.CreateFromFile(r.Context(), projectID, userID, header.Filename, data)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toSourceDTO(source))
}

func (h *handler) deleteSource(w http.ResponseWriter, r *http.Request) {
	if err := h.sources.Delete(r.Context(), r.PathValue("sourceId"), h.user(r)); err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusNoContent, nil)
}

func (h *handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.drafts.ListByProject(r.Context(), r.PathValue("id"), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toDraftDTOs(drafts))
}

func (h *handler) generateDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.Generate(r.Context(), r.PathValue("id"), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toDraftDTO(draft))
}

func (h *handler) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.drafts.GetByID(r.Context(), r.PathValue("draftId"), h.user(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toDraftDTO(draft))
}

func (h *handler) refineDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Feedback     string `json:"feedback"`
		FeedbackType string `json:"feedbackType"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}

	revision, err := h.drafts.Refine(r.Context(), r.PathValue("draftId"), h.user(r), body.Feedback, body.FeedbackType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toRevisionDTO(revision))
}

func (h *handler) exportDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Format           string `json:"format"`
		IncludeCitations bool   `json:"includeCitations"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, r, err)
		return
	}
	if body.Format == "" {
		writeError(w, r, service.NewValidationError("format is required"))
		return
	}

	result, err := h.drafts.Export(r.Context(), r.PathValue("id"), h.user(r), body.Format, body.IncludeCitations)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, result)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return service.NewValidationError("invalid JSON body")
	}
	return nil
}
