package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/teamtrack/backend/internal/api"
	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/store"
)

const maxUploadSize = 32 << 20 // 32MB

// Store defines the project persistence the handlers need.
type Store interface {
	CreateProject(ctx context.Context, name, description string) (*models.Project, error)
	GetProjectByID(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProjectFile(ctx context.Context, projectID int64, f *models.ProjectFile) (*models.ProjectFile, error)
	GetProjectFileByID(ctx context.Context, id int64) (*models.ProjectFile, error)
	ListProjectFiles(ctx context.Context) ([]models.ProjectFile, error)
}

// FileStore defines the interface for file blob storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds the project HTTP handlers.
type Handler struct {
	projects Store
	files    FileStore
}

func NewHandler(projects Store, files FileStore) *Handler {
	return &Handler{projects: projects, files: files}
}

// List returns every project, name-descending, with its file count.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.ListProjects(r.Context())
	if err != nil {
		log.Printf("list projects: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Project{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// Create adds a project with a unique name.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}

	project, err := h.projects.CreateProject(r.Context(), req.Name, req.Description)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			http.Error(w, `{"error":"project with that name already exists"}`, http.StatusConflict)
			return
		}
		log.Printf("create project: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusCreated, project)
}

// Detail returns a single project by id.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.NotFound(w)
		return
	}
	project, err := h.projects.GetProjectByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		log.Printf("get project %d: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, project)
}

// ListFiles returns metadata for every uploaded file.
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.projects.ListProjectFiles(r.Context())
	if err != nil {
		log.Printf("list files: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if files == nil {
		files = []models.ProjectFile{}
	}
	api.WriteJSON(w, http.StatusOK, files)
}

// UploadFile accepts a multipart upload ("project_id" + "file"), stores the
// blob in MinIO under a fresh uuid key and records the metadata row. The
// blob is removed again if the metadata write fails.
func (h *Handler) UploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
		return
	}
	projectID, err := strconv.ParseInt(r.FormValue("project_id"), 10, 64)
	if err != nil {
		http.Error(w, `{"error":"project_id is required"}`, http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, `{"error":"failed to read file"}`, http.StatusBadRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := uuid.New().String() + filepath.Ext(header.Filename)

	if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
		log.Printf("minio upload error: %v", err)
		http.Error(w, `{"error":"file storage error"}`, http.StatusInternalServerError)
		return
	}

	meta := &models.ProjectFile{
		Name:        header.Filename,
		ObjectKey:   key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}
	saved, err := h.projects.CreateProjectFile(r.Context(), projectID, meta)
	if err != nil {
		h.files.Remove(r.Context(), key)
		if errors.Is(err, store.ErrNotFound) {
			api.NotFound(w)
			return
		}
		log.Printf("create file metadata: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusCreated, saved)
}

// DownloadFile streams a stored file back with its original name.
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.NotFound(w)
		return
	}
	meta, err := h.projects.GetProjectFileByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		log.Printf("get file %d: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	data, ct, err := h.files.Download(r.Context(), meta.ObjectKey)
	if err != nil {
		log.Printf("minio download error: %v", err)
		http.Error(w, `{"error":"download failed"}`, http.StatusInternalServerError)
		return
	}
	if ct == "" {
		ct = meta.ContentType
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", meta.Name))
	w.Write(data)
}
