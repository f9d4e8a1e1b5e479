package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/teamtrack/backend/internal/api"
	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/store"
)

// Store defines the task and tag persistence the handlers need.
type Store interface {
	InsertTask(ctx context.Context, t *models.Task) (string, error)
	GetTaskByID(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, projectID int64) ([]models.Task, error)
	InsertTag(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTagByID(ctx context.Context, id string) (*models.Tag, error)
}

// Handler holds the task and tag HTTP handlers.
type Handler struct {
	tasks Store
}

func NewHandler(tasks Store) *Handler {
	return &Handler{tasks: tasks}
}

// List returns tasks, optionally narrowed by ?project_id=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var projectID int64
	if v := r.URL.Query().Get("project_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			http.Error(w, `{"error":"invalid project_id"}`, http.StatusBadRequest)
			return
		}
		projectID = id
	}

	list, err := h.tasks.ListTasks(r.Context(), projectID)
	if err != nil {
		log.Printf("list tasks: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []models.Task{}
	}
	api.WriteJSON(w, http.StatusOK, list)
}

// Create adds a task; status defaults to NEW.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}
	status := models.TaskStatus(req.Status)
	if req.Status == "" {
		status = models.TaskStatusNew
	} else if !status.Valid() {
		http.Error(w, `{"error":"invalid status"}`, http.StatusBadRequest)
		return
	}

	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		Status:      status,
		Tags:        req.Tags,
		ProjectID:   req.ProjectID,
		AssigneeID:  req.AssigneeID,
		Deadline:    req.Deadline,
	}
	id, err := h.tasks.InsertTask(r.Context(), task)
	if err != nil {
		log.Printf("insert task: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	// Re-fetch to return the stored document with its id.
	saved, err := h.tasks.GetTaskByID(r.Context(), id)
	if err != nil {
		log.Printf("get task %s: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusCreated, saved)
}

// ListTags returns every tag, sorted by name.
func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tasks.ListTags(r.Context())
	if err != nil {
		log.Printf("list tags: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if tags == nil {
		tags = []models.Tag{}
	}
	api.WriteJSON(w, http.StatusOK, tags)
}

// CreateTag adds a tag.
func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, `{"error":"name is required"}`, http.StatusBadRequest)
		return
	}

	tag, err := h.tasks.InsertTag(r.Context(), req.Name)
	if err != nil {
		log.Printf("insert tag: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusCreated, tag)
}

// TagDetail returns a single tag by id.
func (h *Handler) TagDetail(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tag, err := h.tasks.GetTagByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		log.Printf("get tag %s: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, tag)
}
