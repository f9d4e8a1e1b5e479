package users

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/teamtrack/backend/internal/api"
	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/store"
)

// Store defines the user persistence the handlers need.
type Store interface {
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUsersByProject(ctx context.Context, projectID int64) ([]models.User, error)
}

// ProjectFinder resolves a project by its unique name; the list filter goes
// through it so tests can substitute a stub.
type ProjectFinder interface {
	GetProjectByName(ctx context.Context, name string) (*models.Project, error)
}

// Handler holds the user HTTP handlers.
type Handler struct {
	users    Store
	projects ProjectFinder
}

func NewHandler(users Store, projects ProjectFinder) *Handler {
	return &Handler{users: users, projects: projects}
}

// Register validates a registration request and creates the user. A clean
// request answers 201 with the projected user; any rule violation answers
// 400 with the full error map.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	if errs := ValidateRegistration(req); errs != nil {
		api.WriteJSON(w, http.StatusBadRequest, errs)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user := &models.User{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Position:  models.Position(req.Position),
		Password:  string(hashed),
	}
	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			api.WriteJSON(w, http.StatusBadRequest, ErrorMap{
				"username": {"A user with that username already exists."},
			})
			return
		}
		log.Printf("create user: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusCreated, toResponse(created))
}

// List returns all users, optionally narrowed to members of the project
// named by ?project_name=. An unconditionally empty collection answers
// 204: nothing exists at all, as opposed to nothing matching a filter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("project_name"); name != "" {
		h.listByProject(w, r, name)
		return
	}

	all, err := h.users.ListUsers(r.Context())
	if err != nil {
		log.Printf("list users: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if len(all) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponses(all))
}

func (h *Handler) listByProject(w http.ResponseWriter, r *http.Request, name string) {
	project, err := h.projects.GetProjectByName(r.Context(), name)
	if errors.Is(err, store.ErrNotFound) {
		// A filter that matches no project is an ordinary empty list.
		api.WriteJSON(w, http.StatusOK, []models.UserResponse{})
		return
	}
	if err != nil {
		log.Printf("resolve project %q: %v", name, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	members, err := h.users.ListUsersByProject(r.Context(), project.ID)
	if err != nil {
		log.Printf("list users by project: %v", err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponses(members))
}

// Detail returns a single user by id, or 404 with a detail message.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		api.NotFound(w)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.NotFound(w)
		return
	}
	if err != nil {
		log.Printf("get user %d: %v", id, err)
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	api.WriteJSON(w, http.StatusOK, toResponse(user))
}

func toResponse(u *models.User) models.UserResponse {
	return models.UserResponse{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Phone:     u.Phone,
		Position:  u.Position,
		LastLogin: u.LastLogin,
		Project:   u.ProjectName,
	}
}

func toResponses(us []models.User) []models.UserResponse {
	out := make([]models.UserResponse, 0, len(us))
	for i := range us {
		out = append(out, toResponse(&us[i]))
	}
	return out
}
