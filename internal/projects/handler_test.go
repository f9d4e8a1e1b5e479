package projects

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamtrack/backend/internal/models"
	"github.com/teamtrack/backend/internal/store"
)

// --- fakes ---

type fakeProjectStore struct {
	byID  map[int64]*models.Project
	list  []models.Project
	files map[int64]*models.ProjectFile

	createdFile *models.ProjectFile
	linkedTo    int64
	createErr   error
	fileErr     error
}

func (f *fakeProjectStore) CreateProject(ctx context.Context, name, description string) (*models.Project, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Project{ID: 1, Name: name, Description: description, CreatedAt: time.Now()}, nil
}

func (f *fakeProjectStore) GetProjectByID(ctx context.Context, id int64) (*models.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return p, nil
}

func (f *fakeProjectStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	return f.list, nil
}

func (f *fakeProjectStore) CreateProjectFile(ctx context.Context, projectID int64, pf *models.ProjectFile) (*models.ProjectFile, error) {
	if f.fileErr != nil {
		return nil, f.fileErr
	}
	pf.ID = 1
	pf.UploadedAt = time.Now()
	f.createdFile = pf
	f.linkedTo = projectID
	return pf, nil
}

func (f *fakeProjectStore) GetProjectFileByID(ctx context.Context, id int64) (*models.ProjectFile, error) {
	pf, ok := f.files[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return pf, nil
}

func (f *fakeProjectStore) ListProjectFiles(ctx context.Context) ([]models.ProjectFile, error) {
	out := make([]models.ProjectFile, 0, len(f.files))
	for _, pf := range f.files {
		out = append(out, *pf)
	}
	return out, nil
}

type fakeFileStore struct {
	blobs map[string][]byte
	types map[string]string
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{blobs: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeFileStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	f.blobs[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeFileStore) Download(ctx context.Context, key string) ([]byte, string, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, "", store.ErrNotFound
	}
	return data, f.types[key], nil
}

func (f *fakeFileStore) Remove(ctx context.Context, key string) error {
	delete(f.blobs, key)
	delete(f.types, key)
	return nil
}

func newTestRouter(ps Store, fs FileStore) http.Handler {
	h := NewHandler(ps, fs)
	r := chi.NewRouter()
	r.Route("/api/v1/projects", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/files", h.ListFiles)
		r.Post("/files", h.UploadFile)
		r.Get("/files/{id}", h.DownloadFile)
		r.Get("/{id}", h.Detail)
	})
	return r
}

// --- tests ---

func TestList_IncludesFileCount(t *testing.T) {
	ps := &fakeProjectStore{list: []models.Project{
		{ID: 1, Name: "Project 1", FileCount: 2},
	}}
	router := newTestRouter(ps, newFakeFileStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Project 1", resp[0]["name"])
	assert.Equal(t, float64(2), resp[0]["count_of_files"])
}

func TestCreate_Success(t *testing.T) {
	router := newTestRouter(&fakeProjectStore{}, newFakeFileStore())

	body, _ := json.Marshal(models.CreateProjectRequest{Name: "Project 1", Description: "first"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreate_DuplicateName(t *testing.T) {
	router := newTestRouter(&fakeProjectStore{createErr: store.ErrDuplicate}, newFakeFileStore())

	body, _ := json.Marshal(models.CreateProjectRequest{Name: "Project 1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDetail_NotFound(t *testing.T) {
	router := newTestRouter(&fakeProjectStore{}, newFakeFileStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "detail")
}

func uploadRequest(t *testing.T, projectID, filename string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("project_id", projectID))
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadFile_Success(t *testing.T) {
	ps := &fakeProjectStore{}
	fs := newFakeFileStore()
	router := newTestRouter(ps, fs)

	data := []byte("file contents")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "7", "spec.pdf", data))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NotNil(t, ps.createdFile)
	assert.Equal(t, int64(7), ps.linkedTo)
	assert.Equal(t, "spec.pdf", ps.createdFile.Name)
	assert.Equal(t, int64(len(data)), ps.createdFile.Size)
	assert.Equal(t, data, fs.blobs[ps.createdFile.ObjectKey])
}

func TestUploadFile_UnknownProject(t *testing.T) {
	ps := &fakeProjectStore{fileErr: store.ErrNotFound}
	fs := newFakeFileStore()
	router := newTestRouter(ps, fs)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "99", "spec.pdf", []byte("x")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	// The orphaned blob is cleaned up again.
	assert.Empty(t, fs.blobs)
}

func TestDownloadFile_Success(t *testing.T) {
	ps := &fakeProjectStore{files: map[int64]*models.ProjectFile{
		1: {ID: 1, Name: "spec.pdf", ObjectKey: "abc.pdf", ContentType: "application/pdf"},
	}}
	fs := newFakeFileStore()
	fs.blobs["abc.pdf"] = []byte("%PDF-1.4")
	fs.types["abc.pdf"] = "application/pdf"
	router := newTestRouter(ps, fs)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/files/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "spec.pdf")
	assert.Equal(t, []byte("%PDF-1.4"), rec.Body.Bytes())
}

func TestDownloadFile_NotFound(t *testing.T) {
	router := newTestRouter(&fakeProjectStore{}, newFakeFileStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/files/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
