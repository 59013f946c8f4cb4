package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filedrop/filedrop/internal/file/biz"
	apperrors "github.com/filedrop/filedrop/internal/pkg/errors"
	"github.com/filedrop/filedrop/internal/pkg/logger"
	"github.com/filedrop/filedrop/internal/storage"
)

type memStore struct {
	objects map[string][]byte
	health  storage.Health
}

func newMemStore() *memStore {
	return &memStore{
		objects: make(map[string][]byte),
		health:  storage.Healthy(),
	}
}

func (s *memStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *memStore) Read(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, apperrors.New(apperrors.ErrObjectNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memStore) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memStore) Health(ctx context.Context) storage.Health {
	return s.health
}

type memRepo struct {
	records []*biz.FileRecord
	nextID  int
	health  storage.Health
}

func newMemRepo() *memRepo {
	return &memRepo{health: storage.Healthy()}
}

func (r *memRepo) Insert(ctx context.Context, input *biz.FileRecordInput) (string, error) {
	r.nextID++
	id := "656e6f7567686279746573" + string(rune('0'+r.nextID))
	r.records = append(r.records, &biz.FileRecord{
		ID:          id,
		Filename:    input.Filename,
		Size:        input.Size,
		ContentType: input.ContentType,
		UploadDate:  input.UploadDate,
		ObjectName:  input.ObjectName,
	})
	return id, nil
}

func (r *memRepo) List(ctx context.Context) ([]*biz.FileRecord, error) {
	return r.records, nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*biz.FileRecord, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, apperrors.New(apperrors.ErrFileNotFound, id)
}

func (r *memRepo) Health(ctx context.Context) storage.Health {
	return r.health
}

func setupRouter(store *memStore, repo *memRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)

	uc := biz.NewFileUseCase(store, repo, []string{".txt", ".jpg", ".png", ".json"}, logger.NewNop())
	svc := NewFileService(uc, logger.NewNop())

	router := gin.New()
	api := router.Group("/api")
	svc.RegisterRoutes(api)
	return router
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func decodeEnvelope(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Code    int             `json:"code"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))

	var data map[string]interface{}
	if len(envelope.Data) > 0 && envelope.Data[0] == '{' {
		require.NoError(t, json.Unmarshal(envelope.Data, &data))
	}
	return data
}

func TestUploadEndpoint(t *testing.T) {
	router := setupRouter(newMemStore(), newMemRepo())

	body, contentType := multipartBody(t, "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	data := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "notes.txt", data["filename"])
	assert.Equal(t, float64(5), data["size"])
	assert.NotEmpty(t, data["file_id"])
}

func TestUploadEndpointRejectsUnsupportedType(t *testing.T) {
	store := newMemStore()
	repo := newMemRepo()
	router := setupRouter(store, repo)

	body, contentType := multipartBody(t, "image.gif", []byte("GIF89a"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.records)
	assert.Empty(t, store.objects)
}

func TestUploadEndpointRejectsMissingFileField(t *testing.T) {
	router := setupRouter(newMemStore(), newMemRepo())

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("name", "value"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListEndpoint(t *testing.T) {
	store := newMemStore()
	repo := newMemRepo()
	router := setupRouter(store, repo)

	body, contentType := multipartBody(t, "a.txt", []byte("aa"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data []FileResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "a.txt", envelope.Data[0].Filename)
	assert.NotEmpty(t, envelope.Data[0].FileID)
	assert.False(t, envelope.Data[0].UploadDate.IsZero())
}

func TestDownloadEndpointRoundTrip(t *testing.T) {
	store := newMemStore()
	repo := newMemRepo()
	router := setupRouter(store, repo)

	body, contentType := multipartBody(t, "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeEnvelope(t, w.Body.Bytes())
	fileID := data["file_id"].(string)

	req = httptest.NewRequest(http.MethodGet, "/api/download/"+fileID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment`)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `notes.txt`)
}

func TestDownloadEndpointMalformedID(t *testing.T) {
	router := setupRouter(newMemStore(), newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/download/not-a-real-id", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthEndpointHealthy(t *testing.T) {
	router := setupRouter(newMemStore(), newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var report biz.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, storage.StatusHealthy, report.Status)
	assert.Equal(t, storage.StatusHealthy, report.Components.Database.Status)
	assert.Equal(t, storage.StatusHealthy, report.Components.Storage.Status)
}

func TestHealthEndpointUnhealthy(t *testing.T) {
	store := newMemStore()
	store.health = storage.Unhealthy("bucket unreachable")
	router := setupRouter(store, newMemRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var report biz.HealthReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, storage.StatusUnhealthy, report.Status)
	assert.Equal(t, "bucket unreachable", report.Components.Storage.Detail)
	assert.Equal(t, storage.StatusHealthy, report.Components.Database.Status)
}
