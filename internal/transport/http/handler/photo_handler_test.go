package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"memory-gallery/internal/core/auth"
	"memory-gallery/internal/domain"
	"memory-gallery/internal/service"
	"memory-gallery/internal/transport/http/handler"
	"memory-gallery/internal/transport/http/router"
)

type photosMem struct {
	seq  uint
	rows map[uint]*domain.Photo
}

func (m *photosMem) Create(_ context.Context, p *domain.Photo) error {
	m.seq++
	p.ID = m.seq
	cp := *p
	m.rows[p.ID] = &cp
	return nil
}

func (m *photosMem) ByID(_ context.Context, id uint) (*domain.Photo, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *photosMem) ByPath(_ context.Context, path string) (*domain.Photo, error) {
	for _, p := range m.rows {
		if p.Path == path {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *photosMem) ByGrade(_ context.Context, grade int) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range m.rows {
		if p.Grade == grade {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *photosMem) ByParallel(_ context.Context, parallel string) ([]domain.Photo, error) {
	var out []domain.Photo
	for _, p := range m.rows {
		if p.Parallel == parallel {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *photosMem) All(_ context.Context) ([]domain.Photo, error) {
	out := make([]domain.Photo, 0, len(m.rows))
	for _, p := range m.rows {
		out = append(out, *p)
	}
	return out, nil
}

func (m *photosMem) Update(_ context.Context, id uint, fields map[string]any) (*domain.Photo, error) {
	p, ok := m.rows[id]
	if !ok {
		return nil, nil
	}
	if v, set := fields["description"]; set {
		p.Description = v.(string)
	}
	if v, set := fields["grade"]; set {
		p.Grade = v.(int)
	}
	if v, set := fields["parallel"]; set {
		p.Parallel = v.(string)
	}
	if v, set := fields["date"]; set {
		p.Date = v.(time.Time)
	}
	if v, set := fields["updated_at"]; set {
		p.UpdatedAt = v.(time.Time)
	}
	cp := *p
	return &cp, nil
}

func (m *photosMem) Delete(_ context.Context, id uint) (bool, error) {
	if _, ok := m.rows[id]; !ok {
		return false, nil
	}
	delete(m.rows, id)
	return true, nil
}

type filesMem struct{ files map[string][]byte }

func (m *filesMem) Save(name string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "mem/" + name
	m.files[path] = b
	return path, nil
}

func (m *filesMem) Open(path string) (io.ReadCloser, error) {
	b, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *filesMem) Remove(path string) error {
	delete(m.files, path)
	return nil
}

type photoEnv struct {
	engine *gin.Engine
	photos *photosMem
	files  *filesMem
	token  string
}

func newPhotoEnv(t *testing.T, csrfCheck bool) *photoEnv {
	t.Helper()
	log := zap.NewNop()
	jwter := &auth.JWTer{
		Secret:     []byte("test-secret"),
		Issuer:     "gallery-test",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
	users := &usersMem{rows: map[uint]*domain.User{}}
	userSvc := service.NewUserService(users, jwter, log)

	photos := &photosMem{rows: map[uint]*domain.Photo{}}
	files := &filesMem{files: map[string][]byte{}}
	photoSvc := service.NewPhotoService(photos, files, nil, 0, log)

	engine := router.NewAPIEngine(router.Deps{
		Log:       log,
		JWTer:     jwter,
		RoleOf:    userSvc.RoleOf,
		Auth:      handler.NewAuthHandler(userSvc),
		Users:     handler.NewUserHandler(userSvc),
		Photos:    handler.NewPhotoHandler(photoSvc),
		CSRFCheck: csrfCheck,
	})

	ctx := context.Background()
	require.NoError(t, userSvc.Register(ctx, service.RegisterInput{
		FirstName: "John", LastName: "Doe",
		Email: "a@b.com", Password: "Passw0rd", Role: domain.RoleUser,
	}))
	pair, err := userSvc.Login(ctx, "a@b.com", "Passw0rd")
	require.NoError(t, err)

	return &photoEnv{engine: engine, photos: photos, files: files, token: pair.AccessToken}
}

func multipartUpload(t *testing.T, fileName string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", fileName)
	require.NoError(t, err)
	_, err = fw.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *photoEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *photoEnv) upload(t *testing.T, fileName string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartUpload(t, fileName, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+e.token)
	return e.do(req)
}

var validFields = map[string]string{
	"date":        "2025-09-09",
	"description": "Фото 10А класса",
	"grade":       "10",
	"parallel":    "А",
}

func TestUploadPhoto(t *testing.T) {
	e := newPhotoEnv(t, false)

	w := e.upload(t, "class.jpg", validFields)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, e.photos.rows, 1)
	assert.Len(t, e.files.files, 1)
}

func TestUploadRequiresAuth(t *testing.T) {
	e := newPhotoEnv(t, false)

	body, ct := multipartUpload(t, "class.jpg", validFields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", ct)
	w := e.do(req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, e.files.files)
}

func TestUploadValidation(t *testing.T) {
	e := newPhotoEnv(t, false)

	w := e.upload(t, "class.gif", validFields)
	assert.Equal(t, http.StatusBadRequest, w.Code, "disallowed extension")

	bad := map[string]string{
		"date": "2025-09-09", "description": "x", "grade": "13", "parallel": "А",
	}
	w = e.upload(t, "class.jpg", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code, "grade out of range")

	bad["grade"] = "10"
	bad["parallel"] = "AB"
	w = e.upload(t, "class.jpg", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code, "parallel must be one Cyrillic letter")

	assert.Empty(t, e.files.files, "rejected uploads must not write files")
}

func TestPhotoCRUDFlow(t *testing.T) {
	e := newPhotoEnv(t, false)

	require.Equal(t, http.StatusOK, e.upload(t, "class.jpg", validFields).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/photos/1", nil)
	w := e.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var p domain.Photo
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, 10, p.Grade)
	assert.Equal(t, "А", p.Parallel)

	// filter hit and miss
	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/photos/grade/10", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/photos/grade/3", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// stored bytes are streamed back
	w = e.do(httptest.NewRequest(http.MethodGet, "/api/v1/photos/1/file", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image-bytes", w.Body.String())

	// update
	upd, err := json.Marshal(gin.H{
		"date": "2025-10-01T00:00:00Z", "description": "updated",
		"grade": 11, "parallel": "Б",
	})
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPut, "/api/v1/photos/1", bytes.NewReader(upd))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token)
	w = e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 11, e.photos.rows[1].Grade)

	// delete removes row and file
	req = httptest.NewRequest(http.MethodDelete, "/api/v1/photos/1", nil)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w = e.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, e.photos.rows)
	assert.Empty(t, e.files.files)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/photos/1", nil)
	req.Header.Set("Authorization", "Bearer "+e.token)
	w = e.do(req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCSRFCheckOnMutations(t *testing.T) {
	e := newPhotoEnv(t, true)

	w := e.upload(t, "class.jpg", validFields)
	assert.Equal(t, http.StatusForbidden, w.Code, "mutation without CSRF token")

	body, ct := multipartUpload(t, "class.jpg", validFields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/photos", body)
	req.Header.Set("Content-Type", ct)
	req.Header.Set("Authorization", "Bearer "+e.token)
	req.Header.Set("X-CSRF-Token", auth.NewCSRFToken())
	w = e.do(req)
	assert.Equal(t, http.StatusOK, w.Code)
}
