package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf/pdftest"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/posts"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pptx"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
)

type testServer struct {
	handler http.Handler
	cfg     *config.Config
	posts   *posts.Store
	uploads *uploads.Store
}

func newTestServer(t *testing.T, password string) *testServer {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Auth.AdminPassword = password
	cfg.Conversion.Mode = "editable"

	up := uploads.NewStore(filepath.Join(dir, "uploads"))
	ps := posts.NewStore(filepath.Join(dir, "posts.json"), up, nil)

	return &testServer{
		handler: NewRouter(Deps{Config: cfg, Loader: pdf.NewLoader(nil), Posts: ps, Uploads: up}),
		cfg:     cfg,
		posts:   ps,
		uploads: up,
	}
}

func (s *testServer) do(t *testing.T, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func multipartBody(t *testing.T, fields map[string]string, fileName, fileType string, content []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", fileType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "pw")
	rec := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		body     string
		wantCode int
		wantOK   bool
		wantErr  string
	}{
		{name: "match", secret: "hunter2", body: `{"password":"hunter2"}`, wantCode: http.StatusOK, wantOK: true},
		{name: "mismatch", secret: "hunter2", body: `{"password":"nope"}`, wantCode: http.StatusUnauthorized, wantErr: "Invalid password"},
		{name: "missing secret", secret: "", body: `{"password":""}`, wantCode: http.StatusInternalServerError, wantErr: "Server misconfiguration"},
		{name: "bad body", secret: "hunter2", body: `{`, wantCode: http.StatusBadRequest, wantErr: "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, tt.secret)
			rec := s.do(t, http.MethodPost, "/api/login", strings.NewReader(tt.body), "application/json")
			assert.Equal(t, tt.wantCode, rec.Code)

			out := decode(t, rec)
			assert.Equal(t, tt.wantOK, out["success"])
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, out["error"])
			}
		})
	}
}

func TestUpload(t *testing.T) {
	s := newTestServer(t, "pw")

	body, ct := multipartBody(t, map[string]string{"type": "file"}, "Q3 report.pdf", "application/pdf", make([]byte, 12636))
	rec := s.do(t, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "Q3 report.pdf", out["name"])
	assert.Equal(t, "12.34 KB", out["size"])
	url, _ := out["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/files/"), url)
	assert.True(t, strings.HasSuffix(url, "-Q3report.pdf"), url)

	served := s.do(t, http.MethodGet, url, nil, "")
	assert.Equal(t, http.StatusOK, served.Code)
	assert.Equal(t, 12636, served.Body.Len())
}

func TestUploadImageKindAndMissingFile(t *testing.T) {
	s := newTestServer(t, "pw")

	body, ct := multipartBody(t, map[string]string{"type": "image"}, "cover.png", "image/png", []byte("png"))
	rec := s.do(t, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, rec.Code)
	url, _ := decode(t, rec)["url"].(string)
	assert.True(t, strings.HasPrefix(url, "/uploads/images/"), url)

	body, ct = multipartBody(t, map[string]string{"type": "file"}, "", "", nil)
	rec = s.do(t, http.MethodPost, "/api/upload", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file uploaded", decode(t, rec)["error"])
}

func TestPostsCRUD(t *testing.T) {
	s := newTestServer(t, "pw")

	rec := s.do(t, http.MethodPost, "/api/posts", strings.NewReader(`{"title":"Hello"}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Title and Slug are required", decode(t, rec)["error"])

	rec = s.do(t, http.MethodPost, "/api/posts", strings.NewReader(`{"title":"Hello","slug":"hello","viewCount":9}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	assert.Equal(t, "draft", created["status"])
	assert.EqualValues(t, 0, created["viewCount"])
	assert.NotEmpty(t, created["date"])
	assert.Equal(t, []interface{}{}, created["attachments"])

	rec = s.do(t, http.MethodPost, "/api/posts", strings.NewReader(`{"title":"Newer","slug":"newer","status":"published"}`), "application/json")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []posts.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Slug)

	rec = s.do(t, http.MethodGet, "/api/posts?status=published", nil, "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "newer", list[0].Slug)

	rec = s.do(t, http.MethodPut, "/api/posts/hello", strings.NewReader(`{"slug":"ignored","title":"Hello again","status":"published"}`), "application/json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", decode(t, rec)["slug"])

	rec = s.do(t, http.MethodGet, "/api/posts/hello", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello again", decode(t, rec)["title"])

	rec = s.do(t, http.MethodPost, "/api/posts/hello/views", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got, err := s.posts.Get("hello")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewCount)

	rec = s.do(t, http.MethodDelete, "/api/posts/hello", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = s.do(t, http.MethodGet, "/api/posts/hello", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", decode(t, rec)["error"])
}

func TestConvert(t *testing.T) {
	s := newTestServer(t, "pw")
	data := pdftest.Build(pdftest.Letter(pdftest.Text{X: 72, Y: 700, Size: 18, S: "Agenda"}))

	body, ct := multipartBody(t, nil, "agenda.pdf", "application/pdf", data)
	rec := s.do(t, http.MethodPost, "/api/convert", body, ct)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, pptx.MediaType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=agenda_converted.pptx`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "1", rec.Header().Get("X-Slide-Count"))

	pres, err := pptx.Read(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, pres.Slides, 1)
	require.Len(t, pres.Slides[0].TextBoxes, 1)
	assert.Equal(t, "Agenda", pres.Slides[0].TextBoxes[0].Text)
}

func TestConvertRejectsNonPDF(t *testing.T) {
	s := newTestServer(t, "pw")

	body, ct := multipartBody(t, nil, "photo.png", "image/png", []byte("\x89PNG"))
	rec := s.do(t, http.MethodPost, "/api/convert", body, ct)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["error"], "Error converting file: LoadError")

	body, ct = multipartBody(t, map[string]string{"mode": "vector"}, "a.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec = s.do(t, http.MethodPost, "/api/convert", body, ct)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, "pw")
	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://tech2ai.example")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://tech2ai.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
