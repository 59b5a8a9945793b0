package blob

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutGet(t *testing.T) {
	s := NewStore("https://chat.unsri.ac.id/")

	data := []byte("%PDF-1.4")
	ref := s.Put("krs.pdf", "application/pdf", data)
	assert.Equal(t, "https://chat.unsri.ac.id/files/"+ref.ID, ref.URL)
	assert.Equal(t, int64(len(data)), ref.Size)

	data[0] = 'X'
	got, body, err := s.Get(ref.ID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", got.MIMEType)
	assert.Equal(t, []byte("%PDF-1.4"), body, "stored bytes are a copy")

	_, _, err = s.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Equal(t, "application/octet-stream", s.Put("x", "", nil).MIMEType)
	assert.Equal(t, "/files/", NewStore("").Put("x", "text/plain", nil).URL[:7])
}

func TestUploadAndServe(t *testing.T) {
	s := NewStore("")
	h := NewHandler(s)
	r := chi.NewRouter()
	r.Post("/api/files", h.Upload)
	r.Get("/files/{id}", h.Serve)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="foto.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var ref Ref
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ref))
	assert.Equal(t, "foto.jpg", ref.Name)
	assert.Equal(t, "image/jpeg", ref.MIMEType)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref.URL, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "not really a jpeg", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/files", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeNeverRendersUploadedMarkup(t *testing.T) {
	s := NewStore("")
	h := NewHandler(s)
	r := chi.NewRouter()
	r.Get("/files/{id}", h.Serve)

	tests := []struct {
		name        string
		mime        string
		disposition string
	}{
		{"html", "text/html", `attachment; filename="x.html"`},
		{"svg", "image/svg+xml", `attachment; filename="x.html"`},
		{"photo", "image/png", `inline; filename="x.html"`},
		{"video", "video/mp4", `inline; filename="x.html"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := s.Put("x.html", tt.mime, []byte("<script>alert(1)</script>"))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, ref.URL, nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.disposition, rec.Header().Get("Content-Disposition"))
			assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
			assert.Equal(t, "sandbox", rec.Header().Get("Content-Security-Policy"))
		})
	}
}
