package user

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	myMiddleware "campus-chat/internal/middleware"
)

func seededHandler() *Handler {
	dir := NewDirectory()
	dir.Seed(DemoUsers()...)
	return NewHandler(NewService(dir))
}

func TestRegisterHandler(t *testing.T) {
	h := seededHandler()

	post := func(body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.Register(rec, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body)))
		return rec
	}

	rec := post(`{"name":"Rina","nim_nip":"09031282126099","email":"rina@student.unsri.ac.id","role":"Mahasiswa"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var res RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.NotEmpty(t, res.ID)
	assert.Equal(t, RoleStudent, res.Role)

	rec = post(`{"name":"Budi","nim_nip":"1","email":"budi.santoso@student.unsri.ac.id","role":"Mahasiswa"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = post(`{"name":"","nim_nip":"abc","email":"x","role":"Dosen"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nim_nip")

	rec = post(`{"name":"Tanpa Peran","nim_nip":"1","email":"tp@unsri.ac.id"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLecturersHandler(t *testing.T) {
	h := seededHandler()

	rec := httptest.NewRecorder()
	h.Lecturers(rec, httptest.NewRequest(http.MethodGet, "/api/lecturers?topic=Beasiswa", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	assert.ElementsMatch(t, []string{"l4", "l9"}, ids)

	rec = httptest.NewRecorder()
	h.Lecturers(rec, httptest.NewRequest(http.MethodGet, "/api/lecturers?topic=Olahraga", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMeHandler(t *testing.T) {
	h := seededHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(myMiddleware.WithIdentity(req.Context(), "l1", string(RoleLecturer)))
	rec := httptest.NewRecorder()
	h.Me(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Dr. Siti Aminah")
	assert.NotContains(t, rec.Body.String(), "password")

	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(myMiddleware.WithIdentity(req.Context(), "ghost", string(RoleStudent)))
	rec = httptest.NewRecorder()
	h.Me(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
