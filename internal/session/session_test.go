package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	myMiddleware "campus-chat/internal/middleware"
	"campus-chat/internal/user"
)

func newTestService(t *testing.T) (*Service, *user.Service) {
	t.Helper()
	dir := user.NewDirectory()
	dir.Seed(user.DemoUsers()...)
	return NewService(dir, "test-secret", time.Hour), user.NewService(dir)
}

func TestLoginSeededUser(t *testing.T) {
	s, _ := newTestService(t)

	res, err := s.Login(context.Background(), Credentials{
		Email:           "BUDI.SANTOSO@student.unsri.ac.id",
		InstitutionalID: "09031282126001",
		Role:            string(user.RoleStudent),
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", res.User.ID)
	assert.NotEmpty(t, res.AccessToken)

	id, role, err := s.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.Equal(t, string(user.RoleStudent), role)
}

func TestLoginFailures(t *testing.T) {
	s, _ := newTestService(t)

	cases := map[string]Credentials{
		"wrong role":   {Email: "budi.santoso@student.unsri.ac.id", InstitutionalID: "09031282126001", Role: string(user.RoleLecturer)},
		"wrong nim":    {Email: "budi.santoso@student.unsri.ac.id", InstitutionalID: "1", Role: string(user.RoleStudent)},
		"unknown mail": {Email: "nobody@unsri.ac.id", InstitutionalID: "09031282126001", Role: string(user.RoleStudent)},
		"no role":      {Email: "budi.santoso@student.unsri.ac.id", InstitutionalID: "09031282126001"},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Login(context.Background(), c)
			assert.ErrorIs(t, err, ErrAuthFailed)
			assert.Equal(t, "Login gagal. Email, NIM/NIP, atau peran tidak cocok.", err.Error())
		})
	}
}

func TestRegisterThenLoginWithPassword(t *testing.T) {
	s, users := newTestService(t)

	_, err := users.Register(context.Background(), &user.Registration{
		Name:            "Rudi",
		InstitutionalID: "09031282126099",
		Email:           "rudi@student.unsri.ac.id",
		Role:            user.RoleStudent,
		Password:        "rahasia1",
		PasswordConfirm: "rahasia1",
	})
	require.NoError(t, err)

	creds := Credentials{Email: "rudi@student.unsri.ac.id", InstitutionalID: "09031282126099", Role: string(user.RoleStudent)}

	_, err = s.Login(context.Background(), creds)
	assert.ErrorIs(t, err, ErrAuthFailed, "password required once set")

	creds.Password = "rahasia1"
	res, err := s.Login(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "Rudi", res.User.Name)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	s, _ := newTestService(t)
	res, err := s.Login(context.Background(), Credentials{Email: "siti.aminah@unsri.ac.id", InstitutionalID: "198001012005012001", Role: string(user.RoleLecturer)})
	require.NoError(t, err)

	other := NewService(user.NewDirectory(), "other-secret", time.Hour)
	_, _, err = other.ValidateToken(res.AccessToken)
	assert.ErrorIs(t, err, ErrBadToken)

	_, _, err = s.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestValidateTokenExpired(t *testing.T) {
	s, _ := newTestService(t)
	issued := time.Now().Add(-2 * time.Hour)
	s.now = func() time.Time { return issued }

	res, err := s.Login(context.Background(), Credentials{Email: "ahmad.fauzi@unsri.ac.id", InstitutionalID: "199002022015031002", Role: string(user.RoleStaff)})
	require.NoError(t, err)

	s.now = time.Now
	_, _, err = s.ValidateToken(res.AccessToken)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestAuthorize(t *testing.T) {
	assert.NoError(t, Authorize(user.RoleStudent, StartConsultation))
	assert.ErrorIs(t, Authorize(user.RoleLecturer, StartConsultation), ErrForbidden)
	assert.ErrorIs(t, Authorize(user.RoleStaff, StartConsultation), ErrForbidden)

	assert.NoError(t, Authorize(user.RoleLecturer, ManageGroup))
	assert.ErrorIs(t, Authorize(user.RoleStaff, ManageGroup), ErrForbidden)

	assert.NoError(t, Authorize(user.RoleStaff, PostAnnouncement))
	assert.ErrorIs(t, Authorize(user.RoleStudent, PostAnnouncement), ErrForbidden)

	for _, r := range []user.Role{user.RoleStudent, user.RoleLecturer, user.RoleStaff} {
		assert.NoError(t, Authorize(r, SendMessage))
		assert.NoError(t, Authorize(r, ReadChats))
		assert.NoError(t, Authorize(r, ManageProfile))
	}
	assert.ErrorIs(t, Authorize("", SendMessage), ErrForbidden)
}

func TestLoginHandler(t *testing.T) {
	s, _ := newTestService(t)
	h := NewHandler(s)

	body := `{"email":"budi.santoso@student.unsri.ac.id","nim_nip":"09031282126001","role":"Mahasiswa"}`
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access_token")

	body = `{"email":"budi.santoso@student.unsri.ac.id","nim_nip":"0","role":"Mahasiswa"}`
	rec = httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login gagal")
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PostAnnouncement)(ok)

	req := httptest.NewRequest(http.MethodPost, "/api/announcements", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(myMiddleware.WithIdentity(req.Context(), "s1", string(user.RoleStudent))))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(myMiddleware.WithIdentity(req.Context(), "st1", string(user.RoleStaff))))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
