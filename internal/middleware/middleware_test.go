package myMiddleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeValidator struct{}

func (fakeValidator) ValidateToken(tok string) (string, string, error) {
	if tok != "good" {
		return "", "", errors.New("bad token")
	}
	return "s1", "Mahasiswa", nil
}

func TestAuthMiddleware(t *testing.T) {
	var gotUser, gotRole string
	h := NewAuthMiddleware(fakeValidator{}).Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotRole, _ = Identity(r.Context())
	}))

	tests := []struct {
		name   string
		target string
		header string
		want   int
	}{
		{name: "missing token", target: "/", want: http.StatusUnauthorized},
		{name: "invalid token", target: "/", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "bearer header", target: "/", header: "Bearer good", want: http.StatusOK},
		{name: "query param", target: "/?token=good", want: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotRole = "", ""
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "s1", gotUser)
				assert.Equal(t, "Mahasiswa", gotRole)
			}
		})
	}
}

func TestRateLimiterPerUser(t *testing.T) {
	rl := NewRateLimiter(0.0001, 2)

	assert.True(t, rl.Allow("s1"))
	assert.True(t, rl.Allow("s1"))
	assert.False(t, rl.Allow("s1"))
	assert.True(t, rl.Allow("s2"), "buckets are per user")
}

func TestRateLimiterHandle(t *testing.T) {
	rl := NewRateLimiter(0.0001, 1)
	h := rl.Handle(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req = req.WithContext(WithIdentity(req.Context(), "s1", "Mahasiswa"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
