package session

import (
	"net/http"

	"github.com/pkg/errors"

	"campus-chat/internal/httpx"
	myMiddleware "campus-chat/internal/middleware"
	"campus-chat/internal/user"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req Credentials
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Service.Login(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrAuthFailed) {
			status = http.StatusUnauthorized
		}
		httpx.Error(w, status, err)
		return
	}
	httpx.JSON(w, http.StatusOK, res)
}

// Require rejects requests whose role may not perform the intent.
func Require(intent Intent) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, role, ok := myMiddleware.Identity(r.Context())
			if !ok {
				httpx.Error(w, http.StatusUnauthorized, nil)
				return
			}
			if err := Authorize(user.Role(role), intent); err != nil {
				httpx.Error(w, http.StatusForbidden, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
