package user

import (
	"net/http"

	"github.com/pkg/errors"

	"campus-chat/internal/httpx"
	myMiddleware "campus-chat/internal/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req Registration
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	res, err := h.Service.Register(r.Context(), &req)
	if err != nil {
		httpx.Error(w, statusFor(err), err)
		return
	}
	httpx.JSON(w, http.StatusCreated, res)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())
	u, err := h.Service.Directory().Get(userID)
	if err != nil {
		httpx.Error(w, statusFor(err), err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	var req ProfileUpdate
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		httpx.Error(w, statusFor(err), err)
		return
	}
	httpx.JSON(w, http.StatusOK, u)
}

func (h *Handler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	users := h.Service.Directory().Search(r.URL.Query().Get("q"), 10)
	if users == nil {
		users = []User{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

// Lecturers lists the lecturers whose expertise covers ?topic=.
func (h *Handler) Lecturers(w http.ResponseWriter, r *http.Request) {
	dir := h.Service.Directory()

	topic := r.URL.Query().Get("topic")
	var users []User
	if topic == "" {
		users = dir.FindByRole(RoleLecturer)
	} else {
		c, err := ParseCategory(topic)
		if err != nil {
			httpx.Error(w, http.StatusBadRequest, err)
			return
		}
		users = dir.FindByExpertise(c)
	}
	if users == nil {
		users = []User{}
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"categories": Categories,
		"faculties":  Faculties,
	})
}

func statusFor(err error) int {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr), errors.Is(err, ErrNoRoleSelected), errors.Is(err, ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicateEmail):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
