package announcement

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"campus-chat/internal/httpx"
	"campus-chat/internal/logging"
	myMiddleware "campus-chat/internal/middleware"
	"campus-chat/internal/user"
)

// Authors resolves the poster's display name.
type Authors interface {
	Get(id string) (user.User, error)
}

type Handler struct {
	board   *Board
	authors Authors
	now     func() time.Time
}

func NewHandler(b *Board, authors Authors) *Handler {
	return &Handler{board: b, authors: authors, now: time.Now}
}

type item struct {
	Announcement
	Date string `json:"date"`
	Age  string `json:"age"`
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list := h.board.List()
	out := make([]item, 0, len(list))
	for _, a := range list {
		out = append(out, item{
			Announcement: a,
			Date:         a.PublishedAt.Format("2 January 2006"),
			Age:          humanize.RelTime(a.PublishedAt, h.now(), "ago", "from now"),
		})
	}
	httpx.JSON(w, http.StatusOK, out)
}

type postRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Post publishes an announcement signed with the staff member's name.
func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	var req postRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	author, err := h.authors.Get(userID)
	if err != nil {
		httpx.Error(w, http.StatusUnauthorized, err)
		return
	}

	a, err := h.board.Post(Announcement{Title: req.Title, Category: req.Category, Content: req.Content, Author: author.Name})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrEmpty) {
			status = http.StatusBadRequest
		}
		httpx.Error(w, status, err)
		return
	}

	logging.FromContext(r.Context()).Info("announcement posted", "id", a.ID, "author_id", userID)
	httpx.JSON(w, http.StatusCreated, a)
}
