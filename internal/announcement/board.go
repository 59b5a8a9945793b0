package announcement

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrEmpty = errors.New("judul dan konten pengumuman wajib diisi")

type Announcement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	Author      string    `json:"author"`
	PublishedAt time.Time `json:"published_at"`
}

// Board keeps the campus announcements in memory.
type Board struct {
	mu    sync.RWMutex
	items []Announcement
	now   func() time.Time
}

func NewBoard() *Board {
	return &Board{now: time.Now}
}

// List returns every announcement, newest first.
func (b *Board) List() []Announcement {
	b.mu.RLock()
	out := append([]Announcement(nil), b.items...)
	b.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out
}

// Post publishes an announcement. Title and content are required.
func (b *Board) Post(a Announcement) (Announcement, error) {
	a.Title = strings.TrimSpace(a.Title)
	a.Content = strings.TrimSpace(a.Content)
	a.Category = strings.TrimSpace(a.Category)
	if a.Title == "" || a.Content == "" {
		return Announcement{}, ErrEmpty
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.PublishedAt.IsZero() {
		a.PublishedAt = b.now()
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, a)
	return a, nil
}
