package blob

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("file not found")

// Ref addresses a stored file. URL is what chats and profiles keep.
type Ref struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MIMEType string `json:"type"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
}

type object struct {
	ref  Ref
	data []byte
}

// Store keeps uploaded files in memory. The bytes are never inspected; the
// declared name and MIME type are stored as given.
type Store struct {
	mu      sync.RWMutex
	objects map[string]object
	baseURL string
}

// NewStore builds a store whose references start with baseURL, e.g.
// "https://chat.unsri.ac.id". An empty baseURL yields relative references.
func NewStore(baseURL string) *Store {
	return &Store{
		objects: make(map[string]object),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *Store) Put(name, mimeType string, data []byte) Ref {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	id := uuid.NewString()
	ref := Ref{
		ID:       id,
		Name:     name,
		MIMEType: mimeType,
		URL:      s.baseURL + "/files/" + id,
		Size:     int64(len(data)),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[id] = object{ref: ref, data: append([]byte(nil), data...)}
	return ref
}

func (s *Store) Get(id string) (Ref, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.objects[id]
	if !ok {
		return Ref{}, nil, ErrNotFound
	}
	return o.ref, o.data, nil
}
