package chat

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus-chat/internal/user"
)

// TimestampLayout renders the display time of a message, e.g. "09:05 AM".
const TimestampLayout = "03:04 PM"

// Directory resolves participant ids to the current user profiles.
type Directory interface {
	Resolve(ids []string) []user.User
}

// Store holds every chat in memory. Mutations run under the write lock and
// reads hand out deep copies, so a reader never sees half an update.
type Store struct {
	mu    sync.RWMutex
	chats map[string]*Chat
	seq   int64

	dir   Directory
	now   func() time.Time
	newID func() string
}

func NewStore(dir Directory) *Store {
	return &Store{
		chats: make(map[string]*Chat),
		dir:   dir,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Store) Get(id string) (Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.chats[id]
	if !ok {
		return Chat{}, ErrNotFound
	}
	return c.clone(), nil
}

// Participants resolves the chat's participant ids against the directory.
func (s *Store) Participants(c Chat) []user.User {
	return s.dir.Resolve(c.ParticipantIDs)
}

// stamp fills the identity and ordering fields of a message. Caller holds mu.
func (s *Store) stamp(m Message) Message {
	if m.ID == "" {
		m.ID = s.newID()
	}
	s.seq++
	m.Seq = s.seq
	if m.SentAt.IsZero() {
		m.SentAt = s.now()
	}
	if m.Timestamp == "" {
		m.Timestamp = m.SentAt.Format(TimestampLayout)
	}
	return m
}

// Append adds a message to the end of the chat's log.
func (s *Store) Append(chatID string, m Message) (Chat, error) {
	if !m.hasContent() {
		return Chat{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.chats[chatID]
	if !ok {
		return Chat{}, ErrNotFound
	}
	c.Messages = append(c.Messages, s.stamp(m))
	return c.clone(), nil
}

// CreatePrivate stores a new two-party chat whose log starts with opening.
func (s *Store) CreatePrivate(a, b user.User, topic user.Category, opening Message) (Chat, error) {
	if a.ID == "" || b.ID == "" || a.ID == b.ID {
		return Chat{}, ErrInvalidParticipants
	}
	if !opening.hasContent() {
		return Chat{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Chat{
		ID:             s.newID(),
		Type:           TypePrivate,
		ParticipantIDs: []string{a.ID, b.ID},
		Topic:          topic,
		CreatorID:      a.ID,
		CreatedAt:      s.now(),
	}
	c.Messages = []Message{s.stamp(opening)}
	s.chats[c.ID] = c
	return c.clone(), nil
}

// CreateGroup stores a new group chat with an empty log. Duplicate ids are
// collapsed.
func (s *Store) CreateGroup(name, creatorID string, participantIDs []string) (Chat, error) {
	ids := dedupe(participantIDs)
	if len(ids) == 0 {
		return Chat{}, ErrInvalidParticipants
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := &Chat{
		ID:             s.newID(),
		Type:           TypeGroup,
		ParticipantIDs: ids,
		Messages:       []Message{},
		Name:           name,
		CreatorID:      creatorID,
		CreatedAt:      s.now(),
	}
	s.chats[c.ID] = c
	return c.clone(), nil
}

// group returns the chat when it exists and is a group. Caller holds mu.
func (s *Store) group(chatID string) (*Chat, bool) {
	c, ok := s.chats[chatID]
	if !ok || c.Type != TypeGroup {
		return nil, false
	}
	return c, true
}

// UpdateGroupMeta is a no-op for missing and private chats.
func (s *Store) UpdateGroupMeta(chatID string, meta GroupMeta) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.group(chatID)
	if !ok {
		return
	}
	if meta.Name != nil {
		c.Name = *meta.Name
	}
	if meta.AvatarURL != nil {
		c.AvatarURL = *meta.AvatarURL
	}
}

// AddMembers appends every known user not already in the group. Unknown ids
// and existing members are ignored; missing and private chats are left alone.
func (s *Store) AddMembers(chatID string, userIDs []string) {
	users := s.dir.Resolve(dedupe(userIDs))

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.group(chatID)
	if !ok {
		return
	}
	for _, u := range users {
		if !c.HasParticipant(u.ID) {
			c.ParticipantIDs = append(c.ParticipantIDs, u.ID)
		}
	}
}

// RemoveMember drops a participant from a group. Nothing stops the last
// member or the creator from being removed.
func (s *Store) RemoveMember(chatID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.group(chatID)
	if !ok {
		return
	}
	kept := c.ParticipantIDs[:0]
	for _, id := range c.ParticipantIDs {
		if id != userID {
			kept = append(kept, id)
		}
	}
	c.ParticipantIDs = kept
}

// ListForUser returns the user's chats, most recently active first.
func (s *Store) ListForUser(userID string) []Chat {
	s.mu.RLock()
	res := make([]Chat, 0)
	for _, c := range s.chats {
		if c.HasParticipant(userID) {
			res = append(res, c.clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(res, func(i, j int) bool {
		ai, aj := res[i].LastActivity(), res[j].LastActivity()
		if ai != aj {
			return ai > aj
		}
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID < res[j].ID
	})
	return res
}

// ListAll returns every chat in no particular order.
func (s *Store) ListAll() []Chat {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]Chat, 0, len(s.chats))
	for _, c := range s.chats {
		res = append(res, c.clone())
	}
	return res
}

// FindPrivate looks up the private chat between two users on a topic.
func (s *Store) FindPrivate(a, b string, topic user.Category) (Chat, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.chats {
		if c.Type == TypePrivate && c.Topic == topic && c.HasParticipant(a) && c.HasParticipant(b) {
			return c.clone(), true
		}
	}
	return Chat{}, false
}

// Import stores a prepared chat as-is apart from message ordering fields,
// which are assigned in slice order. Used for seeding.
func (s *Store) Import(c Chat) Chat {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = s.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	c.ParticipantIDs = dedupe(c.ParticipantIDs)
	msgs := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		msgs = append(msgs, s.stamp(m))
	}
	c.Messages = msgs

	stored := c.clone()
	s.chats[c.ID] = &stored
	return stored.clone()
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
