package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-chat/internal/user"
)

func newTestStore(t *testing.T) (*Store, *user.Directory) {
	t.Helper()
	dir := user.NewDirectory()
	dir.Seed(user.DemoUsers()...)
	s := NewStore(dir)
	s.now = func() time.Time { return time.Date(2024, 7, 20, 9, 5, 0, 0, time.UTC) }
	return s, dir
}

func texts(c Chat) []string {
	var out []string
	for _, m := range c.Messages {
		out = append(out, m.Text)
	}
	return out
}

func TestAppendKeepsOrder(t *testing.T) {
	s, _ := newTestStore(t)

	g, err := s.CreateGroup("Kelompok", "s1", []string{"s1", "s2"})
	require.NoError(t, err)
	assert.Empty(t, g.Messages)

	for _, text := range []string{"A", "B", "C"} {
		_, err := s.Append(g.ID, Message{SenderID: "s1", Text: text})
		require.NoError(t, err)
	}

	got, err := s.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, texts(got))

	for i := 1; i < len(got.Messages); i++ {
		assert.Greater(t, got.Messages[i].Seq, got.Messages[i-1].Seq)
	}
	assert.Equal(t, "09:05 AM", got.Messages[0].Timestamp)
	assert.NotEmpty(t, got.Messages[0].ID)
}

func TestAppendErrors(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.Append("missing", Message{SenderID: "s1", Text: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	g, err := s.CreateGroup("G", "s1", []string{"s1"})
	require.NoError(t, err)
	_, err = s.Append(g.ID, Message{SenderID: "s1"})
	assert.ErrorIs(t, err, ErrEmptyMessage)

	c, err := s.Append(g.ID, Message{SenderID: "s1", File: &Attachment{Name: "krs.pdf", MIMEType: "application/pdf", URL: "/files/1"}})
	require.NoError(t, err)
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "krs.pdf", c.Messages[0].File.Name)
}

func TestCreatePrivate(t *testing.T) {
	s, dir := newTestStore(t)
	budi, _ := dir.Get("s1")
	siti, _ := dir.Get("l1")

	c, err := s.CreatePrivate(budi, siti, user.CategoryAcademic, Message{SenderID: "l1", Text: "Halo", Read: true})
	require.NoError(t, err)
	assert.Equal(t, TypePrivate, c.Type)
	assert.Equal(t, []string{"s1", "l1"}, c.ParticipantIDs)
	assert.Equal(t, user.CategoryAcademic, c.Topic)
	require.Len(t, c.Messages, 1)
	assert.Equal(t, "l1", c.Messages[0].SenderID)

	_, err = s.CreatePrivate(budi, budi, user.CategoryAcademic, Message{SenderID: "s1", Text: "x"})
	assert.ErrorIs(t, err, ErrInvalidParticipants)

	found, ok := s.FindPrivate("l1", "s1", user.CategoryAcademic)
	require.True(t, ok)
	assert.Equal(t, c.ID, found.ID)

	_, ok = s.FindPrivate("s1", "l1", user.CategoryCareer)
	assert.False(t, ok)
}

func TestGroupMembership(t *testing.T) {
	s, _ := newTestStore(t)

	g, err := s.CreateGroup("G", "s1", []string{"s1", "s2", "s3"})
	require.NoError(t, err)

	s.RemoveMember(g.ID, "s2")
	got, _ := s.Get(g.ID)
	assert.Equal(t, []string{"s1", "s3"}, got.ParticipantIDs)

	s.AddMembers(g.ID, []string{"s3", "s3"})
	got, _ = s.Get(g.ID)
	assert.Len(t, got.ParticipantIDs, 2, "adding an existing member is a no-op")

	s.AddMembers(g.ID, []string{"s4", "ghost"})
	got, _ = s.Get(g.ID)
	assert.Equal(t, []string{"s1", "s3", "s4"}, got.ParticipantIDs)

	s.RemoveMember(g.ID, "s1")
	s.RemoveMember(g.ID, "s3")
	s.RemoveMember(g.ID, "s4")
	got, _ = s.Get(g.ID)
	assert.Empty(t, got.ParticipantIDs, "the last member can leave")
}

func TestGroupOpsIgnorePrivateChats(t *testing.T) {
	s, dir := newTestStore(t)
	budi, _ := dir.Get("s1")
	siti, _ := dir.Get("l1")
	c, err := s.CreatePrivate(budi, siti, user.CategoryAcademic, Message{SenderID: "l1", Text: "Halo"})
	require.NoError(t, err)

	name, avatar := "Renamed", "/files/x"
	s.UpdateGroupMeta(c.ID, GroupMeta{Name: &name, AvatarURL: &avatar})
	s.AddMembers(c.ID, []string{"s2"})
	s.RemoveMember(c.ID, "s1")

	got, err := s.Get(c.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.AvatarURL)
	assert.Equal(t, []string{"s1", "l1"}, got.ParticipantIDs)

	// missing chats are silently ignored too
	s.UpdateGroupMeta("missing", GroupMeta{Name: &name})
	s.AddMembers("missing", []string{"s2"})
	s.RemoveMember("missing", "s1")
}

func TestUpdateGroupMetaPartial(t *testing.T) {
	s, _ := newTestStore(t)
	g, err := s.CreateGroup("Lama", "s1", []string{"s1"})
	require.NoError(t, err)

	avatar := "/files/a"
	s.UpdateGroupMeta(g.ID, GroupMeta{AvatarURL: &avatar})
	got, _ := s.Get(g.ID)
	assert.Equal(t, "Lama", got.Name)
	assert.Equal(t, "/files/a", got.AvatarURL)

	name := "Baru"
	s.UpdateGroupMeta(g.ID, GroupMeta{Name: &name})
	got, _ = s.Get(g.ID)
	assert.Equal(t, "Baru", got.Name)
	assert.Equal(t, "/files/a", got.AvatarURL)
}

func TestReadsAreSnapshots(t *testing.T) {
	s, _ := newTestStore(t)
	g, _ := s.CreateGroup("G", "s1", []string{"s1"})
	_, err := s.Append(g.ID, Message{SenderID: "s1", Text: "one"})
	require.NoError(t, err)

	snap, _ := s.Get(g.ID)
	snap.Messages[0].Text = "tampered"
	snap.ParticipantIDs[0] = "x"

	got, _ := s.Get(g.ID)
	assert.Equal(t, "one", got.Messages[0].Text)
	assert.Equal(t, "s1", got.ParticipantIDs[0])
}

func TestListForUserByActivity(t *testing.T) {
	s, _ := newTestStore(t)
	for _, c := range DemoChats() {
		s.Import(c)
	}

	_, err := s.Append("group2", Message{SenderID: "s1", Text: "newest"})
	require.NoError(t, err)

	chats := s.ListForUser("s1")
	require.NotEmpty(t, chats)
	assert.Equal(t, "group2", chats[0].ID)
	for _, c := range chats {
		assert.True(t, c.HasParticipant("s1"))
	}
	assert.Len(t, chats, 6)
}

func TestParticipantsFollowProfileUpdates(t *testing.T) {
	s, dir := newTestStore(t)
	s.Import(DemoChats()[0])

	u, _ := dir.Get("s1")
	u.Name = "Budi Santoso, S.Kom"
	require.NoError(t, dir.Update(u))

	c, err := s.Get("chat1")
	require.NoError(t, err)
	ps := s.Participants(c)
	require.Len(t, ps, 2)
	assert.Equal(t, "Budi Santoso, S.Kom", ps[0].Name)
}

func TestDemoChatsAreDatedInThePast(t *testing.T) {
	now := time.Date(2024, time.July, 21, 8, 0, 0, 0, time.UTC)

	for _, c := range DemoChatsAt(now) {
		for _, m := range c.Messages {
			require.False(t, m.SentAt.IsZero(), m.ID)
			assert.True(t, m.SentAt.Before(now), m.ID)
			if m.Timestamp != "Kemarin" {
				assert.Equal(t, m.Timestamp, m.SentAt.Format(TimestampLayout), m.ID)
			}
		}
	}

	s, _ := newTestStore(t)
	c := s.Import(DemoChatsAt(now)[0])
	assert.Equal(t, time.Date(2024, time.July, 20, 10, 0, 0, 0, time.UTC), c.Messages[0].SentAt)
}
