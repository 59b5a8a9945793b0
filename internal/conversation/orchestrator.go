package conversation

import (
	"context"
	"strings"
	"sync"
	"time"

	"campus-chat/internal/chat"
	"campus-chat/internal/logging"
	"campus-chat/internal/user"
)

// DefaultHistoryLimit bounds History when the caller passes no limit.
const DefaultHistoryLimit = 50

// Responder produces lecturer text. Implementations never fail; they fall
// back to fixed text instead.
type Responder interface {
	GenerateReply(ctx context.Context, c chat.Chat, student user.User) string
	GenerateOpening(ctx context.Context, lecturer, student user.User, topic user.Category) string
}

// Notifier pushes realtime events to the connected participants.
type Notifier interface {
	Notify(ctx context.Context, ev chat.Event)
}

// Archiver keeps a best-effort copy of chats and messages.
type Archiver interface {
	SaveChat(ctx context.Context, c chat.Chat) error
	SaveMessage(ctx context.Context, chatID string, m chat.Message) error
}

// HistoryReader is implemented by archives that can read a transcript back.
type HistoryReader interface {
	History(ctx context.Context, chatID string, limit int) ([]chat.Message, error)
}

type SendMessageInput struct {
	ChatID   string
	SenderID string
	Text     string
	File     *chat.Attachment
}

// View is a chat as a participant sees it.
type View struct {
	chat.Chat
	Participants []user.User `json:"participants"`
	Pending      bool        `json:"pending"`
}

// Orchestrator accepts user intents, mutates the store and runs the lecturer
// reply cycles. Reply generation is serialized per chat: one generation in
// flight, later requests wait in FIFO order, and the chat stays pending until
// its queue drains.
type Orchestrator struct {
	store     *chat.Store
	dir       *user.Directory
	responder Responder
	notifier  Notifier
	archive   Archiver
	metrics   *Metrics

	mu     sync.Mutex
	queues map[string]*replyQueue
	closed bool

	// per chat, orders typing on/off events; entries live as long as the chat
	signals map[string]*sync.Mutex

	consultMu sync.Mutex
	consults  map[string]*sync.Mutex

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

type replyQueue struct {
	studentIDs []string
}

type Option func(*Orchestrator)

func WithNotifier(n Notifier) Option { return func(o *Orchestrator) { o.notifier = n } }

func WithArchive(a Archiver) Option { return func(o *Orchestrator) { o.archive = a } }

func WithMetrics(m *Metrics) Option { return func(o *Orchestrator) { o.metrics = m } }

func New(store *chat.Store, dir *user.Directory, responder Responder, opts ...Option) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		store:     store,
		dir:       dir,
		responder: responder,
		queues:    make(map[string]*replyQueue),
		signals:   make(map[string]*sync.Mutex),
		consults:  make(map[string]*sync.Mutex),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.metrics == nil {
		o.metrics = NewMetrics(nil)
	}
	return o
}

// ---------------------------------------------
// Messages and reply cycles
// ---------------------------------------------

// SendMessage appends the sender's message and, when a student writes into a
// chat with a lecturer, queues a reply cycle for that chat.
func (o *Orchestrator) SendMessage(ctx context.Context, in SendMessageInput) (chat.Message, error) {
	c, err := o.store.Get(in.ChatID)
	if err != nil {
		return chat.Message{}, err
	}
	if !c.HasParticipant(in.SenderID) {
		return chat.Message{}, ErrNotParticipant
	}
	sender, err := o.dir.Get(in.SenderID)
	if err != nil {
		return chat.Message{}, err
	}

	updated, err := o.store.Append(in.ChatID, chat.Message{
		SenderID: sender.ID,
		Text:     strings.TrimSpace(in.Text),
		File:     in.File,
	})
	if err != nil {
		return chat.Message{}, err
	}
	m, _ := updated.LastMessage()

	o.metrics.Messages.WithLabelValues(OriginUser).Inc()
	o.saveMessage(ctx, updated.ID, m)
	o.notify(ctx, chat.Event{Kind: chat.EventMessage, ChatID: updated.ID, Message: &m, Pending: o.Pending(updated.ID), Recipients: updated.ParticipantIDs})

	if sender.IsStudent() {
		if _, ok := user.FirstLecturer(o.store.Participants(updated)); ok {
			o.enqueue(updated.ID, sender.ID)
		}
	}
	return m, nil
}

// Pending reports whether a reply is being generated or queued for the chat.
func (o *Orchestrator) Pending(chatID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.queues[chatID]
	return ok
}

func (o *Orchestrator) enqueue(chatID, studentID string) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	q, running := o.queues[chatID]
	if !running {
		q = &replyQueue{}
		o.queues[chatID] = q
		o.wg.Add(1)
	}
	q.studentIDs = append(q.studentIDs, studentID)
	sig := o.signalLock(chatID)
	o.mu.Unlock()

	if running {
		return
	}
	// waits for the previous queue of this chat to announce it drained
	sig.Lock()
	o.metrics.PendingChats.Inc()
	o.notifyTyping(chatID, true)
	sig.Unlock()
	go o.drain(chatID, q, sig)
}

// signalLock returns the lock ordering the chat's typing events. o.mu must
// be held.
func (o *Orchestrator) signalLock(chatID string) *sync.Mutex {
	sig, ok := o.signals[chatID]
	if !ok {
		sig = &sync.Mutex{}
		o.signals[chatID] = sig
	}
	return sig
}

// drain runs the chat's queued cycles one after another and clears the
// pending state once nothing is left.
func (o *Orchestrator) drain(chatID string, q *replyQueue, sig *sync.Mutex) {
	defer o.wg.Done()

	for {
		sig.Lock()
		o.mu.Lock()
		if len(q.studentIDs) == 0 {
			delete(o.queues, chatID)
			o.mu.Unlock()
			o.metrics.PendingChats.Dec()
			o.notifyTyping(chatID, false)
			sig.Unlock()
			return
		}
		studentID := q.studentIDs[0]
		q.studentIDs = q.studentIDs[1:]
		o.mu.Unlock()
		sig.Unlock()

		o.replyCycle(chatID, studentID)
	}
}

// replyCycle reads the chat as it is now, asks the responder for the
// lecturer's answer and appends it.
func (o *Orchestrator) replyCycle(chatID, studentID string) {
	ctx := o.ctx
	log := logging.Logger().With("chat_id", chatID)
	start := time.Now()
	defer func() {
		o.metrics.ReplyCycles.Inc()
		o.metrics.ReplyDuration.Observe(time.Since(start).Seconds())
	}()

	c, err := o.store.Get(chatID)
	if err != nil {
		log.Warn("chat vanished before reply", "error", err)
		return
	}
	lecturer, ok := user.FirstLecturer(o.store.Participants(c))
	if !ok {
		log.Info("no lecturer left in chat, skipping reply")
		return
	}
	student, err := o.dir.Get(studentID)
	if err != nil {
		student = user.User{ID: studentID}
	}

	text := o.responder.GenerateReply(ctx, c, student)

	updated, err := o.store.Append(chatID, chat.Message{SenderID: lecturer.ID, Text: text})
	if err != nil {
		log.Warn("appending reply", "error", err)
		return
	}
	m, _ := updated.LastMessage()

	// the reply is stored even when shutdown cut generation short
	after := context.WithoutCancel(ctx)
	o.metrics.Messages.WithLabelValues(OriginResponder).Inc()
	o.saveMessage(after, chatID, m)
	o.notify(after, chat.Event{Kind: chat.EventMessage, ChatID: chatID, Message: &m, Pending: true, Recipients: updated.ParticipantIDs})
}

// ---------------------------------------------
// Chat creation
// ---------------------------------------------

// CreatePrivateChat opens a consultation between a student and a lecturer.
// The chat only becomes visible once the lecturer's opening message exists.
func (o *Orchestrator) CreatePrivateChat(ctx context.Context, studentID, lecturerID string, topic user.Category) (chat.Chat, error) {
	student, err := o.dir.Get(studentID)
	if err != nil {
		return chat.Chat{}, err
	}
	lecturer, err := o.dir.Get(lecturerID)
	if err != nil {
		return chat.Chat{}, err
	}
	if !student.IsStudent() || !lecturer.IsLecturer() {
		return chat.Chat{}, ErrInvalidParticipants
	}

	opening := o.responder.GenerateOpening(ctx, lecturer, student, topic)

	c, err := o.store.CreatePrivate(student, lecturer, topic, chat.Message{SenderID: lecturer.ID, Text: opening, Read: true})
	if err != nil {
		return chat.Chat{}, err
	}
	o.metrics.Messages.WithLabelValues(OriginResponder).Inc()

	logging.FromContext(ctx).Info("consultation opened", "chat_id", c.ID, "student_id", student.ID, "lecturer_id", lecturer.ID, "topic", topic)
	o.saveChat(ctx, c)
	for _, m := range c.Messages {
		o.saveMessage(ctx, c.ID, m)
	}
	o.notify(ctx, chat.Event{Kind: chat.EventChat, ChatID: c.ID, Chat: &c, Recipients: c.ParticipantIDs})
	return c, nil
}

// StartConsultation returns the student's existing chat with the lecturer on
// the topic, creating it when there is none. created reports which happened.
func (o *Orchestrator) StartConsultation(ctx context.Context, studentID, lecturerID string, topic user.Category) (c chat.Chat, created bool, err error) {
	lock := o.consultLock(studentID + "\x00" + lecturerID + "\x00" + string(topic))
	lock.Lock()
	defer lock.Unlock()

	if existing, ok := o.store.FindPrivate(studentID, lecturerID, topic); ok {
		return existing, false, nil
	}
	c, err = o.CreatePrivateChat(ctx, studentID, lecturerID, topic)
	return c, err == nil, err
}

func (o *Orchestrator) consultLock(key string) *sync.Mutex {
	o.consultMu.Lock()
	defer o.consultMu.Unlock()

	l, ok := o.consults[key]
	if !ok {
		l = &sync.Mutex{}
		o.consults[key] = l
	}
	return l
}

// CreateGroupChat creates a group with the creator and every known member.
func (o *Orchestrator) CreateGroupChat(ctx context.Context, creatorID, name string, memberIDs []string) (chat.Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return chat.Chat{}, ErrEmptyGroupName
	}
	if len(memberIDs) == 0 {
		return chat.Chat{}, ErrNoMembers
	}
	creator, err := o.dir.Get(creatorID)
	if err != nil {
		return chat.Chat{}, err
	}

	var ids []string
	for _, u := range o.dir.Resolve(append([]string{creator.ID}, memberIDs...)) {
		ids = append(ids, u.ID)
	}

	c, err := o.store.CreateGroup(name, creator.ID, ids)
	if err != nil {
		return chat.Chat{}, err
	}

	logging.FromContext(ctx).Info("group created", "chat_id", c.ID, "creator_id", creator.ID, "members", len(c.ParticipantIDs))
	o.saveChat(ctx, c)
	o.notify(ctx, chat.Event{Kind: chat.EventChat, ChatID: c.ID, Chat: &c, Recipients: c.ParticipantIDs})
	return c, nil
}

// ---------------------------------------------
// Group management
// ---------------------------------------------

// UpdateGroup changes the group's name or avatar. Missing and private chats
// are left alone without error.
func (o *Orchestrator) UpdateGroup(ctx context.Context, actorID, chatID string, meta chat.GroupMeta) error {
	return o.mutateGroup(ctx, actorID, chatID, func() { o.store.UpdateGroupMeta(chatID, meta) })
}

func (o *Orchestrator) AddMembers(ctx context.Context, actorID, chatID string, userIDs []string) error {
	return o.mutateGroup(ctx, actorID, chatID, func() { o.store.AddMembers(chatID, userIDs) })
}

func (o *Orchestrator) RemoveMember(ctx context.Context, actorID, chatID, userID string) error {
	return o.mutateGroup(ctx, actorID, chatID, func() { o.store.RemoveMember(chatID, userID) })
}

func (o *Orchestrator) mutateGroup(ctx context.Context, actorID, chatID string, apply func()) error {
	before, err := o.store.Get(chatID)
	if err != nil || before.Type != chat.TypeGroup {
		return nil
	}
	if !before.HasParticipant(actorID) {
		return ErrNotParticipant
	}

	apply()

	after, err := o.store.Get(chatID)
	if err != nil {
		return nil
	}
	o.saveChat(ctx, after)

	// removed members learn about it too
	recipients := append([]string(nil), after.ParticipantIDs...)
	for _, id := range before.ParticipantIDs {
		if !after.HasParticipant(id) {
			recipients = append(recipients, id)
		}
	}
	o.notify(ctx, chat.Event{Kind: chat.EventChat, ChatID: after.ID, Chat: &after, Recipients: recipients})
	return nil
}

// ---------------------------------------------
// Reads
// ---------------------------------------------

// View returns the chat with its resolved participants. Only participants
// may read a chat.
func (o *Orchestrator) View(viewerID, chatID string) (View, error) {
	c, err := o.store.Get(chatID)
	if err != nil {
		return View{}, err
	}
	if !c.HasParticipant(viewerID) {
		return View{}, ErrNotParticipant
	}
	return o.view(c), nil
}

// History returns up to limit of the newest messages of a chat, oldest
// first. The archive is read when it supports it, the live log otherwise.
func (o *Orchestrator) History(ctx context.Context, viewerID, chatID string, limit int) ([]chat.Message, error) {
	c, err := o.store.Get(chatID)
	if err != nil {
		return nil, err
	}
	if !c.HasParticipant(viewerID) {
		return nil, ErrNotParticipant
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if hr, ok := o.archive.(HistoryReader); ok {
		return hr.History(ctx, chatID, limit)
	}
	msgs := c.Messages
	if len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// ListForUser returns the user's chats, most recently active first.
func (o *Orchestrator) ListForUser(userID string) []View {
	chats := o.store.ListForUser(userID)
	views := make([]View, 0, len(chats))
	for _, c := range chats {
		views = append(views, o.view(c))
	}
	return views
}

func (o *Orchestrator) view(c chat.Chat) View {
	return View{Chat: c, Participants: o.store.Participants(c), Pending: o.Pending(c.ID)}
}

// Shutdown stops accepting reply cycles and waits for the running ones. When
// ctx expires first the in-flight generations are cancelled, which makes
// them finish with their fallback text.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		o.cancel()
		return nil
	case <-ctx.Done():
		o.cancel()
		<-done
		return ctx.Err()
	}
}

// ---------------------------------------------
// Side channels
// ---------------------------------------------

func (o *Orchestrator) notify(ctx context.Context, ev chat.Event) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(ctx, ev)
}

func (o *Orchestrator) notifyTyping(chatID string, pending bool) {
	c, err := o.store.Get(chatID)
	if err != nil {
		return
	}
	o.notify(context.WithoutCancel(o.ctx), chat.Event{Kind: chat.EventTyping, ChatID: chatID, Pending: pending, Recipients: c.ParticipantIDs})
}

func (o *Orchestrator) saveMessage(ctx context.Context, chatID string, m chat.Message) {
	if o.archive == nil {
		return
	}
	if err := o.archive.SaveMessage(ctx, chatID, m); err != nil {
		logging.FromContext(ctx).Warn("archiving message", "error", err, "chat_id", chatID)
	}
}

func (o *Orchestrator) saveChat(ctx context.Context, c chat.Chat) {
	if o.archive == nil {
		return
	}
	if err := o.archive.SaveChat(ctx, c); err != nil {
		logging.FromContext(ctx).Warn("archiving chat", "error", err, "chat_id", c.ID)
	}
}
