package conversation

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"campus-chat/internal/chat"
	"campus-chat/internal/httpx"
	"campus-chat/internal/logging"
	myMiddleware "campus-chat/internal/middleware"
	"campus-chat/internal/session"
	"campus-chat/internal/user"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // the portal is served from another origin in dev
	},
}

type Handler struct {
	orch    *Orchestrator
	hub     *chat.Hub
	limiter *myMiddleware.RateLimiter
	now     func() time.Time
}

func NewHandler(orch *Orchestrator, hub *chat.Hub) *Handler {
	return &Handler{orch: orch, hub: hub, now: time.Now}
}

// Mount registers the chat routes on an authenticated router. The limiter
// throttles message sends over HTTP and the socket; nil means unlimited.
func (h *Handler) Mount(r chi.Router, limiter *myMiddleware.RateLimiter) {
	h.limiter = limiter
	sendLimit := func(next http.Handler) http.Handler { return next }
	if limiter != nil {
		sendLimit = limiter.Handle
	}

	r.Get("/ws", h.ServeWs)

	r.Route("/api/chats", func(r chi.Router) {
		r.Get("/", h.ListChats)
		r.Get("/{id}", h.GetChat)
		r.Get("/{id}/history", h.History)
		r.With(sendLimit).Post("/{id}/messages", h.SendMessage)
	})

	r.With(session.Require(session.StartConsultation)).Post("/api/consultations", h.StartConsultation)

	r.Route("/api/groups", func(r chi.Router) {
		r.Use(session.Require(session.ManageGroup))
		r.Post("/", h.CreateGroup)
		r.Patch("/{id}", h.UpdateGroup)
		r.Post("/{id}/members", h.AddMembers)
		r.Delete("/{id}/members/{userID}", h.RemoveMember)
	})
}

// chatSummary is a list entry with a human readable age of the last message.
type chatSummary struct {
	View
	LastMessageAgo string `json:"last_message_ago,omitempty"`
}

func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	views := h.orch.ListForUser(userID)
	out := make([]chatSummary, 0, len(views))
	for _, v := range views {
		s := chatSummary{View: v}
		if m, ok := v.LastMessage(); ok && !m.SentAt.IsZero() {
			s.LastMessageAgo = humanize.RelTime(m.SentAt, h.now(), "ago", "from now")
		}
		out = append(out, s)
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	v, err := h.orch.View(userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	msgs, err := h.orch.History(r.Context(), userID, chi.URLParam(r, "id"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Text string           `json:"text"`
	File *chat.Attachment `json:"file,omitempty"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	var req sendMessageRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	m, err := h.orch.SendMessage(r.Context(), SendMessageInput{
		ChatID:   chi.URLParam(r, "id"),
		SenderID: userID,
		Text:     req.Text,
		File:     req.File,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

type consultationRequest struct {
	LecturerID string `json:"lecturer_id"`
	Topic      string `json:"topic"`
}

func (h *Handler) StartConsultation(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	var req consultationRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}
	topic, err := user.ParseCategory(req.Topic)
	if err != nil {
		writeError(w, err)
		return
	}

	c, created, err := h.orch.StartConsultation(r.Context(), userID, req.LecturerID, topic)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	v, err := h.orch.View(userID, c.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, status, v)
}

type groupRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	userID, _, _ := myMiddleware.Identity(r.Context())

	var req groupRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}

	c, err := h.orch.CreateGroupChat(r.Context(), userID, req.Name, req.MemberIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	v, err := h.orch.View(userID, c.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, v)
}

func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	var meta chat.GroupMeta
	if err := httpx.Decode(r, &meta); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}
	h.afterGroupChange(w, r, func(ctx context.Context, actorID, chatID string) error {
		return h.orch.UpdateGroup(ctx, actorID, chatID, meta)
	})
}

type membersRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (h *Handler) AddMembers(w http.ResponseWriter, r *http.Request) {
	var req membersRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, http.StatusBadRequest, err)
		return
	}
	h.afterGroupChange(w, r, func(ctx context.Context, actorID, chatID string) error {
		return h.orch.AddMembers(ctx, actorID, chatID, req.UserIDs)
	})
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	target := chi.URLParam(r, "userID")
	h.afterGroupChange(w, r, func(ctx context.Context, actorID, chatID string) error {
		return h.orch.RemoveMember(ctx, actorID, chatID, target)
	})
}

// afterGroupChange runs a group mutation and answers with the updated chat,
// or 204 when the caller can no longer see it.
func (h *Handler) afterGroupChange(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, actorID, chatID string) error) {
	userID, _, _ := myMiddleware.Identity(r.Context())
	chatID := chi.URLParam(r, "id")

	if err := apply(r.Context(), userID, chatID); err != nil {
		writeError(w, err)
		return
	}
	v, err := h.orch.View(userID, chatID)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httpx.JSON(w, http.StatusOK, v)
}

// ServeWs upgrades the connection. Events for the user's chats are pushed
// down the socket; frames sent up are treated as SendMessage calls.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := myMiddleware.Identity(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.FromContext(r.Context()).Warn("websocket upgrade", "error", err)
		return
	}

	client := chat.NewClient(h.hub, conn, userID, func(senderID string, msg chat.WSMessage) error {
		if h.limiter != nil && !h.limiter.Allow(senderID) {
			logging.Logger().Debug("websocket message throttled", "user_id", senderID)
			return ErrThrottled
		}
		_, err := h.orch.SendMessage(context.Background(), SendMessageInput{ChatID: msg.ChatID, SenderID: senderID, Text: msg.Text})
		if err != nil {
			logging.Logger().Debug("rejected websocket message", "error", err, "user_id", senderID, "chat_id", msg.ChatID)
		}
		return err
	})
	if !client.Start() {
		logging.FromContext(r.Context()).Debug("websocket opened after hub shutdown", "user_id", userID)
	}
}

func writeError(w http.ResponseWriter, err error) {
	httpx.Error(w, statusFor(err), err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrEmptyGroupName), errors.Is(err, ErrNoMembers),
		errors.Is(err, ErrInvalidParticipants), errors.Is(err, chat.ErrInvalidParticipants),
		errors.Is(err, chat.ErrEmptyMessage), errors.Is(err, user.ErrUnknownCategory):
		return http.StatusBadRequest
	case errors.Is(err, ErrThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrNotParticipant), errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrNotFound), errors.Is(err, user.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
