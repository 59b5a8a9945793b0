package chat

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"campus-chat/internal/logging"
)

const DefaultChannel = "campus-chat:events"

// Envelope is what travels over Redis: the serialized event plus the user
// ids that should receive it.
type Envelope struct {
	Targets []string        `json:"targets"`
	Payload json.RawMessage `json:"payload"`
}

// Hub fans chat events out to connected sockets. Run owns the client set;
// everything else talks to it through channels.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Envelope // Redis (or local Notify) -> clients
	direct     chan directFrame
	Register   chan *Client
	Unregister chan *Client
	done       chan struct{}

	redis   *redis.Client
	channel string
}

// NewHub builds a hub. With a nil Redis client events stay inside this process.
func NewHub(redisClient *redis.Client) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Envelope, 256),
		direct:     make(chan directFrame, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		done:       make(chan struct{}),
		redis:      redisClient,
		channel:    DefaultChannel,
	}
}

func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				delete(h.clients, client)
				close(client.Send)
			}
			return

		case client := <-h.Register:
			h.clients[client] = true

		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}

		case f := <-h.direct:
			if !h.clients[f.client] {
				continue
			}
			select {
			case f.client.Send <- f.payload:
			default:
			}

		case env := <-h.broadcast:
			targets := make(map[string]bool, len(env.Targets))
			for _, id := range env.Targets {
				targets[id] = true
			}
			for client := range h.clients {
				if !targets[client.UserID] {
					continue
				}
				select {
				case client.Send <- env.Payload:
				default:
					// slow consumer, drop it
					close(client.Send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// directFrame is a payload for a single connection rather than a user.
type directFrame struct {
	client  *Client
	payload []byte
}

// sendTo queues a payload for one client. Only Run writes to client.Send.
func (h *Hub) sendTo(c *Client, payload []byte) {
	select {
	case h.direct <- directFrame{client: c, payload: payload}:
	case <-h.done:
	}
}

// Notify implements the orchestrator's notifier. With Redis configured the
// event goes through pub/sub so every instance delivers it to its own sockets.
func (h *Hub) Notify(ctx context.Context, ev Event) {
	log := logging.FromContext(ctx)

	if len(ev.Recipients) == 0 {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error("encoding chat event", "error", err, "chat_id", ev.ChatID)
		return
	}
	env := &Envelope{Targets: ev.Recipients, Payload: payload}

	if h.redis != nil {
		data, err := json.Marshal(env)
		if err != nil {
			log.Error("encoding envelope", "error", err)
			return
		}
		if err := h.redis.Publish(ctx, h.channel, data).Err(); err != nil {
			log.Warn("redis publish failed", "error", err, "chat_id", ev.ChatID)
		}
		return
	}
	h.deliver(ctx, env)
}

func (h *Hub) deliver(ctx context.Context, env *Envelope) {
	select {
	case h.broadcast <- env:
	case <-h.done:
	case <-ctx.Done():
	}
}

// SubscribeToRedis forwards events published by any instance to local sockets.
func (h *Hub) SubscribeToRedis(ctx context.Context) {
	if h.redis == nil {
		return
	}
	pubsub := h.redis.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				logging.Logger().Warn("dropping malformed envelope", "error", err)
				continue
			}
			h.deliver(ctx, &env)
		}
	}
}
