package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"campus-chat/internal/logging"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Must be less than pongWait.
	maxMessageSize = 4096
)

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	Hub    *Hub
	Conn   *websocket.Conn
	Send   chan []byte
	UserID string

	// OnMessage receives every frame the browser sends. A returned error is
	// sent back on this connection as an error event.
	OnMessage func(userID string, msg WSMessage) error
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string, onMessage func(string, WSMessage) error) *Client {
	return &Client{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		OnMessage: onMessage,
	}
}

// Start registers the client and runs both pumps in their own goroutines.
// When the hub has already stopped the connection is closed and Start
// reports false.
func (c *Client) Start() bool {
	select {
	case c.Hub.Register <- c:
	case <-c.Hub.done:
		c.Conn.Close()
		return false
	}
	go c.WritePump()
	go c.ReadPump()
	return true
}

// ReadPump pumps frames from the websocket connection to OnMessage.
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.Hub.Unregister <- c:
		case <-c.Hub.done:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Logger().Warn("websocket read", "error", err, "user_id", c.UserID)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logging.Logger().Debug("ignoring malformed frame", "error", err, "user_id", c.UserID)
			continue
		}
		if c.OnMessage == nil {
			continue
		}
		if err := c.OnMessage(c.UserID, msg); err != nil {
			c.reject(msg.ChatID, err)
		}
	}
}

// WritePump pumps events from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// flush queued events in the same frame, one JSON document per line
			n := len(c.Send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.Send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) reject(chatID string, err error) {
	payload, merr := json.Marshal(Event{Kind: EventError, ChatID: chatID, Error: err.Error()})
	if merr != nil {
		return
	}
	c.Hub.sendTo(c, payload)
}
