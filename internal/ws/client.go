package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/logging"
	msgusecase "mammy-coker-hub/internal/usecase/message"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 64
)

// ConversationAuthorizer decides whether a user may follow a conversation.
type ConversationAuthorizer interface {
	Authorize(ctx context.Context, actor user.Actor, conversationID uuid.UUID) error
}

type Client struct {
	hub           *Hub
	conn          *websocket.Conn
	send          chan []byte
	actor         user.Actor
	initialTopics []string
	authorize     ConversationAuthorizer
	logger        *logging.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, actor user.Actor, authorize ConversationAuthorizer, logger *logging.Logger, topics ...string) *Client {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		actor:         actor,
		initialTopics: topics,
		authorize:     authorize,
		logger:        logger,
	}
}

// command is what a client may send: follow or stop following a conversation.
type command struct {
	Action         string    `json:"action"`
	ConversationID uuid.UUID `json:"conversation_id"`
}

type reply struct {
	Type           string    `json:"type"`
	ConversationID uuid.UUID `json:"conversation_id,omitempty"`
	Error          string    `json:"error,omitempty"`
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("ws read error", "user_id", c.actor.ID, "error", err)
			}
			return
		}
		c.handle(data)
	}
}

func (c *Client) handle(data []byte) {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		c.reply(reply{Type: "error", Error: "invalid command"})
		return
	}
	topic := msgusecase.Channel(cmd.ConversationID)

	switch cmd.Action {
	case "subscribe":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := c.authorize.Authorize(ctx, c.actor, cmd.ConversationID)
		cancel()
		if err != nil {
			c.reply(reply{Type: "error", ConversationID: cmd.ConversationID, Error: "not allowed"})
			return
		}
		c.hub.Subscribe(c, topic)
		c.reply(reply{Type: "subscribed", ConversationID: cmd.ConversationID})
	case "unsubscribe":
		c.hub.Unsubscribe(c, topic)
		c.reply(reply{Type: "unsubscribed", ConversationID: cmd.ConversationID})
	default:
		c.reply(reply{Type: "error", Error: "unknown action"})
	}
}

// reply goes through the hub so it never races a close of send.
func (c *Client) reply(r reply) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.hub.Publish(directTopic(c), b)
}

// directTopic is private to one connection; the hub joins it on register.
func directTopic(c *Client) string { return fmt.Sprintf("client:%p", c) }

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
