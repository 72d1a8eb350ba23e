package ws

import (
	"context"

	"mammy-coker-hub/internal/pkg/logging"
)

type envelope struct {
	topic   string
	payload []byte
}

type subscription struct {
	client *Client
	topic  string
	join   bool
}

// Hub routes published payloads to the clients subscribed to a topic. All
// bookkeeping happens on the Run goroutine.
type Hub struct {
	clients    map[*Client]map[string]struct{}
	topics     map[string]map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	counts     chan chan int
	logger     *logging.Logger
}

func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Hub{
		clients:    make(map[*Client]map[string]struct{}),
		topics:     make(map[string]map[*Client]struct{}),
		broadcast:  make(chan envelope, 1024),
		register:   make(chan *Client, 128),
		unregister: make(chan *Client, 128),
		subscribe:  make(chan subscription, 128),
		counts:     make(chan chan int),
		logger:     logger.With("component", "ws"),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				h.drop(c)
			}
			return

		case c := <-h.register:
			if c == nil {
				continue
			}
			h.clients[c] = make(map[string]struct{})
			h.join(c, directTopic(c))
			for _, t := range c.initialTopics {
				h.join(c, t)
			}
			h.logger.Debug("ws connected", "user_id", c.actor.ID, "total_clients", len(h.clients))

		case c := <-h.unregister:
			if c == nil {
				continue
			}
			h.drop(c)
			h.logger.Debug("ws disconnected", "user_id", c.actor.ID, "total_clients", len(h.clients))

		case s := <-h.subscribe:
			if _, ok := h.clients[s.client]; !ok {
				continue
			}
			if s.join {
				h.join(s.client, s.topic)
			} else {
				h.leave(s.client, s.topic)
			}

		case m := <-h.broadcast:
			for c := range h.topics[m.topic] {
				select {
				case c.send <- m.payload:
				default:
					h.drop(c)
				}
			}

		case reply := <-h.counts:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) join(c *Client, topic string) {
	h.clients[c][topic] = struct{}{}
	subs, ok := h.topics[topic]
	if !ok {
		subs = make(map[*Client]struct{})
		h.topics[topic] = subs
	}
	subs[c] = struct{}{}
}

func (h *Hub) leave(c *Client, topic string) {
	delete(h.clients[c], topic)
	if subs, ok := h.topics[topic]; ok {
		delete(subs, c)
		if len(subs) == 0 {
			delete(h.topics, topic)
		}
	}
}

func (h *Hub) drop(c *Client) {
	topics, ok := h.clients[c]
	if !ok {
		return
	}
	for t := range topics {
		h.leave(c, t)
	}
	delete(h.clients, c)
	close(c.send)
}

func (h *Hub) Register(c *Client) {
	if h == nil {
		return
	}
	h.register <- c
}

func (h *Hub) Unregister(c *Client) {
	if h == nil {
		return
	}
	h.unregister <- c
}

func (h *Hub) Subscribe(c *Client, topic string) {
	h.subscribe <- subscription{client: c, topic: topic, join: true}
}

func (h *Hub) Unsubscribe(c *Client, topic string) {
	h.subscribe <- subscription{client: c, topic: topic}
}

// Publish queues payload for the topic's subscribers. It never blocks; a
// full queue drops the payload.
func (h *Hub) Publish(topic string, payload []byte) {
	if h == nil {
		return
	}
	select {
	case h.broadcast <- envelope{topic: topic, payload: payload}:
	default:
		h.logger.Warn("ws broadcast dropped", "reason", "buffer_full", "topic", topic)
	}
}

// ClientCount asks the Run loop for the number of connected clients.
func (h *Hub) ClientCount(ctx context.Context) int {
	if h == nil {
		return 0
	}
	reply := make(chan int, 1)
	select {
	case h.counts <- reply:
	case <-ctx.Done():
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ctx.Done():
		return 0
	}
}
