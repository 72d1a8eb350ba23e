package ws

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mammy-coker-hub/internal/domain/user"

	"github.com/google/uuid"
)

func newTestClient(h *Hub, topics ...string) *Client {
	return NewClient(h, nil, user.Actor{ID: uuid.New(), Role: user.RoleProfessional}, nil, nil, topics...)
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func waitClients(t *testing.T, h *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if h.ClientCount(context.Background()) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients", want)
}

// eventually publishes until c receives, since subscription and broadcast
// travel on separate queues.
func eventually(t *testing.T, h *Hub, c *Client, topic string, payload []byte) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		h.Publish(topic, payload)
		select {
		case got := <-c.send:
			if string(got) != string(payload) {
				t.Fatalf("unexpected payload %q", got)
			}
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
	t.Fatalf("client never received %q on %s", payload, topic)
}

func TestHub_RoutesByTopic(t *testing.T) {
	h, _ := startHub(t)
	a := newTestClient(h, "notifications:a")
	b := newTestClient(h, "notifications:b")
	h.Register(a)
	h.Register(b)
	waitClients(t, h, 2)

	h.Publish("notifications:a", []byte(`{"n":1}`))
	select {
	case got := <-a.send:
		if string(got) != `{"n":1}` {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("a did not receive")
	}
	select {
	case got := <-b.send:
		t.Fatalf("b must not receive %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_SubscribeAndUnsubscribe(t *testing.T) {
	h, _ := startHub(t)
	c := newTestClient(h)
	h.Register(c)
	waitClients(t, h, 1)

	h.Subscribe(c, "conversation:x")
	eventually(t, h, c, "conversation:x", []byte("hello"))

	h.Unsubscribe(c, "conversation:x")
	time.Sleep(20 * time.Millisecond)
	// Drain anything the retries above left queued.
	for len(c.send) > 0 {
		<-c.send
	}
	h.Publish("conversation:x", []byte("late"))
	select {
	case got := <-c.send:
		t.Fatalf("unsubscribed client received %s", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h, _ := startHub(t)
	c := newTestClient(h, "t")
	h.Register(c)
	waitClients(t, h, 1)

	h.Unregister(c)
	waitClients(t, h, 0)
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send to be closed")
	}
}

func TestHub_ShutdownDropsClients(t *testing.T) {
	h, cancel := startHub(t)
	c := newTestClient(h, "t")
	h.Register(c)
	waitClients(t, h, 1)

	cancel()
	select {
	case _, ok := <-c.send:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(time.Second):
		t.Fatalf("send not closed on shutdown")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var h *Hub
	h.Publish("t", nil)
	h.Register(nil)
	if h.ClientCount(context.Background()) != 0 {
		t.Fatalf("nil hub has no clients")
	}
}

type fakeBroker struct {
	mu        sync.Mutex
	available bool
	failPub   bool
	published []string
	handlers  []func(string, []byte)
}

func (f *fakeBroker) Available() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeBroker) Publish(_ context.Context, channel string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPub {
		return errors.New("connection reset")
	}
	f.published = append(f.published, channel)
	for _, h := range f.handlers {
		h(channel, payload)
	}
	return nil
}

func (f *fakeBroker) Subscribe(ctx context.Context, _ string, handle func(string, []byte)) error {
	f.mu.Lock()
	f.handlers = append(f.handlers, handle)
	f.mu.Unlock()
	<-ctx.Done()
	return ctx.Err()
}

func TestRelay_LocalWithoutBroker(t *testing.T) {
	h, _ := startHub(t)
	c := newTestClient(h, "notifications:u1")
	h.Register(c)
	waitClients(t, h, 1)

	r := NewRelay(h, nil, nil)
	if err := r.Publish(context.Background(), "notifications:u1", []byte("local")); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	select {
	case got := <-c.send:
		if string(got) != "local" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("not delivered")
	}
}

func TestRelay_FallsBackWhenBrokerFails(t *testing.T) {
	h, _ := startHub(t)
	c := newTestClient(h, "conversation:c1")
	h.Register(c)
	waitClients(t, h, 1)

	r := NewRelay(h, &fakeBroker{available: true, failPub: true}, nil)
	_ = r.Publish(context.Background(), "conversation:c1", []byte("fallback"))
	select {
	case got := <-c.send:
		if string(got) != "fallback" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("not delivered")
	}
}

func TestRelay_DeliversThroughBroker(t *testing.T) {
	h, _ := startHub(t)
	c := newTestClient(h, "notifications:u2")
	h.Register(c)
	waitClients(t, h, 1)

	broker := &fakeBroker{available: true}
	r := NewRelay(h, broker, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	deadline := time.Now().Add(time.Second)
	for {
		broker.mu.Lock()
		n := len(broker.handlers)
		broker.mu.Unlock()
		if n == len(patterns) {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("relay did not subscribe")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = r.Publish(context.Background(), "notifications:u2", []byte("remote"))
	select {
	case got := <-c.send:
		if string(got) != "remote" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(time.Second):
		t.Fatalf("not delivered")
	}
	broker.mu.Lock()
	defer broker.mu.Unlock()
	if len(broker.published) != 1 {
		t.Fatalf("expected broker publish, got %v", broker.published)
	}
}
