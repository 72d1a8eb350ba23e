package ws

import (
	"context"
	"errors"
	"time"

	"mammy-coker-hub/internal/pkg/logging"
	"mammy-coker-hub/internal/usecase/message"
	"mammy-coker-hub/internal/usecase/notification"
)

// Broker is the cross-instance pub/sub. The Redis cache satisfies it.
type Broker interface {
	Available() bool
	Publish(ctx context.Context, channel string, payload []byte) error
	Subscribe(ctx context.Context, pattern string, handle func(channel string, payload []byte)) error
}

// Relay is the publisher handed to the use cases. With a broker every
// instance receives the event through its subscription; without one the
// event goes straight to the local hub.
type Relay struct {
	hub    *Hub
	broker Broker
	logger *logging.Logger
}

func NewRelay(hub *Hub, broker Broker, logger *logging.Logger) *Relay {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Relay{hub: hub, broker: broker, logger: logger.With("component", "relay")}
}

func (r *Relay) brokered() bool {
	return r.broker != nil && r.broker.Available()
}

func (r *Relay) Publish(ctx context.Context, channel string, payload []byte) error {
	if r.brokered() {
		err := r.broker.Publish(ctx, channel, payload)
		if err == nil {
			return nil
		}
		r.logger.Warn("broker publish failed, delivering locally", "channel", channel, "error", err)
	}
	r.hub.Publish(channel, payload)
	return nil
}

var patterns = []string{notification.ChannelPrefix + "*", message.ChannelPrefix + "*"}

// Run feeds broker messages into the hub until ctx is done. A dropped
// subscription is retried after a short pause.
func (r *Relay) Run(ctx context.Context) {
	if r.broker == nil {
		return
	}
	done := make(chan struct{}, len(patterns))
	for _, p := range patterns {
		go func(pattern string) {
			defer func() { done <- struct{}{} }()
			r.subscribe(ctx, pattern)
		}(p)
	}
	for range patterns {
		<-done
	}
}

func (r *Relay) subscribe(ctx context.Context, pattern string) {
	for {
		err := r.broker.Subscribe(ctx, pattern, r.hub.Publish)
		if ctx.Err() != nil {
			return
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Warn("subscription ended", "pattern", pattern, "error", err)
		}
		if !r.broker.Available() {
			r.logger.Info("broker unavailable, relaying locally", "pattern", pattern)
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}
