package bus

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// RedisBus implements EventBus over redis pub/sub. Pub/sub gives exactly
// the delivery contract this system assumes: at most one attempt, no
// persistence, per-connection publish order.
type RedisBus struct {
	client *redis.Client
	logger *slog.Logger
}

func NewRedisBus(client *redis.Client, logger *slog.Logger) *RedisBus {
	return &RedisBus{client: client, logger: logger}
}

// Publish hands the payload to redis on a background goroutine and reports
// the outcome through the logger only. The triggering mutation is already
// durable by the time this runs, so a failed publish is not an error the
// caller can act on.
func (b *RedisBus) Publish(ctx context.Context, channel, payload string) {
	go func() {
		// The request context may be cancelled as soon as the response is
		// written; the publish outlives it.
		if err := b.client.Publish(context.WithoutCancel(ctx), channel, payload).Err(); err != nil {
			b.logger.Error("event publish failed",
				"channel", channel,
				"payload", payload,
				"error", err,
			)
			return
		}
		b.logger.Info("event published", "channel", channel, "payload", payload)
	}()
}

// Listener pulls payloads off a redis subscription and feeds them to a
// Handler, one message at a time per listener.
type Listener struct {
	client *redis.Client
	logger *slog.Logger
}

func NewListener(client *redis.Client, logger *slog.Logger) *Listener {
	return &Listener{client: client, logger: logger}
}

// Listen blocks until ctx is cancelled. Handler failures are logged and the
// message dropped; there is no retry and no dead-letter channel.
func (l *Listener) Listen(ctx context.Context, channel string, handler Handler) {
	sub := l.client.Subscribe(ctx, channel)
	defer sub.Close()

	l.logger.Info("listener started", "channel", channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("listener stopped", "channel", channel)
			return
		case msg, ok := <-ch:
			if !ok {
				l.logger.Info("subscription closed", "channel", channel)
				return
			}
			if err := handler(ctx, msg.Payload); err != nil {
				l.logger.Error("event discarded",
					"channel", channel,
					"payload", msg.Payload,
					"error", err,
				)
			}
		}
	}
}
