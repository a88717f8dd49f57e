// Package bus carries transaction events between the synchronous mutation
// path and the asynchronous consumer. Delivery is at-most-once: one publish
// attempt, no retry, completion observed only through logging.
package bus

import "context"

// EventBus publishes a serialized payload to a named channel. Publish is
// fire-and-forget: it never blocks the caller on delivery and never
// surfaces a transport failure to the mutation that triggered it.
type EventBus interface {
	Publish(ctx context.Context, channel, payload string)
}

// Handler consumes one delivered payload. A non-nil return means the
// message was discarded; the listener logs and moves on.
type Handler func(ctx context.Context, payload string) error
