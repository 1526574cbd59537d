package store

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"purchaseinbox/internal/platform/store/bus"
)

// newBusAdapter is called by openers.go to wrap an existing *bus.Conn
func newBusAdapter(c *bus.Conn) Bus {
	return &busAdapter{inner: c}
}

type busAdapter struct {
	inner *bus.Conn
}

var _ Bus = (*busAdapter)(nil)

func (a *busAdapter) Publish(ctx context.Context, subject string, data []byte) error {
	return a.inner.Publish(ctx, subject, data)
}

func (a *busAdapter) Subscribe(subject string, fn func(Msg)) (Subscription, error) {
	return a.inner.Subscribe(subject, wrapHandler(fn))
}

func (a *busAdapter) QueueSubscribe(subject, queue string, fn func(Msg)) (Subscription, error) {
	return a.inner.QueueSubscribe(subject, queue, wrapHandler(fn))
}

func (a *busAdapter) Close() error { return a.inner.Close() }

// Ping verifies the nats round trip
func (a *busAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil bus adapter")
	}
	return a.inner.Ping(ctx)
}

func wrapHandler(fn func(Msg)) nats.MsgHandler {
	return func(m *nats.Msg) {
		fn(Msg{Subject: m.Subject, Data: m.Data})
	}
}
