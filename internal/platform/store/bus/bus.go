// Package bus provides a nats client
package bus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"purchaseinbox/internal/platform/logger"
)

// Config configures the nats connection
type Config struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

// Conn wraps a nats connection
type Conn struct {
	nc *nats.Conn
}

var connect = nats.Connect

// Open connects to nats and wires connection state logging
func Open(cfg Config, log logger.Logger) (*Conn, error) {
	if cfg.URL == "" {
		return nil, errors.New("bus: empty url")
	}
	wait := cfg.ReconnectWait
	if wait <= 0 {
		wait = 2 * time.Second
	}
	maxRe := cfg.MaxReconnects
	if maxRe == 0 {
		maxRe = -1
	}

	nc, err := connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.MaxReconnects(maxRe),
		nats.ReconnectWait(wait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats disconnected")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats reconnected")
		}),
		nats.ErrorHandler(func(_ *nats.Conn, sub *nats.Subscription, err error) {
			ev := log.Error().Err(err)
			if sub != nil {
				ev = ev.Str("subject", sub.Subject)
			}
			ev.Msg("nats async error")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("bus: connect: %w", err)
	}
	return &Conn{nc: nc}, nil
}

// Publish sends data on subject
func (c *Conn) Publish(ctx context.Context, subject string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.nc.Publish(subject, data)
}

// Subscribe registers an async handler
func (c *Conn) Subscribe(subject string, fn nats.MsgHandler) (*nats.Subscription, error) {
	return c.nc.Subscribe(subject, fn)
}

// QueueSubscribe registers an async handler in a queue group
func (c *Conn) QueueSubscribe(subject, queue string, fn nats.MsgHandler) (*nats.Subscription, error) {
	return c.nc.QueueSubscribe(subject, queue, fn)
}

// Ping flushes pending data and waits for the server pong
func (c *Conn) Ping(ctx context.Context) error {
	if c == nil || c.nc == nil {
		return errors.New("bus: not connected")
	}
	return c.nc.FlushWithContext(ctx)
}

// Close drains subscriptions and closes the connection
func (c *Conn) Close() error {
	if c == nil || c.nc == nil {
		return nil
	}
	if err := c.nc.Drain(); err != nil {
		c.nc.Close()
		return err
	}
	return nil
}
