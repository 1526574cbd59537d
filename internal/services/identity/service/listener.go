package service

import (
	"context"
	"encoding/json"
	"time"

	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/platform/store"
	"purchaseinbox/internal/services/identity/domain"
)

// ListenOptions configures the auth event subscription
type ListenOptions struct {
	Subject string        // default auth.login
	Queue   string        // default inbox-matcher
	Timeout time.Duration // per message, default 5s
}

// Listen queue subscribes to auth events and matches each verified login
// the subscription is dropped when ctx is done
func (s *Svc) Listen(ctx context.Context, bus store.Bus, o ListenOptions) (store.Subscription, error) {
	if bus == nil {
		return nil, perr.Unavailablef("identity: listen requires a bus")
	}
	if o.Subject == "" {
		o.Subject = "auth.login"
	}
	if o.Queue == "" {
		o.Queue = "inbox-matcher"
	}
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}

	sub, err := bus.QueueSubscribe(o.Subject, o.Queue, func(m store.Msg) {
		var ev domain.LoginEvent
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			s.log.Warn().Err(err).Str("subject", m.Subject).Msg("dropping malformed auth event")
			return
		}
		hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.Timeout)
		defer cancel()
		s.HandleLogin(hctx, ev)
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "identity: subscribe %s", o.Subject)
	}
	go func() {
		<-ctx.Done()
		_ = sub.Unsubscribe()
	}()
	s.log.Info().Str("subject", o.Subject).Str("queue", o.Queue).Msg("listening for auth events")
	return sub, nil
}
