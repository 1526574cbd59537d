package http

import (
	"encoding/json"
	"fmt"
	stdhttp "net/http"
	"time"

	"purchaseinbox/internal/modkit/httpkit"
	"purchaseinbox/internal/platform/logger"
	phttp "purchaseinbox/internal/platform/net/http"
)

func (o StreamOptions) withDefaults() StreamOptions {
	if o.Heartbeat <= 0 {
		o.Heartbeat = 15 * time.Second
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = 25 * time.Second
	}
	if o.Retry <= 0 {
		o.Retry = 2 * time.Second
	}
	return o
}

// swagger:route GET /inbox/stream Inbox stream
// @Summary Server sent events carrying the pending list on every change
// @Tags inbox
// @Security BearerAuth
// @Produce text/event-stream
// @Success 200 {array} sdom.StagingOrder "pending event payload"
// @Router /inbox/stream [get]
func (h *handlers) streamPending(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	uid, err := httpkit.User(r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	ctx := r.Context()
	log := logger.C(ctx)

	events, unsubscribe := h.svc.Subscribe(uid)
	defer unsubscribe()

	rc := stdhttp.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(stdhttp.StatusOK)
	_, _ = fmt.Fprintf(w, "retry: %d\n\n", h.stream.Retry.Milliseconds())

	send := func() bool {
		list, err := h.svc.ListPending(ctx, uid)
		if err != nil {
			log.Warn().Err(err).Msg("inbox stream list failed")
			return false
		}
		b, err := json.Marshal(list)
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: pending\ndata: %s\n\n", b); err != nil {
			return false
		}
		return rc.Flush() == nil
	}
	if !send() {
		return
	}

	beat := time.NewTicker(h.stream.Heartbeat)
	defer beat.Stop()
	deadline := time.NewTimer(h.stream.MaxDuration)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-deadline.C:
			return
		case _, ok := <-events:
			if !ok || !send() {
				return
			}
		case <-beat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil || rc.Flush() != nil {
				return
			}
		}
	}
}
