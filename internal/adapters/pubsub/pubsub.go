// Package pubsub fans inbox change events out to subscribers keyed by user id
package pubsub

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"purchaseinbox/internal/platform/logger"
	"purchaseinbox/internal/platform/store"

	"github.com/google/uuid"
)

// DefaultSubjectPrefix is the nats subject root, events go to <prefix>.<user_id>
const DefaultSubjectPrefix = "inbox"

// Changed tells a subscriber to pull the fresh pending list
type Changed struct {
	UserID string    `json:"user_id"`
	At     time.Time `json:"at"`
	Origin string    `json:"origin,omitempty"`
}

// Options configures the Broker
type Options struct {
	// Bus mirrors events across replicas, nil keeps them in process
	Bus           store.Bus
	SubjectPrefix string
	// Buffer is the per subscriber channel size
	Buffer int
}

// Broker is an in process pub/sub keyed by user id with an optional nats mirror
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[chan Changed]struct{}
	bus    store.Bus
	prefix string
	buffer int
	origin string
	log    logger.Logger
	now    func() time.Time
}

// New creates a Broker
func New(o Options) *Broker {
	if o.SubjectPrefix == "" {
		o.SubjectPrefix = DefaultSubjectPrefix
	}
	if o.Buffer <= 0 {
		o.Buffer = 4
	}
	return &Broker{
		subs:   make(map[string]map[chan Changed]struct{}),
		bus:    o.Bus,
		prefix: o.SubjectPrefix,
		buffer: o.Buffer,
		origin: uuid.NewString(),
		log:    *logger.Named("pubsub"),
		now:    time.Now,
	}
}

// Subject returns the nats subject for a user
func (b *Broker) Subject(userID string) string {
	return b.prefix + "." + subjectToken(userID)
}

// subjectToken replaces characters nats reserves in subject tokens
func subjectToken(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, s)
}

// Subscribe registers a listener for userID
// call the returned func to unsubscribe, it closes the channel
func (b *Broker) Subscribe(userID string) (<-chan Changed, func()) {
	ch := make(chan Changed, b.buffer)
	b.mu.Lock()
	set, ok := b.subs[userID]
	if !ok {
		set = make(map[chan Changed]struct{})
		b.subs[userID] = set
	}
	set[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			if set, ok := b.subs[userID]; ok {
				delete(set, ch)
				if len(set) == 0 {
					delete(b.subs, userID)
				}
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Subscribers returns the local listener count for userID
func (b *Broker) Subscribers(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}

// Publish notifies local listeners and mirrors through the bus when configured
// a bus failure is returned after local delivery has happened
func (b *Broker) Publish(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	ev := Changed{UserID: userID, At: b.now().UTC(), Origin: b.origin}
	b.deliver(ev)

	if b.bus == nil {
		return nil
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.bus.Publish(ctx, b.Subject(userID), data); err != nil {
		b.log.Warn().Err(err).Str("user_id", userID).Msg("inbox event mirror failed")
		return err
	}
	return nil
}

// deliver does a non blocking send, a full buffer already holds a pending pull
func (b *Broker) deliver(ev Changed) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs[ev.UserID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Start subscribes to the bus wildcard and relays events from other replicas
// it returns once subscribed, the subscription ends when ctx is done
func (b *Broker) Start(ctx context.Context) error {
	if b.bus == nil {
		return nil
	}
	sub, err := b.bus.Subscribe(b.prefix+".*", func(m store.Msg) {
		var ev Changed
		if err := json.Unmarshal(m.Data, &ev); err != nil {
			b.log.Warn().Err(err).Str("subject", m.Subject).Msg("drop malformed inbox event")
			return
		}
		if ev.Origin == b.origin || ev.UserID == "" {
			return
		}
		b.deliver(ev)
	})
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		if err := sub.Unsubscribe(); err != nil {
			b.log.Debug().Err(err).Msg("inbox relay unsubscribe")
		}
	}()
	b.log.Info().Str("subject", b.prefix+".*").Msg("inbox relay subscribed")
	return nil
}
