package repo

import (
	"context"
	"slices"
	"sync"
	"time"

	"purchaseinbox/internal/modkit/repokit"
	perr "purchaseinbox/internal/platform/errors"
	"purchaseinbox/internal/services/staging/domain"
)

// Memory is an in process Repo for tests and local runs without postgres
// it binds to itself so transactions are not isolated
type Memory struct {
	mu     sync.Mutex
	users  map[string]string
	orders []domain.StagingOrder
	now    func() time.Time
}

// NewMemory returns an empty store, users maps normalized email to user id
func NewMemory(users map[string]string) *Memory {
	if users == nil {
		users = map[string]string{}
	}
	return &Memory{users: users, now: time.Now}
}

// Bind returns the store itself
func (m *Memory) Bind(repokit.Queryer) Repo { return m }

// AddUser registers an account for insert time matching
func (m *Memory) AddUser(email, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[email] = id
}

// Orders returns a copy of every stored row
func (m *Memory) Orders() []domain.StagingOrder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.orders)
}

// OwnerLookupAvailable is always true
func (m *Memory) OwnerLookupAvailable(context.Context) (bool, error) { return true, nil }

// Insert stores a row unless (source, source_order_id) already exists
func (m *Memory) Insert(_ context.Context, in InsertArgs) (domain.StagingOrder, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.Source == in.Source && o.SourceOrderID == in.SourceOrderID {
			return o, false, nil
		}
	}
	o := domain.StagingOrder{
		ID:            in.ID,
		CustomerEmail: in.CustomerEmail,
		Source:        in.Source,
		SourceOrderID: in.SourceOrderID,
		Product:       in.Product,
		Status:        domain.StatusPending,
		CreatedAt:     m.now(),
	}
	if id, ok := m.users[in.CustomerEmail]; ok && in.MatchOwner {
		o.UserID = &id
		o.Matched = true
	}
	m.orders = append(m.orders, o)
	return o, true, nil
}

// Get returns any row by id
func (m *Memory) Get(_ context.Context, id string) (domain.StagingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(id, ""); i >= 0 {
		return m.orders[i], nil
	}
	return domain.StagingOrder{}, perr.ErrNotFound
}

// GetOwned returns a row by id only when owner holds it
func (m *Memory) GetOwned(_ context.Context, id, owner string) (domain.StagingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.find(id, owner); i >= 0 {
		return m.orders[i], nil
	}
	return domain.StagingOrder{}, perr.ErrNotFound
}

// ListPending returns the user's pending rows newest first
func (m *Memory) ListPending(_ context.Context, userID string) ([]domain.StagingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StagingOrder
	for _, o := range m.orders {
		if o.Owner() == userID && o.Status == domain.StatusPending {
			out = append(out, o)
		}
	}
	slices.Reverse(out)
	return out, nil
}

// Transition resolves a pending row, resolved rows are returned unchanged
func (m *Memory) Transition(_ context.Context, in domain.TransitionArgs) (domain.StagingOrder, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(in.ID, in.Owner)
	if i < 0 {
		return domain.StagingOrder{}, false, perr.ErrNotFound
	}
	o := &m.orders[i]
	if o.Status != domain.StatusPending {
		return *o, false, nil
	}
	at := m.now().UTC()
	o.Status, o.ProcessedAt = in.To, &at
	return *o, true, nil
}

// ListUnmatched returns ownerless rows for an email
func (m *Memory) ListUnmatched(_ context.Context, email string) ([]domain.StagingOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.StagingOrder
	for _, o := range m.orders {
		if !o.Matched && o.CustomerEmail == email {
			out = append(out, o)
		}
	}
	return out, nil
}

// Match assigns every ownerless row for email to userID
func (m *Memory) Match(email, userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for i := range m.orders {
		o := &m.orders[i]
		if !o.Matched && o.CustomerEmail == email {
			id := userID
			o.UserID, o.Matched = &id, true
			n++
		}
	}
	return n
}

func (m *Memory) find(id, owner string) int {
	for i, o := range m.orders {
		if o.ID == id && (owner == "" || o.Owner() == owner) {
			return i
		}
	}
	return -1
}
