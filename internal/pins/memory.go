package pins

import (
	"context"
	"slices"
	"sync"

	"github.com/rs/xid"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// MemoryStore keeps pins in a map keyed by identity, in insertion order.
type MemoryStore struct {
	mu   sync.Mutex
	pins map[string][]model.Pin
	opts options
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{pins: make(map[string][]model.Pin), opts: buildOptions(opts)}
}

func (m *MemoryStore) List(ctx context.Context, identityID string) ([]model.Pin, error) {
	if identityID == "" {
		return nil, custom_errors.Invalid("identity", "identity id is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	out := slices.Clone(m.pins[identityID])
	slices.Reverse(out)
	if out == nil {
		out = []model.Pin{}
	}
	return out, nil
}

func (m *MemoryStore) Add(ctx context.Context, identityID, itemID, name, owner string) (*model.Pin, error) {
	if err := validateAdd(identityID, itemID, name, owner); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	current := m.pins[identityID]
	if len(current) >= MaxPins {
		return nil, &custom_errors.PinLimitError{Limit: MaxPins}
	}
	if slices.ContainsFunc(current, func(p model.Pin) bool { return p.RepositoryID == itemID }) {
		return nil, &custom_errors.AlreadyPinnedError{ItemID: itemID}
	}

	pin := model.Pin{
		ID:              xid.New().String(),
		UserID:          identityID,
		RepositoryID:    itemID,
		RepositoryName:  name,
		RepositoryOwner: owner,
		PinnedAt:        m.opts.now().UTC(),
	}
	m.pins[identityID] = append(current, pin)
	return &pin, nil
}

func (m *MemoryStore) Remove(ctx context.Context, identityID, itemID string) error {
	if err := validateRef(identityID, itemID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pins[identityID] = slices.DeleteFunc(m.pins[identityID], func(p model.Pin) bool {
		return p.RepositoryID == itemID
	})
	return nil
}

func (m *MemoryStore) IsPinned(ctx context.Context, identityID, itemID string) (bool, error) {
	if err := validateRef(identityID, itemID); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.ContainsFunc(m.pins[identityID], func(p model.Pin) bool { return p.RepositoryID == itemID }), nil
}
