package cache

import (
	"context"
	"sync"

	"github-portfolio/internal/model"
)

type snapshotKey struct {
	identityID string
	username   string
}

// MemoryStore keeps snapshots in a map. It is used for local development and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[snapshotKey]*model.Snapshot
	opts      options
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[snapshotKey]*model.Snapshot),
		opts:      buildOptions(opts),
	}
}

func (m *MemoryStore) Get(ctx context.Context, identityID, username string) (*model.Snapshot, error) {
	if err := validateKey(identityID, username); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.snapshots[snapshotKey{identityID, username}]
	if !ok {
		return nil, nil
	}
	return clone(s), nil
}

func (m *MemoryStore) Upsert(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	if err := validateKey(snapshot.UserID, snapshot.GithubUsername); err != nil {
		return nil, err
	}
	key := snapshotKey{snapshot.UserID, snapshot.GithubUsername}
	stored := clone(snapshot)
	stored.LastUpdated = m.opts.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.snapshots[key]; ok {
		stored.ID = prev.ID
	} else {
		stored.ID = newSnapshotID()
	}
	m.snapshots[key] = stored
	return clone(stored), nil
}
