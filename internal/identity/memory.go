package identity

import (
	"context"
	"sync"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]model.Identity
	opts  options
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{users: make(map[string]model.Identity), opts: buildOptions(opts)}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*model.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, custom_errors.NotFound("user", id)
	}
	return &u, nil
}

func (m *MemoryStore) Upsert(ctx context.Context, identity *model.Identity) (*model.Identity, error) {
	if identity.ID == "" {
		return nil, custom_errors.Invalid("id", "identity id is required")
	}
	now := m.opts.now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	u := *identity
	u.UpdatedAt = now
	if prev, ok := m.users[u.ID]; ok {
		u.CreatedAt = prev.CreatedAt
		if u.GithubUsername == nil {
			u.GithubUsername = prev.GithubUsername
		}
		if u.Credential == "" {
			u.Credential = prev.Credential
		}
	} else {
		u.CreatedAt = now
	}
	m.users[u.ID] = u
	return &u, nil
}

func (m *MemoryStore) UpdateGithubInfo(ctx context.Context, id, username, credential string) (*model.Identity, error) {
	if username == "" {
		return nil, custom_errors.Invalid("githubUsername", "GitHub username is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, custom_errors.NotFound("user", id)
	}
	u.GithubUsername = &username
	if credential != "" {
		u.Credential = credential
	}
	u.UpdatedAt = m.opts.now().UTC()
	m.users[id] = u
	return &u, nil
}
