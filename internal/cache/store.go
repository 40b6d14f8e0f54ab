// Package cache persists the last fetched GitHub snapshot per (identity, username) pair.
package cache

import (
	"context"
	"slices"
	"time"

	"github.com/rs/xid"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// Store is the keyed snapshot cache. Get returns (nil, nil) when no snapshot exists.
// Upsert fully replaces the snapshot for its key and stamps LastUpdated with the store clock.
type Store interface {
	Get(ctx context.Context, identityID, username string) (*model.Snapshot, error)
	Upsert(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error)
}

// Option configures a store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func validateKey(identityID, username string) error {
	if identityID == "" {
		return custom_errors.Invalid("identity", "identity id is required")
	}
	if username == "" {
		return custom_errors.Invalid("username", "GitHub username is required")
	}
	return nil
}

func newSnapshotID() string {
	return xid.New().String()
}

// clone deep-copies a snapshot so callers cannot mutate stored state.
func clone(s *model.Snapshot) *model.Snapshot {
	out := *s
	out.Profile.Name = clonePtr(s.Profile.Name)
	out.Profile.Bio = clonePtr(s.Profile.Bio)
	out.Repositories = make([]model.Repository, len(s.Repositories))
	for i, repo := range s.Repositories {
		repo.Description = clonePtr(repo.Description)
		repo.PrimaryLanguage = clonePtr(repo.PrimaryLanguage)
		repo.Languages = slices.Clone(repo.Languages)
		out.Repositories[i] = repo
	}
	out.LanguageStats = slices.Clone(s.LanguageStats)
	if out.LanguageStats == nil {
		out.LanguageStats = model.LanguageStats{}
	}
	return &out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
