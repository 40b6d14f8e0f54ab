// Package identity stores the dashboard users and the GitHub credential linked to each of them.
package identity

import (
	"context"
	"time"

	"github-portfolio/internal/model"
)

// Store persists identities. Get fails with ErrNotFound for an unknown id.
// UpdateGithubInfo links a GitHub username; an empty credential keeps the stored one.
type Store interface {
	Get(ctx context.Context, id string) (*model.Identity, error)
	Upsert(ctx context.Context, identity *model.Identity) (*model.Identity, error)
	UpdateGithubInfo(ctx context.Context, id, username, credential string) (*model.Identity, error)
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
