// Package pins stores the repositories a user pinned to their dashboard.
package pins

import (
	"context"
	"time"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// MaxPins is the number of pins a single identity may hold.
const MaxPins = 5

// Store persists pins per identity.
//
// Add fails with ErrLimitExceeded when the identity already holds MaxPins pins and with
// ErrAlreadyPinned when itemID is already pinned. Remove is idempotent.
// List returns the most recently pinned first.
type Store interface {
	List(ctx context.Context, identityID string) ([]model.Pin, error)
	Add(ctx context.Context, identityID, itemID, name, owner string) (*model.Pin, error)
	Remove(ctx context.Context, identityID, itemID string) error
	IsPinned(ctx context.Context, identityID, itemID string) (bool, error)
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

func validateRef(identityID, itemID string) error {
	if identityID == "" {
		return custom_errors.Invalid("identity", "identity id is required")
	}
	if itemID == "" {
		return custom_errors.Invalid("repositoryId", "repository id is required")
	}
	return nil
}

func validateAdd(identityID, itemID, name, owner string) error {
	if err := validateRef(identityID, itemID); err != nil {
		return err
	}
	if name == "" {
		return custom_errors.Invalid("repositoryName", "repository name is required")
	}
	if owner == "" {
		return custom_errors.Invalid("repositoryOwner", "repository owner is required")
	}
	return nil
}
