// Package resume assembles the resume bundle of a user and renders it as a PDF document.
package resume

import (
	"context"
	"log/slog"
	"sort"

	"github-portfolio/internal/cache"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
	"github-portfolio/internal/pins"
)

// TopRepositories is the number of repositories carried in a bundle.
const TopRepositories = 10

// Bundle is everything the renderer needs for one resume.
type Bundle struct {
	Identity          model.Identity
	Profile           model.Profile
	Pins              []model.Pin
	TopRepositories   []model.Repository
	ContributionStats model.ContributionStats
	LanguageStats     model.LanguageStats
}

// Assembler builds bundles from the cache and pin stores. It never contacts GitHub.
type Assembler struct {
	cache  cache.Store
	pins   pins.Store
	logger *slog.Logger
}

func NewAssembler(snapshots cache.Store, pinStore pins.Store, logger *slog.Logger) *Assembler {
	return &Assembler{cache: snapshots, pins: pinStore, logger: logger}
}

// Build assembles the bundle for identity from its linked username's cached snapshot.
// It fails with ErrValidation when no username is linked and with ErrNotFound when no
// snapshot has been synced yet.
func (a *Assembler) Build(ctx context.Context, identity *model.Identity) (*Bundle, error) {
	username := identity.LinkedUsername()
	if username == "" {
		return nil, custom_errors.Invalid("githubUsername", "GitHub username not set up")
	}

	snapshot, err := a.cache.Get(ctx, identity.ID, username)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, custom_errors.NotFound("GitHub profile data", username)
	}

	pinned, err := a.pins.List(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Assembled resume bundle", "user_id", identity.ID, "username", username, "pins", len(pinned))
	return &Bundle{
		Identity:          *identity,
		Profile:           snapshot.Profile,
		Pins:              pinned,
		TopRepositories:   topByStars(snapshot.Repositories, TopRepositories),
		ContributionStats: snapshot.ContributionStats,
		LanguageStats:     snapshot.LanguageStats,
	}, nil
}

// topByStars returns at most n repositories by descending star count; ties keep their order.
func topByStars(repos []model.Repository, n int) []model.Repository {
	sorted := make([]model.Repository, len(repos))
	copy(sorted, repos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StarsCount > sorted[j].StarsCount
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
