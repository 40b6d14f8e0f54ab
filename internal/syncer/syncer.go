// internal/syncer/syncer.go
package syncer

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github-portfolio/internal/cache"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/github"
	"github-portfolio/internal/model"
)

// DefaultTTL is how long a cached snapshot is served before a refetch.
const DefaultTTL = 30 * time.Minute

// Fetcher is the remote side of a sync. *github.Client implements it.
type Fetcher interface {
	FetchProfile(ctx context.Context, username, credential string) (*model.Profile, error)
	FetchRepositories(ctx context.Context, username, credential string, limit int) ([]model.Repository, error)
	FetchContributionStats(ctx context.Context, username, credential string, from, to time.Time) (*model.ContributionStats, error)
}

var _ Fetcher = (*github.Client)(nil)

// Config tunes a Syncer. Zero values fall back to the defaults.
type Config struct {
	TTL             time.Duration
	RepositoryLimit int
	TopLanguages    int
	Now             func() time.Time
}

// Syncer orchestrates serving snapshots from the cache and refreshing them from GitHub.
type Syncer struct {
	fetcher Fetcher
	cache   cache.Store
	logger  *slog.Logger
	metrics *Metrics

	ttl       time.Duration
	repoLimit int
	topLangs  int
	now       func() time.Time
}

// NewSyncer creates a new Syncer instance. metrics may be nil.
func NewSyncer(fetcher Fetcher, store cache.Store, logger *slog.Logger, metrics *Metrics, cfg Config) *Syncer {
	s := &Syncer{
		fetcher:   fetcher,
		cache:     store,
		logger:    logger,
		metrics:   metrics,
		ttl:       cfg.TTL,
		repoLimit: cfg.RepositoryLimit,
		topLangs:  cfg.TopLanguages,
		now:       cfg.Now,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.repoLimit <= 0 {
		s.repoLimit = github.DefaultRepositoryLimit
	}
	if s.topLangs <= 0 {
		s.topLangs = github.DefaultTopLanguages
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// GetOrRefresh returns the cached snapshot for (identityID, username) while it is younger
// than the TTL, and otherwise fetches profile, repositories and contribution stats
// concurrently and stores the merged result. forceRefresh skips the cache lookup.
//
// Any fetch failure aborts the whole operation and is returned unchanged; nothing is written.
func (s *Syncer) GetOrRefresh(ctx context.Context, identityID, username, credential string, forceRefresh bool) (*model.Snapshot, error) {
	if identityID == "" {
		return nil, custom_errors.Invalid("identity", "identity id is required")
	}
	if username == "" {
		return nil, custom_errors.Invalid("username", "GitHub username is required")
	}
	logger := s.logger.With("user_id", identityID, "username", username)

	if !forceRefresh {
		cached, err := s.cache.Get(ctx, identityID, username)
		if err != nil {
			return nil, err
		}
		if cached != nil && s.now().Sub(cached.LastUpdated) < s.ttl {
			logger.Debug("Serving cached snapshot", "last_updated", cached.LastUpdated)
			s.metrics.cacheHit()
			return cached, nil
		}
	}

	if credential == "" {
		return nil, &custom_errors.RemoteError{Op: "sync", Message: "GitHub access token not found", Kind: custom_errors.ErrAuthFailure}
	}

	logger.Info("Refreshing snapshot from GitHub", "forced", forceRefresh)
	snapshot, err := s.fetchSnapshot(ctx, identityID, username, credential)
	if err != nil {
		s.metrics.refreshed(forceRefresh, err)
		logger.Warn("Snapshot refresh failed", "error", err)
		return nil, err
	}

	stored, err := s.cache.Upsert(ctx, snapshot)
	s.metrics.refreshed(forceRefresh, err)
	if err != nil {
		return nil, err
	}
	logger.Info("Snapshot refreshed", "repositories", len(stored.Repositories), "languages", len(stored.LanguageStats))
	return stored, nil
}

// fetchSnapshot runs the three independent GitHub queries concurrently. The first failure
// cancels the others and is returned as is.
func (s *Syncer) fetchSnapshot(ctx context.Context, identityID, username, credential string) (*model.Snapshot, error) {
	var (
		profile       *model.Profile
		repos         []model.Repository
		contributions *model.ContributionStats
	)
	from, to := github.ContributionWindow(s.now())

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = s.fetcher.FetchProfile(gctx, username, credential)
		return err
	})
	g.Go(func() (err error) {
		repos, err = s.fetcher.FetchRepositories(gctx, username, credential, s.repoLimit)
		return err
	})
	g.Go(func() (err error) {
		contributions, err = s.fetcher.FetchContributionStats(gctx, username, credential, from, to)
		return err
	})
	err := g.Wait()
	s.metrics.observeFetch(time.Since(start))
	if err != nil {
		return nil, err
	}

	if repos == nil {
		repos = []model.Repository{}
	}
	return &model.Snapshot{
		UserID:            identityID,
		GithubUsername:    username,
		Profile:           *profile,
		Repositories:      repos,
		LanguageStats:     github.ComputeLanguageStats(repos, s.topLangs),
		ContributionStats: *contributions,
	}, nil
}
