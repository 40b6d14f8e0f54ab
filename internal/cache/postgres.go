package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github-portfolio/internal/database"
	"github-portfolio/internal/model"
)

// PostgresStore keeps snapshots in the github_user_data table, one row per (user, username).
// The nested records are stored as JSONB and decoded back into typed values on read.
type PostgresStore struct {
	q      database.Querier
	logger *slog.Logger
	opts   options
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(q database.Querier, logger *slog.Logger, opts ...Option) *PostgresStore {
	return &PostgresStore{q: q, logger: logger, opts: buildOptions(opts)}
}

func (s *PostgresStore) Get(ctx context.Context, identityID, username string) (*model.Snapshot, error) {
	if err := validateKey(identityID, username); err != nil {
		return nil, err
	}
	row, err := s.q.GetSnapshot(ctx, database.GetSnapshotParams{UserID: identityID, GithubUsername: username})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: loading snapshot for %s: %w", username, err)
	}
	return decodeSnapshot(row)
}

func (s *PostgresStore) Upsert(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	if err := validateKey(snapshot.UserID, snapshot.GithubUsername); err != nil {
		return nil, err
	}
	params, err := encodeSnapshot(snapshot)
	if err != nil {
		return nil, err
	}
	// timestamptz keeps microseconds; truncate so the returned value round-trips exactly.
	params.LastUpdated = s.opts.now().UTC().Truncate(time.Microsecond)

	row, err := s.q.UpsertSnapshot(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("cache: storing snapshot for %s: %w", snapshot.GithubUsername, err)
	}
	s.logger.Debug("Snapshot stored", "user_id", row.UserID, "username", row.GithubUsername, "repositories", len(snapshot.Repositories))
	return decodeSnapshot(row)
}

func encodeSnapshot(s *model.Snapshot) (database.UpsertSnapshotParams, error) {
	repos := s.Repositories
	if repos == nil {
		repos = []model.Repository{}
	}
	langs := s.LanguageStats
	if langs == nil {
		langs = model.LanguageStats{}
	}

	params := database.UpsertSnapshotParams{
		ID:             newSnapshotID(),
		UserID:         s.UserID,
		GithubUsername: s.GithubUsername,
	}
	var err error
	if params.ProfileData, err = json.Marshal(s.Profile); err != nil {
		return params, fmt.Errorf("cache: encoding profile: %w", err)
	}
	if params.Repositories, err = json.Marshal(repos); err != nil {
		return params, fmt.Errorf("cache: encoding repositories: %w", err)
	}
	if params.LanguageStats, err = json.Marshal(langs); err != nil {
		return params, fmt.Errorf("cache: encoding language stats: %w", err)
	}
	if params.ContributionStats, err = json.Marshal(s.ContributionStats); err != nil {
		return params, fmt.Errorf("cache: encoding contribution stats: %w", err)
	}
	return params, nil
}

func decodeSnapshot(row database.GithubUserDatum) (*model.Snapshot, error) {
	s := &model.Snapshot{
		ID:             row.ID,
		UserID:         row.UserID,
		GithubUsername: row.GithubUsername,
		LastUpdated:    row.LastUpdated.UTC(),
	}
	if err := json.Unmarshal(row.ProfileData, &s.Profile); err != nil {
		return nil, fmt.Errorf("cache: decoding profile of %s: %w", row.GithubUsername, err)
	}
	if err := json.Unmarshal(row.Repositories, &s.Repositories); err != nil {
		return nil, fmt.Errorf("cache: decoding repositories of %s: %w", row.GithubUsername, err)
	}
	if err := json.Unmarshal(row.LanguageStats, &s.LanguageStats); err != nil {
		return nil, fmt.Errorf("cache: decoding language stats of %s: %w", row.GithubUsername, err)
	}
	if err := json.Unmarshal(row.ContributionStats, &s.ContributionStats); err != nil {
		return nil, fmt.Errorf("cache: decoding contribution stats of %s: %w", row.GithubUsername, err)
	}
	if s.Repositories == nil {
		s.Repositories = []model.Repository{}
	}
	if s.LanguageStats == nil {
		s.LanguageStats = model.LanguageStats{}
	}
	return s, nil
}
