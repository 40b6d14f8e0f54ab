// internal/database/snapshots.sql.go
package database

import (
	"context"
	"time"
)

const getSnapshot = `-- name: GetSnapshot :one
SELECT id, user_id, github_username, profile_data, repositories, language_stats, contribution_stats, last_updated
FROM github_user_data
WHERE user_id = $1 AND github_username = $2
`

type GetSnapshotParams struct {
	UserID         string
	GithubUsername string
}

func (q *Queries) GetSnapshot(ctx context.Context, arg GetSnapshotParams) (GithubUserDatum, error) {
	row := q.db.QueryRow(ctx, getSnapshot, arg.UserID, arg.GithubUsername)
	var i GithubUserDatum
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.GithubUsername,
		&i.ProfileData,
		&i.Repositories,
		&i.LanguageStats,
		&i.ContributionStats,
		&i.LastUpdated,
	)
	return i, err
}

const upsertSnapshot = `-- name: UpsertSnapshot :one
INSERT INTO github_user_data (id, user_id, github_username, profile_data, repositories, language_stats, contribution_stats, last_updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (user_id, github_username) DO UPDATE SET
    profile_data = EXCLUDED.profile_data,
    repositories = EXCLUDED.repositories,
    language_stats = EXCLUDED.language_stats,
    contribution_stats = EXCLUDED.contribution_stats,
    last_updated = EXCLUDED.last_updated
RETURNING id, user_id, github_username, profile_data, repositories, language_stats, contribution_stats, last_updated
`

type UpsertSnapshotParams struct {
	ID                string
	UserID            string
	GithubUsername    string
	ProfileData       []byte
	Repositories      []byte
	LanguageStats     []byte
	ContributionStats []byte
	LastUpdated       time.Time
}

func (q *Queries) UpsertSnapshot(ctx context.Context, arg UpsertSnapshotParams) (GithubUserDatum, error) {
	row := q.db.QueryRow(ctx, upsertSnapshot,
		arg.ID,
		arg.UserID,
		arg.GithubUsername,
		arg.ProfileData,
		arg.Repositories,
		arg.LanguageStats,
		arg.ContributionStats,
		arg.LastUpdated,
	)
	var i GithubUserDatum
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.GithubUsername,
		&i.ProfileData,
		&i.Repositories,
		&i.LanguageStats,
		&i.ContributionStats,
		&i.LastUpdated,
	)
	return i, err
}
