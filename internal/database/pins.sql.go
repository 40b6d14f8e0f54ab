// internal/database/pins.sql.go
package database

import (
	"context"
	"time"
)

const listPins = `-- name: ListPins :many
SELECT id, user_id, repository_id, repository_name, repository_owner, pinned_at
FROM pinned_repositories
WHERE user_id = $1
ORDER BY pinned_at DESC, id DESC
`

func (q *Queries) ListPins(ctx context.Context, userID string) ([]PinnedRepository, error) {
	rows, err := q.db.Query(ctx, listPins, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PinnedRepository
	for rows.Next() {
		var i PinnedRepository
		if err := rows.Scan(
			&i.ID,
			&i.UserID,
			&i.RepositoryID,
			&i.RepositoryName,
			&i.RepositoryOwner,
			&i.PinnedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countPins = `-- name: CountPins :one
SELECT COUNT(*) FROM pinned_repositories WHERE user_id = $1
`

func (q *Queries) CountPins(ctx context.Context, userID string) (int64, error) {
	row := q.db.QueryRow(ctx, countPins, userID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const pinExists = `-- name: PinExists :one
SELECT EXISTS (
    SELECT 1 FROM pinned_repositories WHERE user_id = $1 AND repository_id = $2
)
`

type PinExistsParams struct {
	UserID       string
	RepositoryID string
}

func (q *Queries) PinExists(ctx context.Context, arg PinExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, pinExists, arg.UserID, arg.RepositoryID)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const insertPin = `-- name: InsertPin :one
INSERT INTO pinned_repositories (id, user_id, repository_id, repository_name, repository_owner, pinned_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, repository_id, repository_name, repository_owner, pinned_at
`

type InsertPinParams struct {
	ID              string
	UserID          string
	RepositoryID    string
	RepositoryName  string
	RepositoryOwner string
	PinnedAt        time.Time
}

func (q *Queries) InsertPin(ctx context.Context, arg InsertPinParams) (PinnedRepository, error) {
	row := q.db.QueryRow(ctx, insertPin,
		arg.ID,
		arg.UserID,
		arg.RepositoryID,
		arg.RepositoryName,
		arg.RepositoryOwner,
		arg.PinnedAt,
	)
	var i PinnedRepository
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.RepositoryID,
		&i.RepositoryName,
		&i.RepositoryOwner,
		&i.PinnedAt,
	)
	return i, err
}

const deletePin = `-- name: DeletePin :execrows
DELETE FROM pinned_repositories WHERE user_id = $1 AND repository_id = $2
`

type DeletePinParams struct {
	UserID       string
	RepositoryID string
}

func (q *Queries) DeletePin(ctx context.Context, arg DeletePinParams) (int64, error) {
	result, err := q.db.Exec(ctx, deletePin, arg.UserID, arg.RepositoryID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const lockUserPins = `-- name: LockUserPins :exec
SELECT pg_advisory_xact_lock(hashtext('pins:' || $1::text))
`

// LockUserPins serializes pin writes for one user until the surrounding transaction ends.
func (q *Queries) LockUserPins(ctx context.Context, userID string) error {
	_, err := q.db.Exec(ctx, lockUserPins, userID)
	return err
}
