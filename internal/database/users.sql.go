// internal/database/users.sql.go
package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, first_name, last_name, profile_image_url, github_username, github_access_token, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.ProfileImageUrl,
		&i.GithubUsername,
		&i.GithubAccessToken,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const upsertUser = `-- name: UpsertUser :one
INSERT INTO users (id, email, first_name, last_name, profile_image_url, github_username, github_access_token)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO UPDATE SET
    email = EXCLUDED.email,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    profile_image_url = EXCLUDED.profile_image_url,
    github_username = COALESCE(EXCLUDED.github_username, users.github_username),
    github_access_token = COALESCE(EXCLUDED.github_access_token, users.github_access_token),
    updated_at = NOW()
RETURNING ` + userColumns + `
`

type UpsertUserParams struct {
	ID                string
	Email             pgtype.Text
	FirstName         pgtype.Text
	LastName          pgtype.Text
	ProfileImageUrl   pgtype.Text
	GithubUsername    pgtype.Text
	GithubAccessToken pgtype.Text
}

func (q *Queries) UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error) {
	row := q.db.QueryRow(ctx, upsertUser,
		arg.ID,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.ProfileImageUrl,
		arg.GithubUsername,
		arg.GithubAccessToken,
	)
	return scanUser(row)
}

const updateUserGithubInfo = `-- name: UpdateUserGithubInfo :one
UPDATE users SET
    github_username = $2,
    github_access_token = COALESCE($3, github_access_token),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns + `
`

type UpdateUserGithubInfoParams struct {
	ID                string
	GithubUsername    string
	GithubAccessToken pgtype.Text
}

func (q *Queries) UpdateUserGithubInfo(ctx context.Context, arg UpdateUserGithubInfoParams) (User, error) {
	row := q.db.QueryRow(ctx, updateUserGithubInfo, arg.ID, arg.GithubUsername, arg.GithubAccessToken)
	return scanUser(row)
}
