// internal/database/models.go
package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                string
	Email             pgtype.Text
	FirstName         pgtype.Text
	LastName          pgtype.Text
	ProfileImageUrl   pgtype.Text
	GithubUsername    pgtype.Text
	GithubAccessToken pgtype.Text
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type GithubUserDatum struct {
	ID                string
	UserID            string
	GithubUsername    string
	ProfileData       []byte
	Repositories      []byte
	LanguageStats     []byte
	ContributionStats []byte
	LastUpdated       time.Time
}

type PinnedRepository struct {
	ID              string
	UserID          string
	RepositoryID    string
	RepositoryName  string
	RepositoryOwner string
	PinnedAt        time.Time
}
