package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

// PostgresStore keeps identities in the users table.
type PostgresStore struct {
	q      database.Querier
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

func NewPostgresStore(q database.Querier, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{q: q, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*model.Identity, error) {
	u, err := s.q.GetUser(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, custom_errors.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("identity: loading user %s: %w", id, err)
	}
	return toModelIdentity(u), nil
}

func (s *PostgresStore) Upsert(ctx context.Context, identity *model.Identity) (*model.Identity, error) {
	if identity.ID == "" {
		return nil, custom_errors.Invalid("id", "identity id is required")
	}
	u, err := s.q.UpsertUser(ctx, database.UpsertUserParams{
		ID:                identity.ID,
		Email:             toText(identity.Email),
		FirstName:         toText(identity.FirstName),
		LastName:          toText(identity.LastName),
		ProfileImageUrl:   toText(identity.ProfileImageURL),
		GithubUsername:    toText(identity.GithubUsername),
		GithubAccessToken: credentialText(identity.Credential),
	})
	if err != nil {
		return nil, fmt.Errorf("identity: upserting user %s: %w", identity.ID, err)
	}
	s.logger.Debug("User upserted", "user_id", u.ID)
	return toModelIdentity(u), nil
}

func (s *PostgresStore) UpdateGithubInfo(ctx context.Context, id, username, credential string) (*model.Identity, error) {
	if username == "" {
		return nil, custom_errors.Invalid("githubUsername", "GitHub username is required")
	}
	u, err := s.q.UpdateUserGithubInfo(ctx, database.UpdateUserGithubInfoParams{
		ID:                id,
		GithubUsername:    username,
		GithubAccessToken: credentialText(credential),
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, custom_errors.NotFound("user", id)
	}
	if err != nil {
		return nil, fmt.Errorf("identity: linking %s to user %s: %w", username, id, err)
	}
	return toModelIdentity(u), nil
}

func toModelIdentity(u database.User) *model.Identity {
	return &model.Identity{
		ID:              u.ID,
		Email:           fromText(u.Email),
		FirstName:       fromText(u.FirstName),
		LastName:        fromText(u.LastName),
		ProfileImageURL: fromText(u.ProfileImageUrl),
		GithubUsername:  fromText(u.GithubUsername),
		Credential:      u.GithubAccessToken.String,
		CreatedAt:       u.CreatedAt.UTC(),
		UpdatedAt:       u.UpdatedAt.UTC(),
	}
}

func toText(s *string) pgtype.Text {
	if s == nil || *s == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func credentialText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func fromText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
