// internal/database/querier.go
package database

import (
	"context"
)

type Querier interface {
	CountPins(ctx context.Context, userID string) (int64, error)
	DeletePin(ctx context.Context, arg DeletePinParams) (int64, error)
	GetSnapshot(ctx context.Context, arg GetSnapshotParams) (GithubUserDatum, error)
	GetUser(ctx context.Context, id string) (User, error)
	InsertPin(ctx context.Context, arg InsertPinParams) (PinnedRepository, error)
	ListPins(ctx context.Context, userID string) ([]PinnedRepository, error)
	LockUserPins(ctx context.Context, userID string) error
	PinExists(ctx context.Context, arg PinExistsParams) (bool, error)
	UpdateUserGithubInfo(ctx context.Context, arg UpdateUserGithubInfoParams) (User, error)
	UpsertSnapshot(ctx context.Context, arg UpsertSnapshotParams) (GithubUserDatum, error)
	UpsertUser(ctx context.Context, arg UpsertUserParams) (User, error)
}

var _ Querier = (*Queries)(nil)
