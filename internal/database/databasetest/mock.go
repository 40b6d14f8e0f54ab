// Package databasetest provides a testify mock of database.Querier.
package databasetest

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github-portfolio/internal/database"
)

// MockQuerier is a mock of the database.Querier interface. InsertPin and
// UpsertSnapshot also accept a function as their first return value, which is
// called with the arguments to build the returned row.
type MockQuerier struct {
	mock.Mock
}

var _ database.Querier = (*MockQuerier)(nil)

func (m *MockQuerier) CountPins(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) DeletePin(ctx context.Context, arg database.DeletePinParams) (int64, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockQuerier) GetSnapshot(ctx context.Context, arg database.GetSnapshotParams) (database.GithubUserDatum, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.GithubUserDatum), args.Error(1)
}
func (m *MockQuerier) GetUser(ctx context.Context, id string) (database.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(database.User), args.Error(1)
}
func (m *MockQuerier) InsertPin(ctx context.Context, arg database.InsertPinParams) (database.PinnedRepository, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(context.Context, database.InsertPinParams) database.PinnedRepository); ok {
		return fn(ctx, arg), args.Error(1)
	}
	return args.Get(0).(database.PinnedRepository), args.Error(1)
}
func (m *MockQuerier) ListPins(ctx context.Context, userID string) ([]database.PinnedRepository, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]database.PinnedRepository), args.Error(1)
}
func (m *MockQuerier) LockUserPins(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockQuerier) PinExists(ctx context.Context, arg database.PinExistsParams) (bool, error) {
	args := m.Called(ctx, arg)
	return args.Bool(0), args.Error(1)
}
func (m *MockQuerier) UpdateUserGithubInfo(ctx context.Context, arg database.UpdateUserGithubInfoParams) (database.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.User), args.Error(1)
}
func (m *MockQuerier) UpsertSnapshot(ctx context.Context, arg database.UpsertSnapshotParams) (database.GithubUserDatum, error) {
	args := m.Called(ctx, arg)
	if fn, ok := args.Get(0).(func(context.Context, database.UpsertSnapshotParams) database.GithubUserDatum); ok {
		return fn(ctx, arg), args.Error(1)
	}
	return args.Get(0).(database.GithubUserDatum), args.Error(1)
}
func (m *MockQuerier) UpsertUser(ctx context.Context, arg database.UpsertUserParams) (database.User, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(database.User), args.Error(1)
}
