//go:build integration

// cmd/service/integration_test.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github-portfolio/internal/database"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/github"
	"github-portfolio/internal/model"
	"github-portfolio/internal/pins"
	"github-portfolio/internal/syncer"
)

func setupTestDatabase(ctx context.Context, t *testing.T) (*pgxpool.Pool, func()) {
	// Start a postgres container
	pgContainer, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, runMigrations("file://../../migrations", connStr))

	dbpool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	teardown := func() {
		dbpool.Close()
		require.NoError(t, pgContainer.Terminate(ctx))
	}
	return dbpool, teardown
}

// newGraphQLServer answers the three GitHub queries for "octocat" and counts requests.
func newGraphQLServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if r.Header.Get("Authorization") != "Bearer gho_integration" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Variables["username"] != "octocat" {
			fmt.Fprint(w, `{"data":{"user":null},"errors":[{"type":"NOT_FOUND","message":"Could not resolve to a User"}]}`)
			return
		}

		switch {
		case strings.Contains(req.Query, "contributionsCollection"):
			fmt.Fprint(w, `{"data":{"user":{"contributionsCollection":{
				"totalCommitContributions":120,"totalIssueContributions":4,
				"totalPullRequestContributions":9,"totalPullRequestReviewContributions":2,
				"totalRepositoryContributions":3}}}}`)
		case strings.Contains(req.Query, "repositories("):
			fmt.Fprint(w, `{"data":{"user":{"repositories":{"nodes":[
				{"id":"R_1","name":"api","stargazerCount":12,"forkCount":1,"createdAt":"2024-01-01T00:00:00Z","updatedAt":"2024-06-01T00:00:00Z","url":"https://github.com/octocat/api","isPrivate":false,
				 "primaryLanguage":{"name":"Python","color":"#3572A5"},
				 "languages":{"totalSize":500,"edges":[{"size":500,"node":{"name":"Python","color":"#3572A5"}}]}},
				{"id":"R_2","name":"cli","stargazerCount":8,"forkCount":0,"createdAt":"2024-02-01T00:00:00Z","updatedAt":"2024-05-01T00:00:00Z","url":"https://github.com/octocat/cli","isPrivate":false,
				 "primaryLanguage":{"name":"Go","color":"#00ADD8"},
				 "languages":{"totalSize":400,"edges":[{"size":400,"node":{"name":"Go","color":"#00ADD8"}}]}},
				{"id":"R_3","name":"web","stargazerCount":3,"forkCount":0,"createdAt":"2024-03-01T00:00:00Z","updatedAt":"2024-04-01T00:00:00Z","url":"https://github.com/octocat/web","isPrivate":false,
				 "primaryLanguage":null,
				 "languages":{"totalSize":100,"edges":[{"size":100,"node":{"name":"TypeScript","color":"#3178c6"}}]}}
			]}}}}`)
		default:
			fmt.Fprint(w, `{"data":{"user":{"login":"octocat","name":"The Octocat","bio":null,"avatarUrl":"https://avatars.example/u/1",
				"followers":{"totalCount":20},"following":{"totalCount":2},"repositories":{"totalCount":3}}}}`)
		}
	}))
}

func TestSyncer_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	q := database.New(dbpool)
	stores := postgresStores(dbpool, logger)

	_, err := stores.identities.Upsert(ctx, &model.Identity{ID: "1001", Credential: "gho_integration"})
	require.NoError(t, err)

	var requests atomic.Int32
	server := newGraphQLServer(t, &requests)
	defer server.Close()
	ghClient, err := github.NewClient(server.URL+"/graphql", server.URL, server.Client(), logger)
	require.NoError(t, err)
	appSyncer := syncer.NewSyncer(ghClient, stores.snapshots, logger, nil, syncer.Config{})

	// --- ACT ---
	first, err := appSyncer.GetOrRefresh(ctx, "1001", "octocat", "gho_integration", false)
	require.NoError(t, err)
	second, err := appSyncer.GetOrRefresh(ctx, "1001", "octocat", "gho_integration", false)
	require.NoError(t, err)

	// --- ASSERT ---
	assert.Equal(t, int32(3), requests.Load(), "the second read is served from postgres")
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.LastUpdated.Equal(second.LastUpdated))
	assert.Equal(t, model.LanguageStats{
		{Language: "Python", Percentage: 50},
		{Language: "Go", Percentage: 40},
		{Language: "TypeScript", Percentage: 10},
	}, second.LanguageStats)
	assert.Equal(t, 120, second.ContributionStats.Commits)
	require.Len(t, second.Repositories, 3)
	assert.Nil(t, second.Repositories[2].PrimaryLanguage)

	// Query the database directly to verify the row was written once.
	row, err := q.GetSnapshot(ctx, database.GetSnapshotParams{UserID: "1001", GithubUsername: "octocat"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, row.ID)

	// A forced refresh replaces the row in place.
	forced, err := appSyncer.GetOrRefresh(ctx, "1001", "octocat", "gho_integration", true)
	require.NoError(t, err)
	assert.Equal(t, first.ID, forced.ID)
	assert.False(t, forced.LastUpdated.Before(first.LastUpdated))
	assert.Equal(t, int32(6), requests.Load())

	// An unknown user fails without writing anything.
	_, err = appSyncer.GetOrRefresh(ctx, "1001", "ghost", "gho_integration", false)
	assert.ErrorIs(t, err, custom_errors.ErrNotFound)
	missing, err := stores.snapshots.Get(ctx, "1001", "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPins_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	dbpool, teardown := setupTestDatabase(ctx, t)
	defer teardown()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	stores := postgresStores(dbpool, logger)
	_, err := stores.identities.Upsert(ctx, &model.Identity{ID: "1001"})
	require.NoError(t, err)

	// Accounts reporting the same email are distinct identities.
	email := "shared@example.com"
	_, err = stores.identities.Upsert(ctx, &model.Identity{ID: "2001", Email: &email})
	require.NoError(t, err)
	_, err = stores.identities.Upsert(ctx, &model.Identity{ID: "2002", Email: &email})
	require.NoError(t, err)

	// Concurrent adds of ten distinct repositories must never exceed the cap.
	var (
		wg       sync.WaitGroup
		accepted atomic.Int32
		rejected atomic.Int32
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := stores.pins.Add(ctx, "1001", fmt.Sprintf("R_%d", i), fmt.Sprintf("repo-%d", i), "octocat")
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, custom_errors.ErrLimitExceeded):
				rejected.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(pins.MaxPins), accepted.Load())
	assert.Equal(t, int32(10-pins.MaxPins), rejected.Load())

	list, err := stores.pins.List(ctx, "1001")
	require.NoError(t, err)
	require.Len(t, list, pins.MaxPins)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].PinnedAt.After(list[i-1].PinnedAt), "most recent first")
	}

	// Duplicates are rejected, and unpinning frees a slot.
	_, err = stores.pins.Add(ctx, "1001", list[0].RepositoryID, list[0].RepositoryName, "octocat")
	assert.ErrorIs(t, err, custom_errors.ErrLimitExceeded)
	require.NoError(t, stores.pins.Remove(ctx, "1001", list[0].RepositoryID))
	require.NoError(t, stores.pins.Remove(ctx, "1001", list[0].RepositoryID))
	_, err = stores.pins.Add(ctx, "1001", list[1].RepositoryID, list[1].RepositoryName, "octocat")
	assert.ErrorIs(t, err, custom_errors.ErrAlreadyPinned)
	_, err = stores.pins.Add(ctx, "1001", "R_new", "new", "octocat")
	assert.NoError(t, err)
}
