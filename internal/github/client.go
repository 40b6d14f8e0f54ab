// internal/github/client.go
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"

	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

const (
	// DefaultRepositoryLimit is the page size GitHub allows for a single repositories query.
	DefaultRepositoryLimit = 100

	maxResponseBytes = 10 << 20
)

// Client talks to the GitHub GraphQL API on behalf of a user credential.
// Every call carries its own bearer credential; the client holds no per-user state.
type Client struct {
	graphqlURL string
	restURL    *url.URL
	base       *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client. A nil httpClient falls back to http.DefaultClient.
func NewClient(graphqlURL, restURL string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if !strings.HasSuffix(restURL, "/") {
		restURL += "/"
	}
	rest, err := url.Parse(restURL)
	if err != nil {
		return nil, fmt.Errorf("parsing GitHub API url: %w", err)
	}
	if _, err := url.Parse(graphqlURL); err != nil {
		return nil, fmt.Errorf("parsing GitHub GraphQL url: %w", err)
	}
	return &Client{
		graphqlURL: graphqlURL,
		restURL:    rest,
		base:       httpClient,
		logger:     logger,
	}, nil
}

// Viewer is the account that owns a credential.
type Viewer struct {
	ID        int64
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

// FetchProfile fetches the public profile of username.
func (c *Client) FetchProfile(ctx context.Context, username, credential string) (*model.Profile, error) {
	var data struct {
		User *gqlProfile `json:"user"`
	}
	if err := c.query(ctx, "profile", credential, profileQuery, map[string]any{"username": username}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, userNotFound("profile", username)
	}
	return toInternalProfile(data.User), nil
}

// FetchRepositories fetches up to limit public repositories owned by username,
// ordered by star count descending as returned by GitHub.
func (c *Client) FetchRepositories(ctx context.Context, username, credential string, limit int) ([]model.Repository, error) {
	if limit <= 0 || limit > DefaultRepositoryLimit {
		limit = DefaultRepositoryLimit
	}

	var data struct {
		User *struct {
			Repositories struct {
				Nodes []gqlRepository `json:"nodes"`
			} `json:"repositories"`
		} `json:"user"`
	}
	vars := map[string]any{"username": username, "first": limit}
	if err := c.query(ctx, "repositories", credential, repositoriesQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, userNotFound("repositories", username)
	}

	repos := make([]model.Repository, 0, len(data.User.Repositories.Nodes))
	for _, node := range data.User.Repositories.Nodes {
		repos = append(repos, toInternalRepository(node))
	}
	c.logger.Debug("Fetched repositories", "username", username, "count", len(repos))
	return repos, nil
}

// FetchContributionStats fetches the contribution counters of username within [from, to].
func (c *Client) FetchContributionStats(ctx context.Context, username, credential string, from, to time.Time) (*model.ContributionStats, error) {
	var data struct {
		User *struct {
			ContributionsCollection gqlContributions `json:"contributionsCollection"`
		} `json:"user"`
	}
	vars := map[string]any{
		"username": username,
		"from":     from.UTC().Format(time.RFC3339),
		"to":       to.UTC().Format(time.RFC3339),
	}
	if err := c.query(ctx, "contributions", credential, contributionsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, userNotFound("contributions", username)
	}
	return toInternalContributions(&data.User.ContributionsCollection), nil
}

// FetchViewer resolves the GitHub account that owns credential through the REST API.
func (c *Client) FetchViewer(ctx context.Context, credential string) (*Viewer, error) {
	if credential == "" {
		return nil, missingCredential("viewer")
	}

	gh := github.NewClient(c.httpClientFor(ctx, credential))
	gh.BaseURL = c.restURL

	user, _, err := gh.Users.Get(ctx, "")
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			kind := custom_errors.ErrRemote
			if ghErr.Response.StatusCode == http.StatusUnauthorized {
				kind = custom_errors.ErrAuthFailure
			}
			return nil, &custom_errors.RemoteError{Op: "viewer", Status: ghErr.Response.StatusCode, Message: ghErr.Message, Kind: kind}
		}
		return nil, &custom_errors.RemoteError{Op: "viewer", Message: err.Error(), Kind: custom_errors.ErrRemote}
	}

	return &Viewer{
		ID:        user.GetID(),
		Login:     user.GetLogin(),
		Name:      user.GetName(),
		Email:     user.GetEmail(),
		AvatarURL: user.GetAvatarURL(),
	}, nil
}

// httpClientFor returns an http.Client that adds "Authorization: Bearer <credential>"
// to every request, layered on top of the client's base transport.
func (c *Client) httpClientFor(ctx context.Context, credential string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: credential}))
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type gqlError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

// query posts a GraphQL document and decodes the data payload into out.
func (c *Client) query(ctx context.Context, op, credential, query string, vars map[string]any, out any) error {
	if credential == "" {
		return missingCredential(op)
	}

	body, err := json.Marshal(gqlRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("github %s: encoding request: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("github %s: building request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Querying GitHub GraphQL API", "op", op)
	resp, err := c.httpClientFor(ctx, credential).Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &custom_errors.RemoteError{Op: op, Message: err.Error(), Kind: custom_errors.ErrRemote}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &custom_errors.RemoteError{Op: op, Status: resp.StatusCode, Message: "reading response: " + err.Error(), Kind: custom_errors.ErrRemote}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		kind := custom_errors.ErrRemote
		if resp.StatusCode == http.StatusUnauthorized {
			kind = custom_errors.ErrAuthFailure
		}
		return &custom_errors.RemoteError{Op: op, Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Kind: kind}
	}

	var envelope gqlResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &custom_errors.RemoteError{Op: op, Status: resp.StatusCode, Message: "malformed response: " + err.Error(), Kind: custom_errors.ErrRemote}
	}
	if len(envelope.Errors) > 0 {
		return graphQLFailure(op, resp.StatusCode, envelope.Errors)
	}
	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		return &custom_errors.RemoteError{Op: op, Status: resp.StatusCode, Message: "response has no data", Kind: custom_errors.ErrRemote}
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &custom_errors.RemoteError{Op: op, Status: resp.StatusCode, Message: "malformed data: " + err.Error(), Kind: custom_errors.ErrRemote}
	}
	return nil
}

func graphQLFailure(op string, status int, errs []gqlError) error {
	messages := make([]string, 0, len(errs))
	kind := custom_errors.ErrRemote
	for _, e := range errs {
		messages = append(messages, e.Message)
		if e.Type == "NOT_FOUND" {
			kind = custom_errors.ErrNotFound
		}
	}
	return &custom_errors.RemoteError{Op: op, Status: status, Message: strings.Join(messages, "; "), Kind: kind}
}

func userNotFound(op, username string) error {
	return &custom_errors.RemoteError{
		Op:      op,
		Message: fmt.Sprintf("could not resolve to a user with the login of %q", username),
		Kind:    custom_errors.ErrNotFound,
	}
}

func missingCredential(op string) error {
	return &custom_errors.RemoteError{Op: op, Message: "missing credential", Kind: custom_errors.ErrAuthFailure}
}
