// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github-portfolio/internal/auth"
	"github-portfolio/internal/github"
	"github-portfolio/internal/identity"
	"github-portfolio/internal/model"
	"github-portfolio/internal/pins"
	"github-portfolio/internal/resume"
)

// SnapshotService serves cached snapshots and refreshes them from GitHub.
type SnapshotService interface {
	GetOrRefresh(ctx context.Context, identityID, username, credential string, forceRefresh bool) (*model.Snapshot, error)
}

// GitHubClient is the subset of the GitHub client the handlers call directly.
type GitHubClient interface {
	FetchProfile(ctx context.Context, username, credential string) (*model.Profile, error)
	FetchViewer(ctx context.Context, credential string) (*github.Viewer, error)
}

// OAuthProvider performs the GitHub authorization code flow.
type OAuthProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// ResumeBuilder assembles the resume bundle of an identity.
type ResumeBuilder interface {
	Build(ctx context.Context, identity *model.Identity) (*resume.Bundle, error)
}

// Dependencies are the collaborators of the HTTP surface. OAuth is nil when GitHub OAuth
// is not configured; Metrics is nil when no metrics endpoint is exposed.
type Dependencies struct {
	Identities   identity.Store
	Pins         pins.Store
	Snapshots    SnapshotService
	GitHub       GitHubClient
	OAuth        OAuthProvider
	Tokens       *auth.TokenService
	Resume       ResumeBuilder
	Renderer     resume.Renderer
	Metrics      http.Handler
	CookieSecure bool
	Logger       *slog.Logger
}

// Handler is the container for API dependencies.
type Handler struct {
	identities   identity.Store
	pins         pins.Store
	snapshots    SnapshotService
	github       GitHubClient
	oauth        OAuthProvider
	tokens       *auth.TokenService
	resume       ResumeBuilder
	renderer     resume.Renderer
	cookieSecure bool
	logger       *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Dependencies) http.Handler {
	h := &Handler{
		identities:   deps.Identities,
		pins:         deps.Pins,
		snapshots:    deps.Snapshots,
		github:       deps.GitHub,
		oauth:        deps.OAuth,
		tokens:       deps.Tokens,
		resume:       deps.Resume,
		renderer:     deps.Renderer,
		cookieSecure: deps.CookieSecure,
		logger:       deps.Logger,
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.healthCheck)
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Get("/github/login", h.githubLogin)
		r.Get("/github/callback", h.githubCallback)
		r.Post("/logout", h.logout)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(h.tokens))

		r.Get("/auth/user", h.currentUser)
		r.Get("/generate-pdf", h.generatePDF)
		r.Route("/github", func(r chi.Router) {
			r.Post("/setup", h.setupGithub)
			r.Get("/profile/{username}", h.getProfile)
			r.Post("/refresh", h.refresh)
			r.Get("/repositories", h.listRepositories)
			r.Post("/repositories/{repoId}/pin", h.updatePin)
			r.Get("/pinned", h.listPinned)
		})
	})

	return r
}

// healthCheck is a simple health endpoint.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// currentIdentity loads the identity of the authenticated caller.
func (h *Handler) currentIdentity(r *http.Request) (*model.Identity, error) {
	id, _ := auth.IdentityIDFromContext(r.Context())
	return h.identities.Get(r.Context(), id)
}
