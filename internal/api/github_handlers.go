package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github-portfolio/internal/auth"
	custom_errors "github-portfolio/internal/errors"
	"github-portfolio/internal/model"
)

type setupRequest struct {
	GithubUsername string `json:"githubUsername"`
}

type setupResponse struct {
	User          *model.Identity `json:"user"`
	GithubProfile *model.Profile  `json:"githubProfile"`
}

type pinRequest struct {
	RepositoryName  string `json:"repositoryName"`
	RepositoryOwner string `json:"repositoryOwner"`
	Action          string `json:"action"`
}

// setupGithub verifies a GitHub username and links it to the caller.
// POST /api/github/setup
func (h *Handler) setupGithub(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	username := strings.TrimSpace(req.GithubUsername)
	if username == "" {
		respondWithError(w, http.StatusBadRequest, "GitHub username is required")
		return
	}

	user, err := h.currentIdentity(r)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to setup GitHub username")
		return
	}
	if user.Credential == "" {
		respondWithError(w, http.StatusBadRequest, "GitHub access token not found. Please re-authenticate.")
		return
	}

	profile, err := h.github.FetchProfile(r.Context(), username, user.Credential)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "GitHub user not found")
			return
		}
		respondWithAppError(w, h.logger, err, "Failed to setup GitHub username")
		return
	}

	updated, err := h.identities.UpdateGithubInfo(r.Context(), user.ID, username, user.Credential)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to setup GitHub username")
		return
	}
	h.logger.Info("Linked GitHub username", "user_id", user.ID, "username", username)
	respondWithJSON(w, http.StatusOK, setupResponse{User: updated, GithubProfile: profile})
}

// getProfile returns the snapshot for username, served from the cache while fresh.
// GET /api/github/profile/{username}
func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.currentIdentity(r)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch GitHub profile data")
		return
	}

	snapshot, err := h.snapshots.GetOrRefresh(r.Context(), user.ID, username, user.Credential, false)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch GitHub profile data")
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// refresh refetches the snapshot of the caller's linked username, bypassing the cache.
// POST /api/github/refresh
func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	user, ok := h.linkedIdentity(w, r, "Failed to refresh GitHub data")
	if !ok {
		return
	}

	snapshot, err := h.snapshots.GetOrRefresh(r.Context(), user.ID, user.LinkedUsername(), user.Credential, true)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to refresh GitHub data")
		return
	}
	respondWithJSON(w, http.StatusOK, snapshot)
}

// listRepositories returns the repositories of the caller's linked username with their
// pin state.
// GET /api/github/repositories?sort=stars|name|updated|created&q=term
func (h *Handler) listRepositories(w http.ResponseWriter, r *http.Request) {
	user, ok := h.linkedIdentity(w, r, "Failed to fetch repositories")
	if !ok {
		return
	}

	snapshot, err := h.snapshots.GetOrRefresh(r.Context(), user.ID, user.LinkedUsername(), user.Credential, false)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch repositories")
		return
	}
	pinned, err := h.pins.List(r.Context(), user.ID)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch repositories")
		return
	}
	pinnedIDs := make(map[string]bool, len(pinned))
	for _, p := range pinned {
		pinnedIDs[p.RepositoryID] = true
	}

	views, err := repositoryViews(snapshot.Repositories, pinnedIDs, r.URL.Query().Get("sort"), r.URL.Query().Get("q"))
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch repositories")
		return
	}
	respondWithJSON(w, http.StatusOK, views)
}

// updatePin pins or unpins a repository for the caller.
// POST /api/github/repositories/{repoId}/pin
func (h *Handler) updatePin(w http.ResponseWriter, r *http.Request) {
	repoID := chi.URLParam(r, "repoId")
	identityID, _ := auth.IdentityIDFromContext(r.Context())

	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	switch req.Action {
	case "pin":
		pin, err := h.pins.Add(r.Context(), identityID, repoID, req.RepositoryName, req.RepositoryOwner)
		if err != nil {
			respondWithAppError(w, h.logger, err, "Failed to update repository pin status")
			return
		}
		respondWithJSON(w, http.StatusOK, pin)
	case "unpin":
		if err := h.pins.Remove(r.Context(), identityID, repoID); err != nil {
			respondWithAppError(w, h.logger, err, "Failed to update repository pin status")
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Repository unpinned successfully"})
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid action. Use 'pin' or 'unpin'")
	}
}

// listPinned returns the caller's pins, most recent first.
// GET /api/github/pinned
func (h *Handler) listPinned(w http.ResponseWriter, r *http.Request) {
	identityID, _ := auth.IdentityIDFromContext(r.Context())

	pinned, err := h.pins.List(r.Context(), identityID)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch pinned repositories")
		return
	}
	respondWithJSON(w, http.StatusOK, pinned)
}

// linkedIdentity loads the caller and requires a linked GitHub username. On failure it
// writes the response itself.
func (h *Handler) linkedIdentity(w http.ResponseWriter, r *http.Request, fallback string) (*model.Identity, bool) {
	user, err := h.currentIdentity(r)
	if err != nil {
		respondWithAppError(w, h.logger, err, fallback)
		return nil, false
	}
	if user.LinkedUsername() == "" {
		respondWithError(w, http.StatusBadRequest, "GitHub username not set up")
		return nil, false
	}
	return user, true
}
