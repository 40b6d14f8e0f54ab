package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/xid"

	"github-portfolio/internal/auth"
	"github-portfolio/internal/github"
	"github-portfolio/internal/model"
)

const stateCookie = "oauth_state"

// githubLogin redirects the browser to GitHub's authorization page.
// GET /auth/github/login
func (h *Handler) githubLogin(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusInternalServerError, "GitHub OAuth not configured")
		return
	}

	state := xid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.oauth.AuthURL(state), http.StatusTemporaryRedirect)
}

// githubCallback completes the OAuth flow: it checks the state, exchanges the code for an
// access token, upserts the identity owning it and issues the session cookie.
// GET /auth/github/callback?code=xxx&state=yyy
func (h *Handler) githubCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauth == nil {
		respondWithError(w, http.StatusInternalServerError, "GitHub OAuth not configured")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || r.URL.Query().Get("state") != cookie.Value {
		h.logger.Warn("OAuth callback with invalid state")
		respondWithError(w, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("User denied GitHub authorization", "error", errParam)
		http.Redirect(w, r, "/?auth=denied", http.StatusSeeOther)
		return
	}
	code := r.URL.Query().Get("code")
	if code == "" {
		respondWithError(w, http.StatusBadRequest, "Missing OAuth code")
		return
	}

	accessToken, err := h.oauth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("GitHub code exchange failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	viewer, err := h.github.FetchViewer(r.Context(), accessToken)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Authentication failed")
		return
	}

	user, err := h.identities.Upsert(r.Context(), identityFromViewer(viewer, accessToken))
	if err != nil {
		h.logger.Error("Failed to upsert user", "github_id", viewer.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}

	session, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("Failed to issue session token", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Authentication failed")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    session,
		Path:     "/",
		MaxAge:   int(h.tokens.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.Info("User authenticated", "user_id", user.ID, "login", viewer.Login)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// logout clears the session cookie.
// POST /auth/logout
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// currentUser returns the authenticated identity.
// GET /api/auth/user
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentIdentity(r)
	if err != nil {
		respondWithAppError(w, h.logger, err, "Failed to fetch user")
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func identityFromViewer(v *github.Viewer, accessToken string) *model.Identity {
	id := &model.Identity{
		ID:         strconv.FormatInt(v.ID, 10),
		Credential: accessToken,
	}
	if v.Email != "" {
		id.Email = &v.Email
	}
	if v.AvatarURL != "" {
		id.ProfileImageURL = &v.AvatarURL
	}
	if first, last, ok := strings.Cut(strings.TrimSpace(v.Name), " "); first != "" {
		id.FirstName = &first
		if ok && last != "" {
			last = strings.TrimSpace(last)
			id.LastName = &last
		}
	}
	return id
}
