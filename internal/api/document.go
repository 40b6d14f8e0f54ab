package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	custom_errors "github-portfolio/internal/errors"
)

// generatePDF renders the caller's resume from the cached snapshot and pins.
// GET /api/generate-pdf
func (h *Handler) generatePDF(w http.ResponseWriter, r *http.Request) {
	user, ok := h.linkedIdentity(w, r, "Failed to generate PDF resume")
	if !ok {
		return
	}

	bundle, err := h.resume.Build(r.Context(), user)
	if err != nil {
		if errors.Is(err, custom_errors.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "GitHub profile data not found. Please refresh your data first.")
			return
		}
		respondWithAppError(w, h.logger, err, "Failed to generate PDF resume")
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, bundle); err != nil {
		h.logger.Error("Failed to render resume", "user_id", user.ID, "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to generate PDF resume")
		return
	}

	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "github-resume-"+user.LinkedUsername()+".pdf"))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
