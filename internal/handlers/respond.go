package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"
	"crm-backend/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// writeFieldErrors surfaces per-field validation failures so the caller can
// re-display the form without losing the other values.
func writeFieldErrors(w http.ResponseWriter, fields map[string]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// requireMember resolves the organization from the URL and verifies the
// caller's membership. A missing organization is not-found; an existing one
// without a membership row is forbidden. Runs before any organization data
// is read or mutated.
func (h *Handler) requireMember(w http.ResponseWriter, r *http.Request) (*models.Organization, string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, "", false
	}

	orgID := chi.URLParam(r, "orgID")
	org, err := h.store.GetOrganization(r.Context(), orgID)
	if errors.Is(err, storage.ErrOrgNotFound) {
		writeError(w, http.StatusNotFound, "organization not found")
		return nil, "", false
	}
	if err != nil {
		h.logger.Error("get organization", zap.String("org_id", orgID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, "", false
	}

	member, err := h.store.HasMembership(r.Context(), userID, org.ID)
	if err != nil {
		h.logger.Error("check membership", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, "", false
	}
	if !member {
		writeError(w, http.StatusForbidden, "not a member of this organization")
		return nil, "", false
	}

	return org, userID, true
}

// requireOwner refines requireMember: the caller's role must be "owner".
func (h *Handler) requireOwner(w http.ResponseWriter, r *http.Request) (*models.Organization, string, bool) {
	org, userID, ok := h.requireMember(w, r)
	if !ok {
		return nil, "", false
	}

	owner, err := h.store.IsOwner(r.Context(), userID, org.ID)
	if err != nil {
		h.logger.Error("check ownership", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return nil, "", false
	}
	if !owner {
		writeError(w, http.StatusForbidden, "only the organization owner may do this")
		return nil, "", false
	}

	return org, userID, true
}
