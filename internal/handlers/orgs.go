package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"crm-backend/internal/auth"
	"crm-backend/internal/models"
	"crm-backend/internal/storage"
)

// ListOrganizations returns the organizations the caller belongs to
// @Summary List my organizations
// @Tags orgs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs [get]
func (h *Handler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orgs, err := h.store.OrganizationsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list organizations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

// CreateOrganization creates an organization owned by the caller
// @Summary Create organization
// @Description Creates the organization and the caller's owner membership atomically
// @Tags orgs
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Field validation errors"
// @Security BearerAuth
// @Router /orgs [post]
func (h *Handler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var input models.CreateOrganizationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		writeFieldErrors(w, map[string]string{"name": "required"})
		return
	}

	org, err := h.store.CreateOrganizationWithOwner(r.Context(), input.Name, userID)
	if err != nil {
		h.logger.Error("create organization", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.events.MembershipEvent(models.EventMembershipCreated, org.ID, userID, "", models.RoleOwner)

	writeJSON(w, http.StatusCreated, map[string]any{"organization": org})
}

// GetOrganization returns one organization the caller belongs to
// @Summary Get organization
// @Tags orgs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID} [get]
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organization": org})
}

// ListMembers returns the organization's memberships
// @Summary List members
// @Tags orgs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/members [get]
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	members, err := h.store.OrganizationMemberships(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("list members", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// Invite issues a single-use invitation token for an existing user's email
// @Summary Invite a user
// @Description Owner-only. Supersedes any pending invitation for the same email and mails a join link.
// @Tags orgs
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Field validation errors"
// @Security BearerAuth
// @Router /orgs/{orgID}/invitations [post]
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireOwner(w, r)
	if !ok {
		return
	}

	var input models.InviteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" {
		writeFieldErrors(w, map[string]string{"email": "required"})
		return
	}

	invitee, err := h.store.GetUserByEmail(r.Context(), input.Email)
	if errors.Is(err, storage.ErrUserNotFound) {
		writeFieldErrors(w, map[string]string{"email": "no user with this email"})
		return
	}
	if err != nil {
		h.logger.Error("lookup invitee", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	member, err := h.store.HasMembership(r.Context(), invitee.ID, org.ID)
	if err != nil {
		h.logger.Error("check invitee membership", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if member {
		writeFieldErrors(w, map[string]string{"email": "already a member of this organization"})
		return
	}

	inv, err := h.store.CreateInvitation(r.Context(), org.ID, input.Email)
	if err != nil {
		h.logger.Error("create invitation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	joinURL := h.baseURL + "/v1/join/" + inv.Token
	if err := h.mail.SendInvitation(org.Name, joinURL, inv.Email); err != nil {
		h.logger.Warn("send invitation mail", zap.String("org_id", org.ID), zap.Error(err))
	}

	h.events.MembershipEvent(models.EventInvitationSent, org.ID, "", inv.Email, "")

	writeJSON(w, http.StatusCreated, map[string]any{"invitation": inv})
}

// Join consumes an invitation token and grants a manager membership
// @Summary Join an organization
// @Description Consumes the token if it matches a pending invitation. An unknown or already-consumed token answers identically, without error disclosure.
// @Tags orgs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /join/{token} [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	token := chi.URLParam(r, "token")
	inv, created, err := h.store.ConsumeInvitation(r.Context(), token, userID, models.RoleManager)
	if err != nil && !errors.Is(err, storage.ErrInvitationNotFound) {
		h.logger.Error("consume invitation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err == nil && created {
		h.events.MembershipEvent(models.EventMembershipCreated, inv.OrgID, userID, inv.Email, models.RoleManager)
	}

	// Answer with the caller's organization list whether or not the token
	// matched, so a guessed token learns nothing.
	orgs, err := h.store.OrganizationsForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list organizations", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": orgs})
}

// ListActivity returns the organization's recent event feed
// @Summary Organization activity feed
// @Tags orgs
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/activity [get]
func (h *Handler) ListActivity(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	activities, err := h.store.ActivityByOrganization(r.Context(), org.ID, limit)
	if err != nil {
		h.logger.Error("list activity", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"activity": activities})
}
