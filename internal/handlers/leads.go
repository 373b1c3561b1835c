package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"crm-backend/internal/models"
	"crm-backend/internal/storage"
)

// ListStatuses returns the fixed status taxonomy
// @Summary List lead statuses
// @Tags leads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /statuses [get]
func (h *Handler) ListStatuses(w http.ResponseWriter, r *http.Request) {
	statuses, err := h.store.ListStatuses(r.Context())
	if err != nil {
		h.logger.Error("list statuses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"statuses": statuses})
}

// ListLeads returns the organization's leads
// @Summary List leads
// @Tags leads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/leads [get]
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	leads, err := h.store.LeadsByOrganization(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("list leads", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

// CreateLead creates a lead inside the organization
// @Summary Create lead
// @Description The assigned manager, when set, must hold a membership in the organization.
// @Tags leads
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Field validation errors"
// @Security BearerAuth
// @Router /orgs/{orgID}/leads [post]
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	org, userID, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeLeadInput(w, r, org.ID)
	if !ok {
		return
	}

	lead, err := h.store.CreateLead(r.Context(), org.ID, input)
	if err != nil {
		h.logger.Error("create lead", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateReport(org.ID)
	h.events.LeadEvent(models.EventLeadCreated, lead, userID)

	writeJSON(w, http.StatusCreated, map[string]any{"lead": lead})
}

// GetLead returns one lead
// @Summary Get lead
// @Tags leads
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/leads/{leadID} [get]
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	lead, err := h.store.GetLead(r.Context(), org.ID, chi.URLParam(r, "leadID"))
	if errors.Is(err, storage.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		h.logger.Error("get lead", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
}

// UpdateLead replaces a lead's fields
// @Summary Update lead
// @Tags leads
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{} "Field validation errors"
// @Security BearerAuth
// @Router /orgs/{orgID}/leads/{leadID} [put]
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	org, userID, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	input, ok := h.decodeLeadInput(w, r, org.ID)
	if !ok {
		return
	}

	lead, err := h.store.UpdateLead(r.Context(), org.ID, chi.URLParam(r, "leadID"), input)
	if errors.Is(err, storage.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		h.logger.Error("update lead", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateReport(org.ID)
	h.events.LeadEvent(models.EventLeadUpdated, lead, userID)

	writeJSON(w, http.StatusOK, map[string]any{"lead": lead})
}

// DeleteLead removes a lead
// @Summary Delete lead
// @Tags leads
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/leads/{leadID} [delete]
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	org, userID, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	leadID := chi.URLParam(r, "leadID")
	err := h.store.DeleteLead(r.Context(), org.ID, leadID)
	if errors.Is(err, storage.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		h.logger.Error("delete lead", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.invalidateReport(org.ID)
	h.events.LeadEvent(models.EventLeadDeleted, &models.Lead{ID: leadID, OrgID: org.ID}, userID)

	w.WriteHeader(http.StatusNoContent)
}

// decodeLeadInput decodes and validates a lead payload. The manager, when
// set, is restricted to users holding a membership in the organization.
func (h *Handler) decodeLeadInput(w http.ResponseWriter, r *http.Request, orgID string) (models.LeadInput, bool) {
	var input models.LeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return input, false
	}

	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	fields := map[string]string{}
	if input.FirstName == "" {
		fields["first_name"] = "required"
	}
	if input.LastName == "" {
		fields["last_name"] = "required"
	}

	if input.ManagerID != nil {
		if _, err := uuid.Parse(*input.ManagerID); err != nil {
			fields["manager_id"] = "not a member of this organization"
		} else {
			member, err := h.store.HasMembership(r.Context(), *input.ManagerID, orgID)
			if err != nil {
				h.logger.Error("check manager membership", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
				return input, false
			}
			if !member {
				fields["manager_id"] = "not a member of this organization"
			}
		}
	}

	if input.StatusID != nil {
		if _, err := uuid.Parse(*input.StatusID); err != nil {
			fields["status_id"] = "unknown status"
		} else {
			status, err := h.store.GetStatus(r.Context(), *input.StatusID)
			if err != nil {
				h.logger.Error("check status", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "internal error")
				return input, false
			}
			if status == nil {
				fields["status_id"] = "unknown status"
			}
		}
	}

	if len(fields) > 0 {
		writeFieldErrors(w, fields)
		return input, false
	}

	return input, true
}

func (h *Handler) invalidateReport(orgID string) {
	if err := h.cache.InvalidateGeneralReport(orgID); err != nil {
		h.logger.Warn("invalidate report cache", zap.String("org_id", orgID), zap.Error(err))
	}
}
