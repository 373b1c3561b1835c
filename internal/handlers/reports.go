package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const reportCacheTTL = time.Minute

// GeneralReport returns the organization's summary statistics
// @Summary General report
// @Description Today/this-month lead counts and revenue, plus leads bucketed by status group. Served from cache when warm.
// @Tags reports
// @Produce json
// @Success 200 {object} analytics.GeneralReport
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/reports/general [get]
func (h *Handler) GeneralReport(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	if cached, err := h.cache.GetGeneralReport(org.ID); err == nil && len(cached) > 0 {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	report, err := h.reports.GeneralReport(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("general report", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.cache.SetGeneralReport(org.ID, data, reportCacheTTL); err != nil {
		h.logger.Warn("cache general report", zap.String("org_id", org.ID), zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// ManagerReport returns per-manager performance statistics
// @Summary Manager report
// @Description Sales sum, lead count and rejection percentage for every member, keyed by display name and email.
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/reports/managers [get]
func (h *Handler) ManagerReport(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	stats, err := h.reports.ManagerReport(r.Context(), org.ID)
	if err != nil {
		h.logger.Error("manager report", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"managers_stats": stats})
}

// PeriodReport returns per-day lead statistics over a date range
// @Summary Period report
// @Description One bucket per day in [start_date, end_date], most recent first. Missing or malformed dates fall back to the last 30 days.
// @Tags reports
// @Produce json
// @Param start_date query string false "ISO date (2006-01-02)"
// @Param end_date query string false "ISO date (2006-01-02)"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Security BearerAuth
// @Router /orgs/{orgID}/reports/period [get]
func (h *Handler) PeriodReport(w http.ResponseWriter, r *http.Request) {
	org, _, ok := h.requireMember(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	start, end := h.reports.ParsePeriod(query.Get("start_date"), query.Get("end_date"))

	series, err := h.reports.PeriodReport(r.Context(), org.ID, start, end)
	if err != nil {
		h.logger.Error("period report", zap.String("org_id", org.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start_date":    start.Format("2006-01-02"),
		"end_date":      end.Format("2006-01-02"),
		"leads_by_date": series,
	})
}
