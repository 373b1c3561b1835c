// Package analytics computes the per-organization reports: the general
// summary, per-manager performance, and the per-day period series.
//
// Membership verification happens in the HTTP layer before any report is
// computed; the service itself only reads organization-scoped data.
package analytics

import (
	"context"
	"math"
	"time"

	"crm-backend/internal/models"
)

const dateLayout = "2006-01-02"

// defaultPeriodDays is the fallback window when the caller supplies no
// usable date range.
const defaultPeriodDays = 30

// Store is the slice of the storage layer the reports read from.
type Store interface {
	LeadsByOrganization(ctx context.Context, orgID string) ([]models.Lead, error)
	LeadsCreatedBetween(ctx context.Context, orgID string, start, end time.Time) ([]models.Lead, error)
	ListStatuses(ctx context.Context) ([]models.Status, error)
	OrganizationMembers(ctx context.Context, orgID string) ([]models.User, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// NewServiceWithClock pins "now" for tests and for the report warmer.
func NewServiceWithClock(store Store, now func() time.Time) *Service {
	return &Service{store: store, now: now}
}

type GeneralReport struct {
	LeadsCreatedTodayCount            int                      `json:"leads_created_today_count"`
	LeadsCreatedThisMonthCount        int                      `json:"leads_created_this_month_count"`
	LeadsCreatedThisMonthPrice        int                      `json:"leads_created_this_month_price"`
	LeadsCreatedThisMonthAndDonePrice int                      `json:"leads_created_this_month_and_done_price"`
	LeadsByStatuses                   map[string][]models.Lead `json:"leads_by_statuses"`
}

type ManagerStats struct {
	Name                    string  `json:"name"`
	SalesSum                int     `json:"sales_sum"`
	LeadsCount              int     `json:"leads_count"`
	LeadsRejectedPercentage float64 `json:"leads_rejected_percentage"`
}

type DayStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Price int    `json:"price"`
}

// GeneralReport summarizes the organization's leads around the reference
// instant: created in the last 24 hours, created this calendar month (count,
// price sum, price sum of the Done subset), and the leads bucketed by the
// four report status groups. Rejected leads and leads without a status land
// in no bucket.
func (s *Service) GeneralReport(ctx context.Context, orgID string) (*GeneralReport, error) {
	leads, err := s.store.LeadsByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	groups, err := s.statusGroups(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	yesterday := now.Add(-24 * time.Hour)

	report := &GeneralReport{
		LeadsByStatuses: make(map[string][]models.Lead, len(models.ReportGroups())),
	}
	for _, group := range models.ReportGroups() {
		report.LeadsByStatuses[group.Label()] = []models.Lead{}
	}

	for _, lead := range leads {
		group, hasGroup := leadGroup(lead, groups)

		if lead.DateCreated.After(yesterday) {
			report.LeadsCreatedTodayCount++
		}

		if lead.DateCreated.Year() == now.Year() && lead.DateCreated.Month() == now.Month() {
			report.LeadsCreatedThisMonthCount++
			report.LeadsCreatedThisMonthPrice += lead.Price
			if hasGroup && group == models.GroupDone {
				report.LeadsCreatedThisMonthAndDonePrice += lead.Price
			}
		}

		if hasGroup && group != models.GroupRejected {
			label := group.Label()
			if _, ok := report.LeadsByStatuses[label]; ok {
				report.LeadsByStatuses[label] = append(report.LeadsByStatuses[label], lead)
			}
		}
	}

	return report, nil
}

// ManagerReport computes per-member performance over all of the
// organization's leads, keyed by "First Last (email)". A manager with no
// leads reports a zero rejection percentage.
func (s *Service) ManagerReport(ctx context.Context, orgID string) (map[string]ManagerStats, error) {
	members, err := s.store.OrganizationMembers(ctx, orgID)
	if err != nil {
		return nil, err
	}

	leads, err := s.store.LeadsByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	groups, err := s.statusGroups(ctx)
	if err != nil {
		return nil, err
	}

	stats := make(map[string]ManagerStats, len(members))
	for _, member := range members {
		var entry ManagerStats
		entry.Name = member.DisplayName()

		rejected := 0
		for _, lead := range leads {
			if lead.ManagerID == nil || *lead.ManagerID != member.ID {
				continue
			}
			entry.LeadsCount++

			group, ok := leadGroup(lead, groups)
			if !ok {
				continue
			}
			switch group {
			case models.GroupDone:
				entry.SalesSum += lead.Price
			case models.GroupRejected:
				rejected++
			}
		}

		if entry.LeadsCount > 0 {
			entry.LeadsRejectedPercentage = rejectedPercentage(rejected, entry.LeadsCount)
		}

		stats[member.DisplayName()] = entry
	}

	return stats, nil
}

// ParsePeriod parses start_date/end_date query values. When either is
// missing or unparsable the range silently falls back to the last 30 days.
// Both branches yield UTC dates, matching the UTC day buckets.
func (s *Service) ParsePeriod(startValue, endValue string) (start, end time.Time) {
	start, startErr := time.Parse(dateLayout, startValue)
	end, endErr := time.Parse(dateLayout, endValue)
	if startErr != nil || endErr != nil {
		end = truncateToDay(s.now().UTC())
		start = end.AddDate(0, 0, -defaultPeriodDays)
	}
	return start, end
}

// PeriodReport returns one bucket per UTC calendar day in [start, end],
// most recent day first. Days without leads report zero count and price.
func (s *Service) PeriodReport(ctx context.Context, orgID string, start, end time.Time) ([]DayStats, error) {
	start = truncateToDay(start.UTC())
	end = truncateToDay(end.UTC())

	series := make([]DayStats, 0)
	index := make(map[string]int)
	for day := end; !day.Before(start); day = day.AddDate(0, 0, -1) {
		key := day.Format(dateLayout)
		index[key] = len(series)
		series = append(series, DayStats{Date: key})
	}
	if len(series) == 0 {
		return series, nil
	}

	leads, err := s.store.LeadsCreatedBetween(ctx, orgID, start, end.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	for _, lead := range leads {
		key := lead.DateCreated.UTC().Format(dateLayout)
		i, ok := index[key]
		if !ok {
			continue
		}
		series[i].Count++
		series[i].Price += lead.Price
	}

	return series, nil
}

func (s *Service) statusGroups(ctx context.Context) (map[string]models.StatusGroup, error) {
	statuses, err := s.store.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string]models.StatusGroup, len(statuses))
	for _, status := range statuses {
		groups[status.ID] = status.Group
	}
	return groups, nil
}

func leadGroup(lead models.Lead, groups map[string]models.StatusGroup) (models.StatusGroup, bool) {
	if lead.StatusID == nil {
		return "", false
	}
	group, ok := groups[*lead.StatusID]
	return group, ok
}

// rejectedPercentage rounds half away from zero to a whole percentage.
func rejectedPercentage(rejected, count int) float64 {
	return math.Round(float64(rejected) / float64(count) * 100)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
