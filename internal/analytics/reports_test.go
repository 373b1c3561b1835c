package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"crm-backend/internal/analytics"
	"crm-backend/internal/models"
)

var testNow = time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)

type mockStore struct {
	leads    []models.Lead
	statuses []models.Status
	members  []models.User
}

func (m *mockStore) LeadsByOrganization(_ context.Context, orgID string) ([]models.Lead, error) {
	out := make([]models.Lead, 0)
	for _, lead := range m.leads {
		if lead.OrgID == orgID {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (m *mockStore) LeadsCreatedBetween(_ context.Context, orgID string, start, end time.Time) ([]models.Lead, error) {
	out := make([]models.Lead, 0)
	for _, lead := range m.leads {
		if lead.OrgID != orgID {
			continue
		}
		if lead.DateCreated.Before(start) || !lead.DateCreated.Before(end) {
			continue
		}
		out = append(out, lead)
	}
	return out, nil
}

func (m *mockStore) ListStatuses(context.Context) ([]models.Status, error) {
	return m.statuses, nil
}

func (m *mockStore) OrganizationMembers(_ context.Context, _ string) ([]models.User, error) {
	return m.members, nil
}

func testStatuses() []models.Status {
	return []models.Status{
		{ID: "st-new", Name: "New", Group: models.GroupNew},
		{ID: "st-progress", Name: "In progress", Group: models.GroupInProgress},
		{ID: "st-paid", Name: "Paid", Group: models.GroupPaid},
		{ID: "st-done", Name: "Done", Group: models.GroupDone},
		{ID: "st-rejected", Name: "Rejected", Group: models.GroupRejected},
	}
}

func lead(orgID string, price int, statusID, managerID string, created time.Time) models.Lead {
	l := models.Lead{OrgID: orgID, Price: price, DateCreated: created}
	if statusID != "" {
		l.StatusID = &statusID
	}
	if managerID != "" {
		l.ManagerID = &managerID
	}
	return l
}

func newService(store *mockStore) *analytics.Service {
	return analytics.NewServiceWithClock(store, func() time.Time { return testNow })
}

func TestGeneralReport(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}
	today := testNow.Add(-2 * time.Hour)
	earlierThisMonth := time.Date(2026, time.August, 3, 9, 0, 0, 0, time.UTC)
	lastMonth := time.Date(2026, time.July, 20, 9, 0, 0, 0, time.UTC)

	store.leads = []models.Lead{
		lead("acme", 100, "st-done", "", today),
		lead("acme", 200, "st-done", "", today),
		lead("acme", 300, "st-done", "", today),
		lead("acme", 40, "st-new", "", earlierThisMonth),
		lead("acme", 25, "st-rejected", "", earlierThisMonth),
		lead("acme", 999, "st-paid", "", lastMonth),
		lead("other", 777, "st-done", "", today),
	}

	report, err := newService(store).GeneralReport(context.Background(), "acme")
	require.NoError(t, err)

	require.Equal(t, 3, report.LeadsCreatedTodayCount)
	require.Equal(t, 5, report.LeadsCreatedThisMonthCount)
	require.Equal(t, 665, report.LeadsCreatedThisMonthPrice)
	require.Equal(t, 600, report.LeadsCreatedThisMonthAndDonePrice)

	require.Len(t, report.LeadsByStatuses, 4)
	require.Len(t, report.LeadsByStatuses["Done"], 3)
	require.Len(t, report.LeadsByStatuses["New"], 1)
	require.Len(t, report.LeadsByStatuses["Paid"], 1)
	require.Empty(t, report.LeadsByStatuses["In progress"])
	require.NotContains(t, report.LeadsByStatuses, "Rejected")
}

func TestGeneralReportEachLeadInAtMostOneBucket(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}
	store.leads = []models.Lead{
		lead("acme", 10, "st-new", "", testNow),
		lead("acme", 20, "st-progress", "", testNow),
		lead("acme", 30, "st-rejected", "", testNow),
		lead("acme", 40, "", "", testNow),
	}

	report, err := newService(store).GeneralReport(context.Background(), "acme")
	require.NoError(t, err)

	bucketed := 0
	for _, leads := range report.LeadsByStatuses {
		bucketed += len(leads)
	}
	// The rejected lead and the status-less lead land in no bucket.
	require.Equal(t, 2, bucketed)
}

func TestGeneralReportEmptyOrganization(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}

	report, err := newService(store).GeneralReport(context.Background(), "acme")
	require.NoError(t, err)

	require.Zero(t, report.LeadsCreatedTodayCount)
	require.Zero(t, report.LeadsCreatedThisMonthCount)
	require.Zero(t, report.LeadsCreatedThisMonthPrice)
	require.Zero(t, report.LeadsCreatedThisMonthAndDonePrice)
	require.Len(t, report.LeadsByStatuses, 4)
	for _, leads := range report.LeadsByStatuses {
		require.Empty(t, leads)
	}
}

func TestManagerReport(t *testing.T) {
	manager := models.User{ID: "u-1", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}
	idle := models.User{ID: "u-2", Email: "bob@example.com", FirstName: "Bob", LastName: "Ray"}
	store := &mockStore{
		statuses: testStatuses(),
		members:  []models.User{manager, idle},
	}

	for i := 0; i < 3; i++ {
		store.leads = append(store.leads, lead("acme", 100, "st-rejected", "u-1", testNow))
	}
	for i := 0; i < 2; i++ {
		store.leads = append(store.leads, lead("acme", 500, "st-done", "u-1", testNow))
	}
	for i := 0; i < 5; i++ {
		store.leads = append(store.leads, lead("acme", 50, "st-new", "u-1", testNow))
	}
	store.leads = append(store.leads, lead("acme", 1000, "st-done", "", testNow))

	stats, err := newService(store).ManagerReport(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	ann := stats["Ann Lee (ann@example.com)"]
	require.Equal(t, "Ann Lee (ann@example.com)", ann.Name)
	require.Equal(t, 10, ann.LeadsCount)
	require.Equal(t, 1000, ann.SalesSum)
	require.Equal(t, float64(30), ann.LeadsRejectedPercentage)

	bob := stats["Bob Ray (bob@example.com)"]
	require.Zero(t, bob.LeadsCount)
	require.Zero(t, bob.SalesSum)
	require.Zero(t, bob.LeadsRejectedPercentage)
}

func TestManagerReportRounding(t *testing.T) {
	manager := models.User{ID: "u-1", Email: "ann@example.com", FirstName: "Ann", LastName: "Lee"}
	store := &mockStore{statuses: testStatuses(), members: []models.User{manager}}

	store.leads = append(store.leads, lead("acme", 0, "st-rejected", "u-1", testNow))
	store.leads = append(store.leads, lead("acme", 0, "st-new", "u-1", testNow))
	store.leads = append(store.leads, lead("acme", 0, "st-new", "u-1", testNow))

	stats, err := newService(store).ManagerReport(context.Background(), "acme")
	require.NoError(t, err)
	require.Equal(t, float64(33), stats[manager.DisplayName()].LeadsRejectedPercentage)
}

func TestPeriodReport(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}
	day := func(d int, price int) models.Lead {
		return lead("acme", price, "", "", time.Date(2026, time.August, d, 10, 0, 0, 0, time.UTC))
	}
	store.leads = []models.Lead{
		day(1, 100),
		day(3, 100),
		day(3, 200),
		day(5, 50),
		day(10, 999), // outside the range
	}

	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)

	series, err := newService(store).PeriodReport(context.Background(), "acme", start, end)
	require.NoError(t, err)
	require.Len(t, series, 5)

	// Most recent day first.
	require.Equal(t, "2026-08-05", series[0].Date)
	require.Equal(t, "2026-08-01", series[4].Date)

	require.Equal(t, 1, series[0].Count)
	require.Equal(t, 50, series[0].Price)

	require.Equal(t, 2, series[2].Count)
	require.Equal(t, 300, series[2].Price)

	require.Zero(t, series[1].Count)
	require.Zero(t, series[1].Price)

	total := 0
	for _, bucket := range series {
		total += bucket.Count
	}
	require.Equal(t, 4, total)
}

func TestPeriodReportInvertedRange(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}

	start := time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	series, err := newService(store).PeriodReport(context.Background(), "acme", start, end)
	require.NoError(t, err)
	require.Empty(t, series)
}

func TestParsePeriod(t *testing.T) {
	svc := newService(&mockStore{})

	start, end := svc.ParsePeriod("2026-08-01", "2026-08-05")
	require.Equal(t, "2026-08-01", start.Format("2006-01-02"))
	require.Equal(t, "2026-08-05", end.Format("2006-01-02"))
}

func TestParsePeriodFallsBackToLast30Days(t *testing.T) {
	svc := newService(&mockStore{})

	for _, tc := range [][2]string{
		{"", ""},
		{"2026-08-01", ""},
		{"not-a-date", "2026-08-05"},
	} {
		start, end := svc.ParsePeriod(tc[0], tc[1])
		require.Equal(t, "2026-08-28", end.Format("2006-01-02"))
		require.Equal(t, "2026-07-29", start.Format("2006-01-02"))
	}
}

func TestParsePeriodFallbackNormalizesToUTC(t *testing.T) {
	west := time.FixedZone("west", -5*3600)
	clock := func() time.Time {
		// 22:00 local is already past midnight UTC.
		return time.Date(2026, time.August, 28, 22, 0, 0, 0, west)
	}
	svc := analytics.NewServiceWithClock(&mockStore{}, clock)

	start, end := svc.ParsePeriod("", "")
	require.Equal(t, time.UTC, end.Location())
	require.Equal(t, "2026-08-29", end.Format("2006-01-02"))
	require.Equal(t, "2026-07-30", start.Format("2006-01-02"))
}

func TestPeriodReportBucketsByUTCDay(t *testing.T) {
	west := time.FixedZone("west", -5*3600)
	store := &mockStore{statuses: testStatuses()}
	store.leads = []models.Lead{
		// 23:30 local on the 5th is 04:30 UTC on the 6th.
		lead("acme", 10, "", "", time.Date(2026, time.August, 5, 23, 30, 0, 0, west)),
	}

	start := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.August, 7, 0, 0, 0, 0, time.UTC)

	series, err := newService(store).PeriodReport(context.Background(), "acme", start, end)
	require.NoError(t, err)
	require.Len(t, series, 7)

	require.Equal(t, "2026-08-06", series[1].Date)
	require.Equal(t, 1, series[1].Count)
	require.Equal(t, 10, series[1].Price)
	require.Zero(t, series[2].Count)
}

func TestPeriodReportDefaultRangeLength(t *testing.T) {
	store := &mockStore{statuses: testStatuses()}
	svc := newService(store)

	start, end := svc.ParsePeriod("", "")
	series, err := svc.PeriodReport(context.Background(), "acme", start, end)
	require.NoError(t, err)
	require.Len(t, series, 31)
}
