package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"crm-backend/internal/models"
)

func TestReportGroupsExcludeRejected(t *testing.T) {
	groups := models.ReportGroups()
	require.Len(t, groups, 4)
	require.NotContains(t, groups, models.GroupRejected)
}

func TestGroupLabels(t *testing.T) {
	require.Equal(t, "New", models.GroupNew.Label())
	require.Equal(t, "In progress", models.GroupInProgress.Label())
	require.Equal(t, "Paid", models.GroupPaid.Label())
	require.Equal(t, "Done", models.GroupDone.Label())
	require.Equal(t, "Rejected", models.GroupRejected.Label())
	require.Equal(t, "weird", models.StatusGroup("weird").Label())
}

func TestUserDisplayName(t *testing.T) {
	user := models.User{FirstName: "Ann", LastName: "Lee", Email: "ann@example.com"}
	require.Equal(t, "Ann Lee (ann@example.com)", user.DisplayName())
}
