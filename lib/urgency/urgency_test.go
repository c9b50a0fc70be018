package urgency

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
)

func TestClassify(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	due := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}

	t.Run(`one second past due is overdue/critical`, func(t *testing.T) {
		result := Classify(due(-time.Second), now, models.IssueStatusOpen)
		require.Equal(t, true, result.IsOverdue)
		require.Equal(t, false, result.IsWarning)
		require.Equal(t, models.UrgencyCritical, result.Urgency)
	})

	t.Run(`one second ahead is warning/high`, func(t *testing.T) {
		result := Classify(due(time.Second), now, models.IssueStatusOpen)
		require.Equal(t, false, result.IsOverdue)
		require.Equal(t, true, result.IsWarning)
		require.Equal(t, models.UrgencyHigh, result.Urgency)
		require.NotNil(t, result.DaysUntilDue)
		require.Equal(t, 1, *result.DaysUntilDue)
	})

	t.Run(`three days ahead is still warning`, func(t *testing.T) {
		result := Classify(due(72*time.Hour), now, models.IssueStatusOpen)
		require.Equal(t, true, result.IsWarning)
		require.Equal(t, models.UrgencyHigh, result.Urgency)
	})

	t.Run(`four days ahead is medium, outside the warning window`, func(t *testing.T) {
		result := Classify(due(4*24*time.Hour), now, models.IssueStatusOpen)
		require.Equal(t, false, result.IsWarning)
		require.Equal(t, false, result.IsOverdue)
		require.Equal(t, models.UrgencyMedium, result.Urgency)
	})

	t.Run(`seven days ahead is medium, eight is normal`, func(t *testing.T) {
		result := Classify(due(7*24*time.Hour), now, models.IssueStatusOpen)
		require.Equal(t, models.UrgencyMedium, result.Urgency)

		result = Classify(due(8*24*time.Hour), now, models.IssueStatusOpen)
		require.Equal(t, models.UrgencyNormal, result.Urgency)
	})

	t.Run(`due exactly now is neither overdue nor warning`, func(t *testing.T) {
		result := Classify(due(0), now, models.IssueStatusOpen)
		require.Equal(t, false, result.IsOverdue)
		require.Equal(t, false, result.IsWarning)
		require.Equal(t, 0, *result.DaysUntilDue)
	})

	t.Run(`closed status never classifies`, func(t *testing.T) {
		for _, status := range []models.IssueStatus{models.IssueStatusResolved, models.IssueStatusClosed} {
			result := Classify(due(-time.Hour), now, status)
			require.Equal(t, false, result.IsOverdue)
			require.Equal(t, false, result.IsWarning)
			require.Equal(t, models.UrgencyNormal, result.Urgency)
			require.Nil(t, result.DaysUntilDue)
		}
	})

	t.Run(`missing due date is normal`, func(t *testing.T) {
		result := Classify(nil, now, models.IssueStatusOpen)
		require.Equal(t, models.UrgencyNormal, result.Urgency)
		require.Nil(t, result.DaysUntilDue)
	})

	t.Run(`days until due is negative for passed deadlines`, func(t *testing.T) {
		result := Classify(due(-49*time.Hour), now, models.IssueStatusInProgress)
		require.NotNil(t, result.DaysUntilDue)
		require.Equal(t, -2, *result.DaysUntilDue)
	})
}
