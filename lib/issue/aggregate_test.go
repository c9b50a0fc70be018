package issuehandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

func testIssue(id, projectID string, priority models.Priority, due time.Time, issueType string) dbmodels.Issue {
	rec := dbmodels.Issue{
		Title:    "issue " + id,
		Type:     issueType,
		Status:   models.IssueStatusOpen,
		Priority: priority,
		DueDate:  &due,
	}
	rec.ID = id
	rec.ProjectID = projectID
	return rec
}

func withProject(rec dbmodels.Issue, name string) dbmodels.Issue {
	rec.Project = &dbmodels.Project{Name: name}
	return rec
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("only overdue and warning issues are included", func(t *testing.T) {
		issues := []dbmodels.Issue{
			testIssue("a", "p1", models.PriorityHigh, now.Add(-24*time.Hour), "safety"),
			testIssue("b", "p1", models.PriorityMedium, now.Add(48*time.Hour), "quality"),
			testIssue("c", "p2", models.PriorityLow, now.Add(240*time.Hour), "quality"),
		}
		stats := Aggregate(issues, now)
		require.Equal(t, 3, stats.Total)
		require.Equal(t, 1, stats.OverdueCount)
		require.Equal(t, 1, stats.WarningCount)
		require.Len(t, stats.Items, 2)
	})

	t.Run("items order by priority weight then due date", func(t *testing.T) {
		issues := []dbmodels.Issue{
			testIssue("late-low", "p1", models.PriorityLow, now.Add(-72*time.Hour), ""),
			testIssue("late-high-b", "p1", models.PriorityHigh, now.Add(-24*time.Hour), ""),
			testIssue("late-high-a", "p1", models.PriorityHigh, now.Add(-48*time.Hour), ""),
			testIssue("soon-medium", "p1", models.PriorityMedium, now.Add(24*time.Hour), ""),
		}
		stats := Aggregate(issues, now)
		require.Len(t, stats.Items, 4)
		require.Equal(t, "late-high-a", stats.Items[0].ID)
		require.Equal(t, "late-high-b", stats.Items[1].ID)
		require.Equal(t, "soon-medium", stats.Items[2].ID)
		require.Equal(t, "late-low", stats.Items[3].ID)
	})

	t.Run("grouped counters cover only included items", func(t *testing.T) {
		issues := []dbmodels.Issue{
			withProject(testIssue("a", "p1", models.PriorityHigh, now.Add(-24*time.Hour), "safety"), "Riverside Tower"),
			withProject(testIssue("b", "p2", models.PriorityHigh, now.Add(24*time.Hour), "safety"), "North Depot"),
			withProject(testIssue("c", "p2", models.PriorityLow, now.Add(500*time.Hour), "paperwork"), "North Depot"),
		}
		stats := Aggregate(issues, now)
		require.Equal(t, map[string]int{"HIGH": 2}, stats.ByPriority)
		require.Equal(t, map[string]int{"safety": 2}, stats.ByType)
		require.Equal(t, map[string]int{"Riverside Tower": 1, "North Depot": 1}, stats.ByProject)
	})

	t.Run("project grouping falls back to the id without a preload", func(t *testing.T) {
		issues := []dbmodels.Issue{
			withProject(testIssue("a", "p1", models.PriorityHigh, now.Add(-24*time.Hour), ""), "Riverside Tower"),
			testIssue("b", "p2", models.PriorityHigh, now.Add(-24*time.Hour), ""),
		}
		stats := Aggregate(issues, now)
		require.Equal(t, map[string]int{"Riverside Tower": 1, "p2": 1}, stats.ByProject)
	})

	t.Run("empty input yields an empty report", func(t *testing.T) {
		stats := Aggregate(nil, now)
		require.Equal(t, 0, stats.Total)
		require.Empty(t, stats.Items)
		require.Empty(t, stats.ByPriority)
	})
}
