package issuehandler

import (
	"sort"
	"time"

	"cpm-backend/lib/urgency"
	issueapimodels "cpm-backend/models/api/issue"
	dbmodels "cpm-backend/models/db"
)

// Aggregate classifies every outstanding issue against now and builds
// the overdue report. Items holds only overdue and warning issues,
// ordered by priority weight descending, then due date ascending. The
// grouped counters are computed over the included items.
func Aggregate(issues []dbmodels.Issue, now time.Time) issueapimodels.OverdueStats {
	stats := issueapimodels.OverdueStats{
		Total:      len(issues),
		ByPriority: map[string]int{},
		ByType:     map[string]int{},
		ByProject:  map[string]int{},
		Items:      []issueapimodels.IssueUrgencyView{},
	}
	for _, rec := range issues {
		result := urgency.Classify(rec.DueDate, now, rec.Status)
		if !result.IsOverdue && !result.IsWarning {
			continue
		}
		view := issueapimodels.IssueUrgencyConvert(rec)
		view.Urgency = result.Urgency
		view.DaysUntilDue = result.DaysUntilDue
		view.IsOverdue = result.IsOverdue
		view.IsWarning = result.IsWarning
		if result.IsOverdue {
			stats.OverdueCount++
		} else {
			stats.WarningCount++
		}
		stats.ByPriority[string(rec.Priority)]++
		if rec.Type != "" {
			stats.ByType[rec.Type]++
		}
		stats.ByProject[projectKey(rec)]++
		stats.Items = append(stats.Items, view)
	}
	sort.SliceStable(stats.Items, func(a, b int) bool {
		left, right := stats.Items[a], stats.Items[b]
		if left.Priority.Weight() != right.Priority.Weight() {
			return left.Priority.Weight() > right.Priority.Weight()
		}
		if left.DueDate == nil || right.DueDate == nil {
			return right.DueDate == nil && left.DueDate != nil
		}
		return left.DueDate.Before(*right.DueDate)
	})
	return stats
}

// projectKey groups by project name; the id only stands in when the
// project was not preloaded.
func projectKey(rec dbmodels.Issue) string {
	if rec.Project != nil && rec.Project.Name != "" {
		return rec.Project.Name
	}
	return rec.ProjectID
}
