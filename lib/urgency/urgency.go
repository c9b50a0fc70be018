package urgency

import (
	"math"
	"time"

	"cpm-backend/models"
)

const warningWindowDays = 3

// Result is the derived temporal classification of a deadline-bound item.
// It is computed at read time and never persisted.
type Result struct {
	Urgency      models.Urgency
	DaysUntilDue *int
	IsOverdue    bool
	IsWarning    bool
}

// Classify derives the urgency of an item from its due date.
//
// Boundary convention: the overdue bound is strict, only a dueDate
// before now is overdue, and warning uses an exclusive lower bound
// (daysUntilDue > 0). An item due exactly at now is neither; it becomes
// overdue the moment now passes it. Overdue always dominates warning.
func Classify(dueDate *time.Time, now time.Time, status models.IssueStatus) Result {
	if status.IsClosed() {
		return Result{Urgency: models.UrgencyNormal}
	}
	if dueDate == nil {
		return Result{Urgency: models.UrgencyNormal}
	}
	days := daysUntil(*dueDate, now)
	result := Result{DaysUntilDue: &days}
	switch {
	case dueDate.Before(now):
		result.IsOverdue = true
		result.Urgency = models.UrgencyCritical
	case days > 0 && days <= warningWindowDays:
		result.IsWarning = true
		result.Urgency = models.UrgencyHigh
	case days <= 7:
		result.Urgency = models.UrgencyMedium
	default:
		result.Urgency = models.UrgencyNormal
	}
	return result
}

// daysUntil is ceil((dueDate - now) / 24h); negative when the deadline
// has passed.
func daysUntil(dueDate, now time.Time) int {
	return int(math.Ceil(dueDate.Sub(now).Hours() / 24))
}
