package models

type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "OPEN"
	IssueStatusInProgress IssueStatus = "IN_PROGRESS"
	IssueStatusResolved   IssueStatus = "RESOLVED"
	IssueStatusClosed     IssueStatus = "CLOSED"
)

// IsClosed reports whether the issue no longer participates in
// deadline tracking. Closed issues are never overdue or warning.
func (s IssueStatus) IsClosed() bool {
	return s == IssueStatusResolved || s == IssueStatusClosed
}

// Urgency is derived at read time from the due date, never stored.
type Urgency string

const (
	UrgencyNormal   Urgency = "normal"
	UrgencyMedium   Urgency = "medium"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)
