package issueapimodels

import (
	"time"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

type OverdueFilter struct {
	ProjectID string `json:"project_id"` // optional, empty means all projects
}

func (v OverdueFilter) Validate() error {
	return nil
}

type IssueUrgencyView struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Type         string             `json:"type,omitempty"`
	Status       models.IssueStatus `json:"status"`
	Priority     models.Priority    `json:"priority"`
	DueDate      *time.Time         `json:"due_date,omitempty"`
	ProjectID    string             `json:"project_id"`
	ProjectName  string             `json:"project_name,omitempty"`
	Urgency      models.Urgency     `json:"urgency"`
	DaysUntilDue *int               `json:"days_until_due,omitempty"`
	IsOverdue    bool               `json:"is_overdue"`
	IsWarning    bool               `json:"is_warning"`
}

func IssueUrgencyConvert(rec dbmodels.Issue) IssueUrgencyView {
	view := IssueUrgencyView{
		ID:        rec.ID,
		Title:     rec.Title,
		Type:      rec.Type,
		Status:    rec.Status,
		Priority:  rec.Priority,
		DueDate:   rec.DueDate,
		ProjectID: rec.ProjectID,
	}
	if rec.Project != nil {
		view.ProjectName = rec.Project.Name
	}
	return view
}

// OverdueStats is the grouped report over outstanding deadline-bound
// issues: only overdue and warning items appear in Items.
type OverdueStats struct {
	Total        int                `json:"total"`
	OverdueCount int                `json:"overdue_count"`
	WarningCount int                `json:"warning_count"`
	ByPriority   map[string]int     `json:"by_priority"`
	ByType       map[string]int     `json:"by_type"`
	ByProject    map[string]int     `json:"by_project"`
	Items        []IssueUrgencyView `json:"items"`
}
