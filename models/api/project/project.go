package projectapimodels

import (
	"time"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

type ProjectView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description,omitempty"`
	Members     []ProjectMemberView `json:"members,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

type ProjectMemberView struct {
	UserID   string          `json:"user_id"`
	UserName string          `json:"user_name,omitempty"`
	Role     models.UserRole `json:"role"`
}

func ProjectConvert(rec dbmodels.Project) ProjectView {
	view := ProjectView{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt,
	}
	for _, member := range rec.Members {
		memberView := ProjectMemberView{
			UserID: member.UserID,
			Role:   member.Role,
		}
		if member.User != nil {
			memberView.UserName = member.User.GetFullName()
		}
		view.Members = append(view.Members, memberView)
	}
	return view
}
