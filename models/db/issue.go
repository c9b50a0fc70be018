package dbmodels

import (
	"time"

	"cpm-backend/models"
)

// Issue is a deadline-bound work item. Urgency is never stored here,
// it is derived from DueDate at read time.
type Issue struct {
	BaseProjectModel
	Title        string             `gorm:"type:varchar(255)"`
	Description  string
	Type         string             `gorm:"type:varchar(50)"`
	Status       models.IssueStatus `gorm:"type:varchar(20);index"`
	Priority     models.Priority    `gorm:"type:varchar(20)"`
	DueDate      *time.Time         `gorm:"index"`
	AssignedToID string             `gorm:"type:varchar(36)"`
	AssignedTo   *User              `gorm:"foreignKey:AssignedToID"`
	Project      *Project           `gorm:"foreignKey:ProjectID"`
}
