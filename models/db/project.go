package dbmodels

import (
	"cpm-backend/models"
)

type Project struct {
	BaseModel
	Name        string `gorm:"type:varchar(255)"`
	Description string
	Members     []ProjectMember `gorm:"foreignKey:ProjectID"`
}

// ProjectMember binds a user to a project with a project level role.
// The permission gate only grants project scoped actions to members.
type ProjectMember struct {
	BaseProjectModel
	UserID string          `gorm:"type:varchar(36);index"`
	User   *User           `gorm:"foreignKey:UserID"`
	Role   models.UserRole `gorm:"type:varchar(50)"`
}
