package dbmodels

import (
	"fmt"
	"strings"

	"cpm-backend/models"
)

type User struct {
	BaseModel
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Email       string `gorm:"type:varchar(255);uniqueIndex"`
	PhoneNumber string `gorm:"type:varchar(15)"`
	IsActive    bool
	Role        models.UserRole `gorm:"type:varchar(50)"`
}

func (r User) GetFullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", r.FirstName, r.LastName))
}
