package dbmodels

import (
	"time"

	"cpm-backend/models"
)

type ApprovalDocument struct {
	BaseProjectModel
	Title           string `gorm:"type:varchar(255)"`
	Description     string
	Category        string                `gorm:"type:varchar(100)"`
	Priority        models.Priority       `gorm:"type:varchar(20)"`
	Status          models.ApprovalStatus `gorm:"type:varchar(20);index"`
	Stage           models.ApprovalStage  `gorm:"type:varchar(20);index"`
	CurrentVersion  int
	SendDate        time.Time
	SignDate        *time.Time
	RejectionReason string
	AssignedToID    string            `gorm:"type:varchar(36);index"`
	AssignedTo      *User             `gorm:"foreignKey:AssignedToID"`
	Project         *Project          `gorm:"foreignKey:ProjectID"`
	History         []ApprovalHistory `gorm:"foreignKey:ApprovalID"`
	Comments        []ApprovalComment `gorm:"foreignKey:ApprovalID"`
}

// ApprovalHistory is append-only: rows are written once per transition
// and never updated, deletion happens only as part of document deletion.
type ApprovalHistory struct {
	BaseProjectModel
	ApprovalID  string                `gorm:"type:varchar(36);index"`
	Action      models.ApprovalAction `gorm:"type:varchar(20)"`
	FromStage   models.ApprovalStage  `gorm:"type:varchar(20)"`
	ToStage     models.ApprovalStage  `gorm:"type:varchar(20)"`
	FromVersion int
	ToVersion   int
	ActorID     string `gorm:"type:varchar(36)"`
	Actor       *User  `gorm:"foreignKey:ActorID"`
	Comment     string
}

type ApprovalComment struct {
	BaseProjectModel
	ApprovalID string `gorm:"type:varchar(36);index"`
	AuthorID   string `gorm:"type:varchar(36)"`
	Author     *User  `gorm:"foreignKey:AuthorID"`
	Body       string
}
