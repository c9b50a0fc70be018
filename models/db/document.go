package dbmodels

import (
	"cpm-backend/models"
)

// Container groups documents of one project under one lifecycle status.
// At most one container exists per (project, status), created lazily on
// first use.
type Container struct {
	BaseModel
	ProjectID string                 `gorm:"type:varchar(36);index:idx_container_project_status,unique"`
	Status    models.ContainerStatus `gorm:"type:varchar(30);index:idx_container_project_status,unique"`
	Project   *Project               `gorm:"foreignKey:ProjectID"`
}

type Document struct {
	BaseProjectModel
	Name         string                 `gorm:"type:varchar(255)"`
	OriginalName string                 `gorm:"type:varchar(255)"`
	Status       models.ContainerStatus `gorm:"type:varchar(30);index"`
	Version      int
	RevisionCode string     `gorm:"type:varchar(50)"`
	Metadata     Metadata   `gorm:"type:jsonb"`
	ContainerID  string     `gorm:"type:varchar(36);index"`
	Container    *Container `gorm:"foreignKey:ContainerID"`
	FileID       string     `gorm:"type:varchar(36)"`
	UploadedByID string     `gorm:"type:varchar(36)"`
	UploadedBy   *User      `gorm:"foreignKey:UploadedByID"`
	History      []DocumentHistory `gorm:"foreignKey:DocumentID"`
}

// DocumentHistory is append-only: one row per version upload or
// container move, capturing the file reference and status at that time.
type DocumentHistory struct {
	BaseProjectModel
	DocumentID string                 `gorm:"type:varchar(36);index"`
	Action     models.DocumentAction  `gorm:"type:varchar(30)"`
	Status     models.ContainerStatus `gorm:"type:varchar(30)"`
	Version    int
	FileID     string `gorm:"type:varchar(36)"`
	ActorID    string `gorm:"type:varchar(36)"`
	Actor      *User  `gorm:"foreignKey:ActorID"`
	Comment    string
}
