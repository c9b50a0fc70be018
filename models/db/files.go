package dbmodels

type FileStorage struct {
	BaseProjectModel
	Name        string `gorm:"type:varchar(255)"`
	DocumentID  string `gorm:"type:varchar(36);index"`
	ContentType string `gorm:"type:varchar(100)"`
	Size        int64
	// Local marks a file kept on local disk because the object-storage
	// upload failed; the share link is resolved lazily on next access.
	Local     bool
	ShareLink string
}
