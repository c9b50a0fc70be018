package dbmodels

type ActivityLog struct {
	BaseProjectModel
	ActorID     string `gorm:"type:varchar(36);index"`
	Action      string `gorm:"type:varchar(50)"`
	ObjectType  string `gorm:"type:varchar(50)"`
	ObjectID    string `gorm:"type:varchar(36);index"`
	Description string
	Notify      bool
}
