package activitylogstore

import (
	"gorm.io/gorm"

	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.ActivityLog) error
	List(objectType, objectID string, limit int) (list []dbmodels.ActivityLog, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ActivityLog) error {
	return i.db.
		Save(&rec).
		Error
}

func (i impl) List(objectType, objectID string, limit int) (list []dbmodels.ActivityLog, err error) {
	list = []dbmodels.ActivityLog{}
	tx := i.db.
		Where("object_type = ?", objectType).
		Where("object_id = ?", objectID).
		Order("created_at DESC")
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
