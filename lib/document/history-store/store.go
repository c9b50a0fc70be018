package documenthistorystore

import (
	"gorm.io/gorm"

	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.DocumentHistory) (id string, err error)
	DeleteByDocument(documentID string) error
	List(documentID string) (list []dbmodels.DocumentHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.DocumentHistory) (string, error) {
	err := i.db.
		Omit("Actor").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) DeleteByDocument(documentID string) error {
	return i.db.
		Where("document_id = ?", documentID).
		Delete(&dbmodels.DocumentHistory{}).
		Error
}

func (i impl) List(documentID string) (list []dbmodels.DocumentHistory, err error) {
	list = []dbmodels.DocumentHistory{}
	err = i.db.
		Where("document_id = ?", documentID).
		Order("created_at DESC").
		Preload("Actor").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
