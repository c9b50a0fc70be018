package documentstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cpm-backend/models"
	documentapimodels "cpm-backend/models/api/document"
	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Document) (id string, err error)
	GetByID(id string) (rec *dbmodels.Document, err error)
	Update(id string, updMap map[string]interface{}) error
	UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (affected int64, err error)
	Delete(id string) error
	List(filter documentapimodels.DocumentFilter) (list []dbmodels.Document, err error)
	ListCount(filter documentapimodels.DocumentFilter) (count int64, err error)
	ListByContainer(containerID string) (list []dbmodels.Document, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Document) (string, error) {
	err := i.db.
		Omit("Container", "UploadedBy", "History").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.Document, error) {
	rec := dbmodels.Document{}
	err := i.db.
		Where("id = ?", id).
		Preload("Container").
		Preload("UploadedBy").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) Update(id string, updMap map[string]interface{}) error {
	return i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
}

// UpdateVersioned applies updMap only when the stored version still
// matches expectedVersion. A zero affected count means a concurrent
// writer got there first.
func (i impl) UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (int64, error) {
	tx := i.db.
		Model(&dbmodels.Document{}).
		Where("id = ?", id).
		Where("version = ?", expectedVersion).
		Updates(updMap)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (i impl) Delete(id string) error {
	return i.db.
		Where("id = ?", id).
		Delete(&dbmodels.Document{}).
		Error
}

func (i impl) List(filter documentapimodels.DocumentFilter) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.applyFilter(filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("Container").
		Preload("UploadedBy")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter documentapimodels.DocumentFilter) (count int64, err error) {
	err = i.applyFilter(filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) ListByContainer(containerID string) (list []dbmodels.Document, err error) {
	list = []dbmodels.Document{}
	err = i.db.
		Where("container_id = ?", containerID).
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) applyFilter(filter documentapimodels.DocumentFilter) *gorm.DB {
	tx := i.db.Model(&dbmodels.Document{})
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if len(filter.MemberProjectIDs) > 0 {
		tx = tx.Where("project_id IN ?", filter.MemberProjectIDs)
	}
	if filter.Status != "" {
		status, _ := models.ParseContainerStatus(filter.Status)
		tx = tx.Where("status = ?", status)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		tx = tx.Where("name ILIKE ? OR original_name ILIKE ?", search, search)
	}
	return tx
}
