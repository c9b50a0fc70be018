package approvalstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	approvalapimodels "cpm-backend/models/api/approval"
	dbmodels "cpm-backend/models/db"

	"cpm-backend/models"
)

type Provider interface {
	Create(rec dbmodels.ApprovalDocument) (id string, err error)
	GetByID(id string) (rec *dbmodels.ApprovalDocument, err error)
	Update(id string, updMap map[string]interface{}) error
	// UpdateVersioned applies updMap only when the stored
	// current_version still equals expectedVersion; returns the number
	// of affected rows so the caller can detect a lost race.
	UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (affected int64, err error)
	Delete(id string) error
	List(filter approvalapimodels.ApprovalFilter) (list []dbmodels.ApprovalDocument, err error)
	ListCount(filter approvalapimodels.ApprovalFilter) (count int64, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalDocument) (id string, err error) {
	err = i.db.
		Omit("AssignedTo", "Project", "History", "Comments").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(id string) (*dbmodels.ApprovalDocument, error) {
	rec := dbmodels.ApprovalDocument{}
	err := i.db.
		Where("id = ?", id).
		Preload("AssignedTo").
		Preload("Project").
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
	if len(updMap) == 0 {
		return nil
	}
	err := i.db.
		Model(&dbmodels.ApprovalDocument{}).
		Where("id = ?", id).
		Updates(updMap).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (int64, error) {
	if len(updMap) == 0 {
		return 0, nil
	}
	tx := i.db.
		Model(&dbmodels.ApprovalDocument{}).
		Where("id = ?", id).
		Where("current_version = ?", expectedVersion).
		Updates(updMap)
	if tx.Error != nil {
		return 0, tx.Error
	}
	return tx.RowsAffected, nil
}

func (i impl) Delete(id string) error {
	rec := dbmodels.ApprovalDocument{
		BaseProjectModel: dbmodels.BaseProjectModel{
			BaseModel: dbmodels.BaseModel{ID: id},
		},
	}
	err := i.db.
		Delete(&rec).
		Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(filter approvalapimodels.ApprovalFilter) (list []dbmodels.ApprovalDocument, err error) {
	list = []dbmodels.ApprovalDocument{}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	tx := i.applyFilter(filter).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Preload("AssignedTo").
		Preload("Project")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(filter approvalapimodels.ApprovalFilter) (count int64, err error) {
	err = i.applyFilter(filter).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (i impl) applyFilter(filter approvalapimodels.ApprovalFilter) *gorm.DB {
	tx := i.db.Model(&dbmodels.ApprovalDocument{})
	if filter.ProjectID != "" {
		tx = tx.Where("project_id = ?", filter.ProjectID)
	}
	if len(filter.MemberProjectIDs) > 0 {
		tx = tx.Where("project_id IN ?", filter.MemberProjectIDs)
	}
	if filter.Status != "" {
		status, _ := models.ParseApprovalStatus(filter.Status)
		tx = tx.Where("status = ?", status)
	}
	if filter.Stage != "" {
		stage, _ := models.ParseApprovalStage(filter.Stage)
		tx = tx.Where("stage = ?", stage)
	}
	if filter.AssignedToID != "" {
		tx = tx.Where("assigned_to_id = ?", filter.AssignedToID)
	}
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		tx = tx.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}
	return tx
}
