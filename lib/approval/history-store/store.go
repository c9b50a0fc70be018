package approvalhistorystore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	dbmodels "cpm-backend/models/db"
)

// Append-only ledger: records are inserted once and never updated,
// DeleteByApproval exists only for the cascading document delete.
type Provider interface {
	Create(rec dbmodels.ApprovalHistory) (id string, err error)
	DeleteByApproval(approvalID string) error
	List(approvalID string) (list []dbmodels.ApprovalHistory, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.ApprovalHistory) (id string, err error) {
	err = i.db.
		Omit("Actor").
		Save(&rec).
		Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (i impl) DeleteByApproval(approvalID string) error {
	rec := dbmodels.ApprovalHistory{}
	err := i.db.Model(&dbmodels.ApprovalHistory{}).
		Where("approval_id = ?", approvalID).
		Delete(&rec).Error
	if err != nil {
		return err
	}
	return nil
}

func (i impl) List(approvalID string) (list []dbmodels.ApprovalHistory, err error) {
	list = []dbmodels.ApprovalHistory{}
	tx := i.db.
		Where("approval_id = ?", approvalID).
		Order("created_at DESC").
		Preload("Actor")
	err = tx.Find(&list).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}
