package issuestore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.Issue, err error)
	ListOutstanding(projectID string, memberProjectIDs []string) (list []dbmodels.Issue, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.Issue, error) {
	rec := dbmodels.Issue{}
	err := i.db.
		Where("id = ?", id).
		Preload("Project").
		Preload("AssignedTo").
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

// ListOutstanding returns open deadline-bound issues. Closed issues and
// issues without a due date never participate in the overdue report.
func (i impl) ListOutstanding(projectID string, memberProjectIDs []string) (list []dbmodels.Issue, err error) {
	list = []dbmodels.Issue{}
	tx := i.db.
		Where("status NOT IN ?", []models.IssueStatus{models.IssueStatusResolved, models.IssueStatusClosed}).
		Where("due_date IS NOT NULL").
		Preload("Project")
	if projectID != "" {
		tx = tx.Where("project_id = ?", projectID)
	}
	if len(memberProjectIDs) > 0 {
		tx = tx.Where("project_id IN ?", memberProjectIDs)
	}
	err = tx.Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}
