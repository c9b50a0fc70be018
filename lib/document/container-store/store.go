package containerstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.Container, err error)
	GetOrCreate(projectID string, status models.ContainerStatus) (rec *dbmodels.Container, err error)
	ListByProject(projectID string) (list []dbmodels.Container, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.Container, error) {
	rec := dbmodels.Container{}
	err := i.db.
		Where("id = ?", id).
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

// GetOrCreate returns the project's container for the given status,
// creating it on first use. The unique (project_id, status) index keeps
// concurrent first uses from producing duplicates, so a create conflict
// falls back to a re-read.
func (i impl) GetOrCreate(projectID string, status models.ContainerStatus) (*dbmodels.Container, error) {
	rec, err := i.get(projectID, status)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		return rec, nil
	}
	newRec := dbmodels.Container{
		ProjectID: projectID,
		Status:    status,
	}
	err = i.db.Save(&newRec).Error
	if err != nil {
		rec, getErr := i.get(projectID, status)
		if getErr == nil && rec != nil {
			return rec, nil
		}
		return nil, err
	}
	return &newRec, nil
}

func (i impl) ListByProject(projectID string) (list []dbmodels.Container, err error) {
	list = []dbmodels.Container{}
	err = i.db.
		Where("project_id = ?", projectID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) get(projectID string, status models.ContainerStatus) (*dbmodels.Container, error) {
	rec := dbmodels.Container{}
	err := i.db.
		Where("project_id = ?", projectID).
		Where("status = ?", status).
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
