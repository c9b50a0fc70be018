package projectstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

type Provider interface {
	GetByID(id string) (rec *dbmodels.Project, err error)
	List() (list []dbmodels.Project, err error)
	GetMember(projectID, userID string) (rec *dbmodels.ProjectMember, err error)
	ListMemberProjectIDs(userID string) (ids []string, err error)
	ManagerEmails(projectID string) (emails []string, err error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) GetByID(id string) (*dbmodels.Project, error) {
	rec := dbmodels.Project{}
	err := i.db.
		Where("id = ?", id).
		Preload("Members").
		Preload("Members.User").
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

func (i impl) List() (list []dbmodels.Project, err error) {
	list = []dbmodels.Project{}
	err = i.db.
		Order("name ASC").
		Find(&list).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return list, nil
}

func (i impl) GetMember(projectID, userID string) (*dbmodels.ProjectMember, error) {
	rec := dbmodels.ProjectMember{}
	err := i.db.
		Where("project_id = ?", projectID).
		Where("user_id = ?", userID).
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

func (i impl) ListMemberProjectIDs(userID string) (ids []string, err error) {
	ids = []string{}
	err = i.db.
		Model(&dbmodels.ProjectMember{}).
		Where("user_id = ?", userID).
		Pluck("project_id", &ids).
		Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (i impl) ManagerEmails(projectID string) (emails []string, err error) {
	list := []dbmodels.ProjectMember{}
	err = i.db.
		Where("project_id = ?", projectID).
		Where("role IN ?", []models.UserRole{models.ProjectManagerRole, models.BimManagerRole}).
		Preload("User").
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	emails = make([]string, 0, len(list))
	for _, member := range list {
		if member.User != nil && member.User.Email != "" {
			emails = append(emails, member.User.Email)
		}
	}
	return emails, nil
}
