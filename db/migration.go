package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "cpm-backend/models/db"
)

func AutoMigrateDB() error {
	DB.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")
	log.Info("running migrations")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "migration failed for User")
	}
	if err := DB.AutoMigrate(&dbmodels.Project{}); err != nil {
		return errors.Wrap(err, "migration failed for Project")
	}
	if err := DB.AutoMigrate(&dbmodels.ProjectMember{}); err != nil {
		return errors.Wrap(err, "migration failed for ProjectMember")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalDocument{}); err != nil {
		return errors.Wrap(err, "migration failed for ApprovalDocument")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalHistory{}); err != nil {
		return errors.Wrap(err, "migration failed for ApprovalHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.ApprovalComment{}); err != nil {
		return errors.Wrap(err, "migration failed for ApprovalComment")
	}
	if err := DB.AutoMigrate(&dbmodels.Container{}); err != nil {
		return errors.Wrap(err, "migration failed for Container")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "migration failed for Document")
	}
	if err := DB.AutoMigrate(&dbmodels.DocumentHistory{}); err != nil {
		return errors.Wrap(err, "migration failed for DocumentHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.Issue{}); err != nil {
		return errors.Wrap(err, "migration failed for Issue")
	}
	if err := DB.AutoMigrate(&dbmodels.FileStorage{}); err != nil {
		return errors.Wrap(err, "migration failed for FileStorage")
	}
	if err := DB.AutoMigrate(&dbmodels.ActivityLog{}); err != nil {
		return errors.Wrap(err, "migration failed for ActivityLog")
	}
	log.Info("migrations finished")
	return nil
}
