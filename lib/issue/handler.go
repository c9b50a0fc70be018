package issuehandler

import (
	"time"

	log "github.com/sirupsen/logrus"

	"cpm-backend/db"
	issuestore "cpm-backend/lib/issue/store"
	"cpm-backend/lib/permissions"
	projectstore "cpm-backend/lib/project/store"
	"cpm-backend/models"
	issueapimodels "cpm-backend/models/api/issue"
)

type Provider interface {
	Overdue(actorID string, actorRole models.UserRole, filter issueapimodels.OverdueFilter) (stats issueapimodels.OverdueStats, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:        issuestore.NewInstance(db.DB),
		projectStore: projectstore.NewInstance(db.DB),
	}
}

type impl struct {
	store        issuestore.Provider
	projectStore projectstore.Provider
}

func (i impl) Overdue(actorID string, actorRole models.UserRole, filter issueapimodels.OverdueFilter) (issueapimodels.OverdueStats, error) {
	logger := log.
		WithField("user_id", actorID).
		WithField("project_id", filter.ProjectID)
	memberProjectIDs := []string(nil)
	if filter.ProjectID != "" {
		if err := i.checkAccess(actorID, actorRole, filter.ProjectID); err != nil {
			return issueapimodels.OverdueStats{}, err
		}
	} else if !actorRole.IsAdmin() {
		ids, err := i.projectStore.ListMemberProjectIDs(actorID)
		if err != nil {
			return issueapimodels.OverdueStats{}, err
		}
		if len(ids) == 0 {
			return Aggregate(nil, time.Now()), nil
		}
		memberProjectIDs = ids
	}
	issues, err := i.store.ListOutstanding(filter.ProjectID, memberProjectIDs)
	if err != nil {
		logger.WithError(err).Error("outstanding issues query failed")
		return issueapimodels.OverdueStats{}, err
	}
	return Aggregate(issues, time.Now()), nil
}

func (i impl) checkAccess(actorID string, actorRole models.UserRole, projectID string) error {
	actor := permissions.Actor{
		UserID: actorID,
		Role:   actorRole,
	}
	if actorID != "" {
		member, err := i.projectStore.GetMember(projectID, actorID)
		if err != nil {
			return err
		}
		if member != nil {
			actor.IsMember = true
			actor.ProjectRole = member.Role
		}
	}
	return permissions.Check(actor, models.ActionRead)
}
