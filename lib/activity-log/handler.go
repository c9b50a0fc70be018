package activitylog

import (
	log "github.com/sirupsen/logrus"

	"cpm-backend/db"
	activitylogstore "cpm-backend/lib/activity-log/store"
	dbmodels "cpm-backend/models/db"
)

// Provider records who did what to which object. Recording is best
// effort: a failed write is logged and never fails the caller's
// operation.
type Provider interface {
	Record(projectID, actorID, action, objectType, objectID, description string)
	List(objectType, objectID string, limit int) (list []dbmodels.ActivityLog, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: activitylogstore.NewInstance(db.DB),
	}
}

type impl struct {
	store activitylogstore.Provider
}

func (i impl) Record(projectID, actorID, action, objectType, objectID, description string) {
	rec := dbmodels.ActivityLog{
		BaseProjectModel: dbmodels.BaseProjectModel{
			ProjectID: projectID,
		},
		ActorID:     actorID,
		Action:      action,
		ObjectType:  objectType,
		ObjectID:    objectID,
		Description: description,
	}
	if err := i.store.Create(rec); err != nil {
		log.
			WithField("object_type", objectType).
			WithField("object_id", objectID).
			WithError(err).
			Error("activity log write failed")
	}
}

func (i impl) List(objectType, objectID string, limit int) ([]dbmodels.ActivityLog, error) {
	return i.store.List(objectType, objectID, limit)
}
