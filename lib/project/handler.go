package projecthandler

import (
	"cpm-backend/db"
	projectstore "cpm-backend/lib/project/store"
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	projectapimodels "cpm-backend/models/api/project"
)

type Provider interface {
	List(actorID string, actorRole models.UserRole) (list []projectapimodels.ProjectView, err error)
	GetByID(actorID string, actorRole models.UserRole, id string) (view projectapimodels.ProjectView, err error)
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store: projectstore.NewInstance(db.DB),
	}
}

type impl struct {
	store projectstore.Provider
}

func (i impl) List(actorID string, actorRole models.UserRole) ([]projectapimodels.ProjectView, error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	memberOf := map[string]bool{}
	if !actorRole.IsAdmin() {
		ids, err := i.store.ListMemberProjectIDs(actorID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			memberOf[id] = true
		}
	}
	result := make([]projectapimodels.ProjectView, 0, len(recList))
	for _, rec := range recList {
		if !actorRole.IsAdmin() && !memberOf[rec.ID] {
			continue
		}
		result = append(result, projectapimodels.ProjectConvert(rec))
	}
	return result, nil
}

func (i impl) GetByID(actorID string, actorRole models.UserRole, id string) (projectapimodels.ProjectView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return projectapimodels.ProjectView{}, err
	}
	if rec == nil {
		return projectapimodels.ProjectView{}, apierrors.NotFound("project %v not found", id)
	}
	if !actorRole.IsAdmin() {
		member, err := i.store.GetMember(id, actorID)
		if err != nil {
			return projectapimodels.ProjectView{}, err
		}
		if member == nil {
			return projectapimodels.ProjectView{}, apierrors.Forbidden("no access to project "+id, "project membership is required")
		}
	}
	return projectapimodels.ProjectConvert(*rec), nil
}
