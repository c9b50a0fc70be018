package documenthandler

import (
	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

// moveDecision captures the state change of a container move or a new
// version upload before it is applied.
type moveDecision struct {
	Status       models.ContainerStatus
	Version      int
	RevisionCode string
	UpdMap       map[string]interface{}
	History      dbmodels.DocumentHistory
}

// computeMove derives the outcome of moving a document into a target
// container. The status becomes the container's status and the version
// is untouched, a move is a relocation, not a revision.
func computeMove(rec dbmodels.Document, container dbmodels.Container, revisionCode, comment, actorID string) moveDecision {
	decision := moveDecision{
		Status:       container.Status,
		Version:      rec.Version,
		RevisionCode: revisionCode,
		UpdMap: map[string]interface{}{
			"container_id": container.ID,
			"status":       container.Status,
		},
		History: dbmodels.DocumentHistory{
			BaseProjectModel: dbmodels.BaseProjectModel{
				ProjectID: rec.ProjectID,
			},
			DocumentID: rec.ID,
			Action:     models.DocumentActionContainerMove,
			Status:     container.Status,
			Version:    rec.Version,
			FileID:     rec.FileID,
			ActorID:    actorID,
			Comment:    comment,
		},
	}
	if revisionCode != "" {
		decision.UpdMap["revision_code"] = revisionCode
	}
	return decision
}

// computeNewVersion derives the outcome of attaching a new file: the
// version always increments, status and container stay put.
func computeNewVersion(rec dbmodels.Document, fileID, revisionCode, comment, actorID string) moveDecision {
	version := rec.Version + 1
	decision := moveDecision{
		Status:       rec.Status,
		Version:      version,
		RevisionCode: revisionCode,
		UpdMap: map[string]interface{}{
			"version": version,
			"file_id": fileID,
		},
		History: dbmodels.DocumentHistory{
			BaseProjectModel: dbmodels.BaseProjectModel{
				ProjectID: rec.ProjectID,
			},
			DocumentID: rec.ID,
			Action:     models.DocumentActionVersionAdded,
			Status:     rec.Status,
			Version:    version,
			FileID:     fileID,
			ActorID:    actorID,
			Comment:    comment,
		},
	}
	if revisionCode != "" {
		decision.UpdMap["revision_code"] = revisionCode
	}
	return decision
}
