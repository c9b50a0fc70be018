package approvalhandler

import (
	"time"

	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

// transitionDecision is the full outcome of one status/stage change:
// the new workflow state, the column updates to apply and the history
// row to append, computed before anything touches the database.
type transitionDecision struct {
	Status          models.ApprovalStatus
	Stage           models.ApprovalStage
	Version         int
	SignDate        *time.Time
	RejectionReason string
	UpdMap          map[string]interface{}
	History         dbmodels.ApprovalHistory
}

// computeTransition validates a requested transition against the stage
// graph and derives the resulting record state.
//
// The version bumps when the transition rejects or moves to a different
// stage; approving in place keeps the version. The sign date is set the
// first time the document is approved at the terminal stage. The
// rejection reason is kept only while the resulting status is REJECTED.
func computeTransition(rec dbmodels.ApprovalDocument, status models.ApprovalStatus, stage models.ApprovalStage, comment, rejectionReason, actorID string, now time.Time) (transitionDecision, error) {
	if !rec.Stage.IsAllowChange(stage, status) {
		return transitionDecision{}, apierrors.Validation("stage change %v -> %v is not allowed with status %v", rec.Stage, stage, status)
	}

	version := rec.CurrentVersion
	if status == models.ApprovalStatusRejected || stage != rec.Stage {
		version++
	}

	action := statusAction(status)
	if comment == "" {
		comment = action.DefaultComment()
	}

	decision := transitionDecision{
		Status:  status,
		Stage:   stage,
		Version: version,
		UpdMap: map[string]interface{}{
			"status":           status,
			"stage":            stage,
			"current_version":  version,
			"rejection_reason": "",
		},
		History: dbmodels.ApprovalHistory{
			BaseProjectModel: dbmodels.BaseProjectModel{
				ProjectID: rec.ProjectID,
			},
			ApprovalID:  rec.ID,
			Action:      action,
			FromStage:   rec.Stage,
			ToStage:     stage,
			FromVersion: rec.CurrentVersion,
			ToVersion:   version,
			ActorID:     actorID,
			Comment:     comment,
		},
	}

	if status == models.ApprovalStatusRejected {
		decision.RejectionReason = rejectionReason
		decision.UpdMap["rejection_reason"] = rejectionReason
	}
	if status == models.ApprovalStatusApproved && stage.IsFinal() && rec.SignDate == nil {
		signDate := now
		decision.SignDate = &signDate
		decision.UpdMap["sign_date"] = signDate
	}
	return decision, nil
}

// statusAction maps the resulting status onto the history action verb.
func statusAction(status models.ApprovalStatus) models.ApprovalAction {
	switch status {
	case models.ApprovalStatusApproved, models.ApprovalStatusCompleted:
		return models.ApprovalActionApproved
	case models.ApprovalStatusRejected:
		return models.ApprovalActionRejected
	}
	return models.ApprovalActionUpdated
}

// creationHistory is the synthetic first ledger row written together
// with a new document, so the history always starts at version 1.
func creationHistory(rec dbmodels.ApprovalDocument, id, actorID string) dbmodels.ApprovalHistory {
	return dbmodels.ApprovalHistory{
		BaseProjectModel: dbmodels.BaseProjectModel{
			ProjectID: rec.ProjectID,
		},
		ApprovalID:  id,
		Action:      models.ApprovalActionCreated,
		FromStage:   rec.Stage,
		ToStage:     rec.Stage,
		FromVersion: rec.CurrentVersion,
		ToVersion:   rec.CurrentVersion,
		ActorID:     actorID,
		Comment:     models.ApprovalActionCreated.DefaultComment(),
	}
}
