package approvalhandler

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cpm-backend/db"
	activitylog "cpm-backend/lib/activity-log"
	approvalcommentstore "cpm-backend/lib/approval/comment-store"
	approvalhistorystore "cpm-backend/lib/approval/history-store"
	approvalstore "cpm-backend/lib/approval/store"
	"cpm-backend/lib/permissions"
	projectstore "cpm-backend/lib/project/store"
	usersstore "cpm-backend/lib/users/store"
	"cpm-backend/lib/utils/lock"
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	approvalapimodels "cpm-backend/models/api/approval"
	dbmodels "cpm-backend/models/db"
	wsmodels "cpm-backend/models/ws"
)

const transitionLockWait = 5 * time.Second

type Provider interface {
	Create(actorID string, actorRole models.UserRole, data approvalapimodels.ApprovalCreateData) (view approvalapimodels.ApprovalView, err error)
	GetByID(actorID string, actorRole models.UserRole, id string) (view approvalapimodels.ApprovalView, err error)
	List(actorID string, actorRole models.UserRole, filter approvalapimodels.ApprovalFilter) (list []approvalapimodels.ApprovalView, rowCount int64, err error)
	Update(actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalEditData) error
	Transition(ctx context.Context, actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalTransitionData) (view approvalapimodels.ApprovalView, events []wsmodels.ServerMessage, err error)
	History(actorID string, actorRole models.UserRole, id string) (list []approvalapimodels.ApprovalHistoryView, err error)
	AddComment(actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalCommentData) (view approvalapimodels.ApprovalCommentView, events []wsmodels.ServerMessage, err error)
	Delete(actorID string, actorRole models.UserRole, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:          approvalstore.NewInstance(db.DB),
		historyStore:   approvalhistorystore.NewInstance(db.DB),
		commentStore:   approvalcommentstore.NewInstance(db.DB),
		projectStore:   projectstore.NewInstance(db.DB),
		usersStore:     usersstore.NewInstance(db.DB),
		activityLog:    activitylog.Instance,
		lockFunc:       defaultLock,
		txFunc:         defaultTx,
		storeFactory:   approvalstore.NewInstance,
		historyFactory: approvalhistorystore.NewInstance,
		commentFactory: approvalcommentstore.NewInstance,
	}
}

type lockFunc func(ctx context.Context, key string, safeCode func() error) (success bool, err error)

type txFunc func(fn func(tx *gorm.DB) error) error

type impl struct {
	store        approvalstore.Provider
	historyStore approvalhistorystore.Provider
	commentStore approvalcommentstore.Provider
	projectStore projectstore.Provider
	usersStore   usersstore.Provider
	activityLog  activitylog.Provider

	// seams for tests, production wiring is set in NewHandler
	lockFunc       lockFunc
	txFunc         txFunc
	storeFactory   func(tx *gorm.DB) approvalstore.Provider
	historyFactory func(tx *gorm.DB) approvalhistorystore.Provider
	commentFactory func(tx *gorm.DB) approvalcommentstore.Provider
}

func (i impl) GetLogger(id string) *log.Entry {
	logger := log.
		WithField("approval_id", id)
	return logger
}

func (i impl) Create(actorID string, actorRole models.UserRole, data approvalapimodels.ApprovalCreateData) (approvalapimodels.ApprovalView, error) {
	logger := log.WithField("project_id", data.ProjectID)
	project, err := i.projectStore.GetByID(data.ProjectID)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if project == nil {
		return approvalapimodels.ApprovalView{}, apierrors.Validation("project %v not found", data.ProjectID)
	}
	assignee, err := i.usersStore.GetByID(data.AssignedToID)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if assignee == nil {
		return approvalapimodels.ApprovalView{}, apierrors.Validation("user %v not found", data.AssignedToID)
	}
	actor, err := i.resolveActor(actorID, actorRole, data.ProjectID)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if err = permissions.Check(actor, models.ActionApproveTransition); err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	priority, _ := models.ParsePriority(data.Priority)
	now := time.Now()
	rec := dbmodels.ApprovalDocument{
		BaseProjectModel: dbmodels.BaseProjectModel{
			ProjectID: data.ProjectID,
		},
		Title:          data.Title,
		Description:    data.Description,
		Category:       data.Category,
		Priority:       priority,
		Status:         models.ApprovalStatusPending,
		Stage:          models.ApprovalStageDesign,
		CurrentVersion: 1,
		SendDate:       now,
		AssignedToID:   data.AssignedToID,
	}
	var id string
	err = i.txFunc(func(tx *gorm.DB) error {
		store := i.storeFactory(tx)
		historyStore := i.historyFactory(tx)
		id, err = store.Create(rec)
		if err != nil {
			logger.
				WithField("request", fmt.Sprintf("%+v", data)).
				WithError(err).
				Error("approval document creation failed")
			return err
		}
		history := creationHistory(rec, id, actorID)
		_, err = historyStore.Create(history)
		return err
	})
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	logger.
		WithField("rec_id", id).
		Info("approval document created")
	i.activityLog.Record(data.ProjectID, actorID, "create", "approval_document", id, "created approval document "+rec.Title)
	rec.ID = id
	rec.Project = project
	rec.AssignedTo = assignee
	return approvalapimodels.ApprovalConvert(rec), nil
}

func (i impl) GetByID(actorID string, actorRole models.UserRole, id string) (approvalapimodels.ApprovalView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionRead); err != nil {
		return approvalapimodels.ApprovalView{}, err
	}
	return approvalapimodels.ApprovalConvert(*rec), nil
}

func (i impl) List(actorID string, actorRole models.UserRole, filter approvalapimodels.ApprovalFilter) ([]approvalapimodels.ApprovalView, int64, error) {
	logger := log.WithField("user_id", actorID)
	if filter.ProjectID != "" {
		if err := i.checkAccess(actorID, actorRole, filter.ProjectID, models.ActionRead); err != nil {
			return nil, 0, err
		}
	} else if !actorRole.IsAdmin() {
		memberIDs, err := i.projectStore.ListMemberProjectIDs(actorID)
		if err != nil {
			return nil, 0, err
		}
		if len(memberIDs) == 0 {
			return []approvalapimodels.ApprovalView{}, 0, nil
		}
		filter.MemberProjectIDs = memberIDs
	}

	rowCount, err := i.store.ListCount(filter)
	if err != nil {
		return nil, 0, err
	}
	page, limit := filter.GetPage()
	offset := (page - 1) * limit
	if int64(offset) > rowCount {
		return []approvalapimodels.ApprovalView{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		logger.
			WithError(err).
			Error("approval list query failed")
		return nil, 0, err
	}
	result := make([]approvalapimodels.ApprovalView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, approvalapimodels.ApprovalConvert(rec))
	}
	return result, rowCount, nil
}

// Update is a metadata-only edit: stage, status and version are never
// touched here, only Transition changes workflow state.
func (i impl) Update(actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalEditData) error {
	logger := i.GetLogger(id)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionApproveTransition); err != nil {
		return err
	}
	priority, _ := models.ParsePriority(data.Priority)
	updMap := map[string]interface{}{
		"title":       data.Title,
		"description": data.Description,
		"category":    data.Category,
		"priority":    priority,
	}
	err = i.store.Update(id, updMap)
	if err != nil {
		logger.
			WithError(err).
			Error("approval document update failed")
		return err
	}
	logger.Info("approval document updated")
	return nil
}

func (i impl) Transition(ctx context.Context, actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalTransitionData) (approvalapimodels.ApprovalView, []wsmodels.ServerMessage, error) {
	logger := i.GetLogger(id).
		WithField("user_id", actorID).
		WithField("new_status", data.Status).
		WithField("new_stage", data.Stage)
	rec, err := i.getRec(id)
	if err != nil {
		return approvalapimodels.ApprovalView{}, nil, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionApproveTransition); err != nil {
		return approvalapimodels.ApprovalView{}, nil, err
	}
	status, err := models.ParseApprovalStatus(data.Status)
	if err != nil {
		return approvalapimodels.ApprovalView{}, nil, apierrors.Validation(err.Error())
	}
	stage, err := models.ParseApprovalStage(data.Stage)
	if err != nil {
		return approvalapimodels.ApprovalView{}, nil, apierrors.Validation(err.Error())
	}

	var updated *dbmodels.ApprovalDocument
	locked, err := i.lockFunc(ctx, id, func() error {
		return i.txFunc(func(tx *gorm.DB) error {
			store := i.storeFactory(tx)
			historyStore := i.historyFactory(tx)
			// re-read inside the transaction, the record may have moved
			// since the permission check
			fresh, err := store.GetByID(id)
			if err != nil {
				return err
			}
			if fresh == nil {
				return apierrors.NotFound("approval document %v not found", id)
			}
			decision, err := computeTransition(*fresh, status, stage, data.Comment, data.RejectionReason, actorID, time.Now())
			if err != nil {
				return err
			}
			affected, err := store.UpdateVersioned(id, fresh.CurrentVersion, decision.UpdMap)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierrors.Conflict("approval document %v was modified concurrently", id)
			}
			if _, err = historyStore.Create(decision.History); err != nil {
				return err
			}
			fresh.Status = decision.Status
			fresh.Stage = decision.Stage
			fresh.CurrentVersion = decision.Version
			fresh.RejectionReason = decision.RejectionReason
			if decision.SignDate != nil {
				fresh.SignDate = decision.SignDate
			}
			updated = fresh
			return nil
		})
	})
	if err != nil {
		logger.WithError(err).Error("approval transition failed")
		return approvalapimodels.ApprovalView{}, nil, err
	}
	if !locked {
		return approvalapimodels.ApprovalView{}, nil, apierrors.Conflict("approval document %v is locked by another transition", id)
	}
	logger.Info("approval transition applied")
	view := approvalapimodels.ApprovalConvert(*updated)
	i.activityLog.Record(updated.ProjectID, actorID, string(statusAction(status)), "approval_document", id,
		fmt.Sprintf("approval %v moved to %v/%v", updated.Title, view.Status, view.StageDisplay))
	events := []wsmodels.ServerMessage{
		{
			Channel: wsmodels.ProjectChannel(updated.ProjectID),
			Event:   wsmodels.EventApprovalUpdated,
			Time:    time.Now().Format(time.RFC3339),
			Payload: view,
		},
	}
	return view, events, nil
}

func (i impl) History(actorID string, actorRole models.UserRole, id string) ([]approvalapimodels.ApprovalHistoryView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return nil, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionRead); err != nil {
		return nil, err
	}
	list, err := i.historyStore.List(id)
	if err != nil {
		return nil, err
	}
	result := make([]approvalapimodels.ApprovalHistoryView, 0, len(list))
	for _, item := range list {
		result = append(result, approvalapimodels.ApprovalHistoryConvert(item))
	}
	return result, nil
}

func (i impl) AddComment(actorID string, actorRole models.UserRole, id string, data approvalapimodels.ApprovalCommentData) (approvalapimodels.ApprovalCommentView, []wsmodels.ServerMessage, error) {
	logger := i.GetLogger(id).WithField("user_id", actorID)
	rec, err := i.getRec(id)
	if err != nil {
		return approvalapimodels.ApprovalCommentView{}, nil, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionComment); err != nil {
		return approvalapimodels.ApprovalCommentView{}, nil, err
	}
	comment := dbmodels.ApprovalComment{
		BaseProjectModel: dbmodels.BaseProjectModel{
			ProjectID: rec.ProjectID,
		},
		ApprovalID: id,
		AuthorID:   actorID,
		Body:       data.Body,
	}
	commentID, err := i.commentStore.Create(comment)
	if err != nil {
		logger.WithError(err).Error("approval comment creation failed")
		return approvalapimodels.ApprovalCommentView{}, nil, err
	}
	comment.ID = commentID
	comment.CreatedAt = time.Now()
	view := approvalapimodels.ApprovalCommentConvert(comment)
	i.activityLog.Record(rec.ProjectID, actorID, "comment", "approval_document", id, "commented on "+rec.Title)
	events := []wsmodels.ServerMessage{
		{
			Channel: wsmodels.ProjectChannel(rec.ProjectID),
			Event:   wsmodels.EventApprovalCommentCreated,
			Time:    time.Now().Format(time.RFC3339),
			Payload: view,
		},
	}
	return view, events, nil
}

// Delete cascades to history and comments first, the ledger only goes
// away together with its document.
func (i impl) Delete(actorID string, actorRole models.UserRole, id string) error {
	logger := i.GetLogger(id).WithField("user_id", actorID)
	rec, err := i.getRec(id)
	if err != nil {
		return err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionDelete); err != nil {
		return err
	}
	err = i.txFunc(func(tx *gorm.DB) error {
		store := i.storeFactory(tx)
		historyStore := i.historyFactory(tx)
		commentStore := i.commentFactory(tx)
		if err := commentStore.DeleteByApproval(id); err != nil {
			return err
		}
		if err := historyStore.DeleteByApproval(id); err != nil {
			return err
		}
		return store.Delete(id)
	})
	if err != nil {
		logger.
			WithError(err).
			Error("approval document deletion failed")
		return err
	}
	logger.Info("approval document deleted")
	i.activityLog.Record(rec.ProjectID, actorID, "delete", "approval_document", id, "deleted approval document "+rec.Title)
	return nil
}

func (i impl) getRec(id string) (*dbmodels.ApprovalDocument, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.GetLogger(id).
			WithError(err).
			Error("approval document fetch failed")
		return nil, err
	}
	if rec == nil {
		return nil, apierrors.NotFound("approval document %v not found", id)
	}
	return rec, nil
}

func (i impl) resolveActor(actorID string, actorRole models.UserRole, projectID string) (permissions.Actor, error) {
	actor := permissions.Actor{
		UserID: actorID,
		Role:   actorRole,
	}
	if actorID == "" {
		return actor, nil
	}
	member, err := i.projectStore.GetMember(projectID, actorID)
	if err != nil {
		return actor, err
	}
	if member != nil {
		actor.IsMember = true
		actor.ProjectRole = member.Role
	}
	return actor, nil
}

func (i impl) checkAccess(actorID string, actorRole models.UserRole, projectID string, action models.PermissionAction) error {
	actor, err := i.resolveActor(actorID, actorRole, projectID)
	if err != nil {
		return err
	}
	return permissions.Check(actor, action)
}

func defaultLock(ctx context.Context, id string, safeCode func() error) (bool, error) {
	return lock.WithDelay(ctx, lock.ApprovalKey(id), transitionLockWait, safeCode)
}

func defaultTx(fn func(tx *gorm.DB) error) error {
	return db.DB.Transaction(fn)
}
