package documenthandler

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"cpm-backend/db"
	activitylog "cpm-backend/lib/activity-log"
	containerstore "cpm-backend/lib/document/container-store"
	documenthistorystore "cpm-backend/lib/document/history-store"
	documentstore "cpm-backend/lib/document/store"
	filestorage "cpm-backend/lib/file-storage"
	"cpm-backend/lib/metadata"
	"cpm-backend/lib/permissions"
	projectstore "cpm-backend/lib/project/store"
	"cpm-backend/lib/utils/lock"
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	documentapimodels "cpm-backend/models/api/document"
	dbmodels "cpm-backend/models/db"
	wsmodels "cpm-backend/models/ws"
)

const moveLockWait = 5 * time.Second

type Provider interface {
	Upload(ctx context.Context, actorID string, actorRole models.UserRole, data documentapimodels.DocumentUploadData, fileName, contentType string, file []byte) (view documentapimodels.DocumentView, events []wsmodels.ServerMessage, err error)
	GetByID(actorID string, actorRole models.UserRole, id string) (view documentapimodels.DocumentView, err error)
	List(actorID string, actorRole models.UserRole, filter documentapimodels.DocumentFilter) (list []documentapimodels.DocumentView, rowCount int64, err error)
	ListISO(actorID string, actorRole models.UserRole, filter documentapimodels.DocumentFilter) (list []documentapimodels.ISODocumentView, rowCount int64, err error)
	MoveToContainer(ctx context.Context, actorID string, actorRole models.UserRole, id string, data documentapimodels.ContainerMoveData) (view documentapimodels.DocumentView, events []wsmodels.ServerMessage, err error)
	UploadNewVersion(ctx context.Context, actorID string, actorRole models.UserRole, id string, data documentapimodels.NewVersionData, fileName, contentType string, file []byte) (view documentapimodels.DocumentView, events []wsmodels.ServerMessage, err error)
	History(actorID string, actorRole models.UserRole, id string) (list []documentapimodels.DocumentHistoryView, err error)
	Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error
}

var Instance Provider

func NewHandler() {
	Instance = impl{
		store:            documentstore.NewInstance(db.DB),
		containerStore:   containerstore.NewInstance(db.DB),
		historyStore:     documenthistorystore.NewInstance(db.DB),
		projectStore:     projectstore.NewInstance(db.DB),
		fileStorage:      filestorage.Instance,
		activityLog:      activitylog.Instance,
		lockFunc:         defaultLock,
		txFunc:           defaultTx,
		storeFactory:     documentstore.NewInstance,
		containerFactory: containerstore.NewInstance,
		historyFactory:   documenthistorystore.NewInstance,
	}
}

type impl struct {
	store          documentstore.Provider
	containerStore containerstore.Provider
	historyStore   documenthistorystore.Provider
	projectStore   projectstore.Provider
	fileStorage    filestorage.Provider
	activityLog    activitylog.Provider

	// seams for tests, production wiring is set in NewHandler
	lockFunc         func(ctx context.Context, key string, safeCode func() error) (success bool, err error)
	txFunc           func(fn func(tx *gorm.DB) error) error
	storeFactory     func(tx *gorm.DB) documentstore.Provider
	containerFactory func(tx *gorm.DB) containerstore.Provider
	historyFactory   func(tx *gorm.DB) documenthistorystore.Provider
}

func defaultLock(ctx context.Context, id string, safeCode func() error) (bool, error) {
	return lock.WithDelay(ctx, lock.DocumentKey(id), moveLockWait, safeCode)
}

func defaultTx(fn func(tx *gorm.DB) error) error {
	return db.DB.Transaction(fn)
}

func (i impl) GetLogger(id string) *log.Entry {
	logger := log.
		WithField("document_id", id)
	return logger
}

func (i impl) Upload(ctx context.Context, actorID string, actorRole models.UserRole, data documentapimodels.DocumentUploadData, fileName, contentType string, file []byte) (documentapimodels.DocumentView, []wsmodels.ServerMessage, error) {
	logger := log.
		WithField("project_id", data.ProjectID).
		WithField("user_id", actorID)
	project, err := i.projectStore.GetByID(data.ProjectID)
	if err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}
	if project == nil {
		return documentapimodels.DocumentView{}, nil, apierrors.Validation("project %v not found", data.ProjectID)
	}
	if err = i.checkAccess(actorID, actorRole, data.ProjectID, models.ActionContainerMove); err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}
	if len(data.Metadata) > 0 {
		if err = metadata.ValidateISO(data.Metadata); err != nil {
			return documentapimodels.DocumentView{}, nil, err
		}
	}
	status, _ := models.ParseContainerStatus(data.Status)

	var rec dbmodels.Document
	var uploadedFileID string
	err = i.txFunc(func(tx *gorm.DB) error {
		store := i.storeFactory(tx)
		containerStore := i.containerFactory(tx)
		historyStore := i.historyFactory(tx)
		container, err := containerStore.GetOrCreate(data.ProjectID, status)
		if err != nil {
			return err
		}
		rec = dbmodels.Document{
			BaseProjectModel: dbmodels.BaseProjectModel{
				ProjectID: data.ProjectID,
			},
			Name:         data.Name,
			OriginalName: fileName,
			Status:       container.Status,
			Version:      1,
			RevisionCode: data.RevisionCode,
			Metadata:     data.Metadata,
			ContainerID:  container.ID,
			UploadedByID: actorID,
		}
		id, err := store.Create(rec)
		if err != nil {
			return err
		}
		rec.ID = id
		fileID, err := i.fileStorage.UploadFile(ctx, data.ProjectID, id, fileName, contentType, file)
		if err != nil {
			return err
		}
		uploadedFileID = fileID
		rec.FileID = fileID
		if err = store.Update(id, map[string]interface{}{"file_id": fileID}); err != nil {
			return err
		}
		history := dbmodels.DocumentHistory{
			BaseProjectModel: dbmodels.BaseProjectModel{
				ProjectID: data.ProjectID,
			},
			DocumentID: id,
			Action:     models.DocumentActionUploaded,
			Status:     rec.Status,
			Version:    1,
			FileID:     fileID,
			ActorID:    actorID,
		}
		_, err = historyStore.Create(history)
		return err
	})
	if err != nil {
		logger.WithError(err).Error("document upload failed")
		i.cleanupFile(ctx, logger, uploadedFileID)
		return documentapimodels.DocumentView{}, nil, err
	}
	logger.
		WithField("rec_id", rec.ID).
		Info("document uploaded")
	i.activityLog.Record(data.ProjectID, actorID, "upload", "document", rec.ID, "uploaded document "+rec.Name)
	view := documentapimodels.DocumentConvert(rec)
	return view, i.updatedEvents(rec.ProjectID, view), nil
}

func (i impl) GetByID(actorID string, actorRole models.UserRole, id string) (documentapimodels.DocumentView, error) {
	rec, err := i.getRec(id)
	if err != nil {
		return documentapimodels.DocumentView{}, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionRead); err != nil {
		return documentapimodels.DocumentView{}, err
	}
	return documentapimodels.DocumentConvert(*rec), nil
}

func (i impl) List(actorID string, actorRole models.UserRole, filter documentapimodels.DocumentFilter) ([]documentapimodels.DocumentView, int64, error) {
	recList, rowCount, err := i.list(actorID, actorRole, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]documentapimodels.DocumentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, documentapimodels.DocumentConvert(rec))
	}
	return result, rowCount, nil
}

func (i impl) ListISO(actorID string, actorRole models.UserRole, filter documentapimodels.DocumentFilter) ([]documentapimodels.ISODocumentView, int64, error) {
	recList, rowCount, err := i.list(actorID, actorRole, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]documentapimodels.ISODocumentView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, documentapimodels.ISODocumentConvert(rec))
	}
	return result, rowCount, nil
}

// MoveToContainer is the only operation that changes a document's
// status: the document takes on the target container's status, and the
// move is recorded in the history ledger.
func (i impl) MoveToContainer(ctx context.Context, actorID string, actorRole models.UserRole, id string, data documentapimodels.ContainerMoveData) (documentapimodels.DocumentView, []wsmodels.ServerMessage, error) {
	logger := i.GetLogger(id).
		WithField("user_id", actorID).
		WithField("container_id", data.ContainerID)
	rec, err := i.getRec(id)
	if err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionContainerMove); err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}

	var updated *dbmodels.Document
	locked, err := i.lockFunc(ctx, id, func() error {
		return i.txFunc(func(tx *gorm.DB) error {
			store := i.storeFactory(tx)
			containerStore := i.containerFactory(tx)
			historyStore := i.historyFactory(tx)
			fresh, err := store.GetByID(id)
			if err != nil {
				return err
			}
			if fresh == nil {
				return apierrors.NotFound("document %v not found", id)
			}
			container, err := containerStore.GetByID(data.ContainerID)
			if err != nil {
				return err
			}
			if container == nil {
				return apierrors.Validation("container %v not found", data.ContainerID)
			}
			if container.ProjectID != fresh.ProjectID {
				return apierrors.Validation("container %v belongs to another project", data.ContainerID)
			}
			decision := computeMove(*fresh, *container, data.RevisionCode, data.Comment, actorID)
			affected, err := store.UpdateVersioned(id, fresh.Version, decision.UpdMap)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierrors.Conflict("document %v was modified concurrently", id)
			}
			if _, err = historyStore.Create(decision.History); err != nil {
				return err
			}
			fresh.Status = decision.Status
			fresh.ContainerID = container.ID
			fresh.Container = container
			if decision.RevisionCode != "" {
				fresh.RevisionCode = decision.RevisionCode
			}
			updated = fresh
			return nil
		})
	})
	if err != nil {
		logger.WithError(err).Error("container move failed")
		return documentapimodels.DocumentView{}, nil, err
	}
	if !locked {
		return documentapimodels.DocumentView{}, nil, apierrors.Conflict("document %v is locked by another operation", id)
	}
	logger.Info("document moved to container")
	view := documentapimodels.DocumentConvert(*updated)
	i.activityLog.Record(updated.ProjectID, actorID, "container_move", "document", id,
		"moved "+updated.Name+" to "+updated.Status.ToHuman())
	return view, i.updatedEvents(updated.ProjectID, view), nil
}

// UploadNewVersion attaches a new file to an existing document. The
// version always increments, the status and container stay put.
func (i impl) UploadNewVersion(ctx context.Context, actorID string, actorRole models.UserRole, id string, data documentapimodels.NewVersionData, fileName, contentType string, file []byte) (documentapimodels.DocumentView, []wsmodels.ServerMessage, error) {
	logger := i.GetLogger(id).WithField("user_id", actorID)
	rec, err := i.getRec(id)
	if err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}
	if err = i.checkAccess(actorID, actorRole, rec.ProjectID, models.ActionContainerMove); err != nil {
		return documentapimodels.DocumentView{}, nil, err
	}

	var updated *dbmodels.Document
	var uploadedFileID string
	locked, err := i.lockFunc(ctx, id, func() error {
		return i.txFunc(func(tx *gorm.DB) error {
			store := i.storeFactory(tx)
			historyStore := i.historyFactory(tx)
			fresh, err := store.GetByID(id)
			if err != nil {
				return err
			}
			if fresh == nil {
				return apierrors.NotFound("document %v not found", id)
			}
			fileID, err := i.fileStorage.UploadFile(ctx, fresh.ProjectID, id, fileName, contentType, file)
			if err != nil {
				return err
			}
			uploadedFileID = fileID
			decision := computeNewVersion(*fresh, fileID, data.RevisionCode, data.Comment, actorID)
			affected, err := store.UpdateVersioned(id, fresh.Version, decision.UpdMap)
			if err != nil {
				return err
			}
			if affected == 0 {
				return apierrors.Conflict("document %v was modified concurrently", id)
			}
			if _, err = historyStore.Create(decision.History); err != nil {
				return err
			}
			fresh.Version = decision.Version
			fresh.FileID = fileID
			fresh.OriginalName = fileName
			if decision.RevisionCode != "" {
				fresh.RevisionCode = decision.RevisionCode
			}
			updated = fresh
			return nil
		})
	})
	if err != nil {
		logger.WithError(err).Error("new version upload failed")
		i.cleanupFile(ctx, logger, uploadedFileID)
		return documentapimodels.DocumentView{}, nil, err
	}
	if !locked {
		return documentapimodels.DocumentView{}, nil, apierrors.Conflict("document %v is locked by another operation", id)
	}
	logger.
		WithField("version", updated.Version).
		Info("document version uploaded")
	view := documentapimodels.DocumentConvert(*updated)
	i.activityLog.Record(updated.ProjectID, actorID, "version_added", "document", id,
		"uploaded a new version of "+updated.Name)
	return view, i.updatedEvents(updated.ProjectID, view), nil
}

func (i impl) History(actorID string, actorRole models.UserRole, id string) ([]documentapimodels.DocumentHistoryView, error) {
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
	result := make([]documentapimodels.DocumentHistoryView, 0, len(list))
	for _, item := range list {
		result = append(result, documentapimodels.DocumentHistoryConvert(item))
	}
	return result, nil
}

func (i impl) Delete(ctx context.Context, actorID string, actorRole models.UserRole, id string) error {
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
		if err := historyStore.DeleteByDocument(id); err != nil {
			return err
		}
		return store.Delete(id)
	})
	if err != nil {
		logger.WithError(err).Error("document deletion failed")
		return err
	}
	if err = i.fileStorage.DeleteByDocument(ctx, id); err != nil {
		logger.WithError(err).Warn("document file cleanup failed")
	}
	logger.Info("document deleted")
	i.activityLog.Record(rec.ProjectID, actorID, "delete", "document", id, "deleted document "+rec.Name)
	return nil
}

func (i impl) list(actorID string, actorRole models.UserRole, filter documentapimodels.DocumentFilter) ([]dbmodels.Document, int64, error) {
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
			return []dbmodels.Document{}, 0, nil
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
		return []dbmodels.Document{}, rowCount, nil
	}
	recList, err := i.store.List(filter)
	if err != nil {
		return nil, 0, err
	}
	return recList, rowCount, nil
}

func (i impl) getRec(id string) (*dbmodels.Document, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		i.GetLogger(id).
			WithError(err).
			Error("document fetch failed")
		return nil, err
	}
	if rec == nil {
		return nil, apierrors.NotFound("document %v not found", id)
	}
	return rec, nil
}

func (i impl) checkAccess(actorID string, actorRole models.UserRole, projectID string, action models.PermissionAction) error {
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
	return permissions.Check(actor, action)
}

// cleanupFile removes a stored file whose enclosing transaction rolled
// back. The file row and object are written outside that transaction
// and would otherwise be orphaned.
func (i impl) cleanupFile(ctx context.Context, logger *log.Entry, fileID string) {
	if fileID == "" {
		return
	}
	if err := i.fileStorage.Delete(ctx, fileID); err != nil {
		logger.
			WithField("file_id", fileID).
			WithError(err).
			Warn("orphan file cleanup failed")
	}
}

func (i impl) updatedEvents(projectID string, payload any) []wsmodels.ServerMessage {
	return []wsmodels.ServerMessage{
		{
			Channel: wsmodels.ProjectChannel(projectID),
			Event:   wsmodels.EventDocumentUpdated,
			Time:    time.Now().Format(time.RFC3339),
			Payload: payload,
		},
	}
}
