package documenthandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	containerstore "cpm-backend/lib/document/container-store"
	documenthistorystore "cpm-backend/lib/document/history-store"
	documentstore "cpm-backend/lib/document/store"
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	documentapimodels "cpm-backend/models/api/document"
	dbmodels "cpm-backend/models/db"
)

type fakeDocumentStore struct {
	rec      dbmodels.Document
	affected int64
	updates  []map[string]interface{}
}

func (f *fakeDocumentStore) Create(rec dbmodels.Document) (string, error) { return rec.ID, nil }

func (f *fakeDocumentStore) GetByID(id string) (*dbmodels.Document, error) {
	rec := f.rec
	return &rec, nil
}

func (f *fakeDocumentStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeDocumentStore) UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (int64, error) {
	f.updates = append(f.updates, updMap)
	return f.affected, nil
}

func (f *fakeDocumentStore) Delete(id string) error { return nil }

func (f *fakeDocumentStore) List(filter documentapimodels.DocumentFilter) ([]dbmodels.Document, error) {
	return nil, nil
}

func (f *fakeDocumentStore) ListCount(filter documentapimodels.DocumentFilter) (int64, error) {
	return 0, nil
}

func (f *fakeDocumentStore) ListByContainer(containerID string) ([]dbmodels.Document, error) {
	return nil, nil
}

type fakeContainerStore struct {
	rec *dbmodels.Container
}

func (f *fakeContainerStore) GetByID(id string) (*dbmodels.Container, error) { return f.rec, nil }

func (f *fakeContainerStore) GetOrCreate(projectID string, status models.ContainerStatus) (*dbmodels.Container, error) {
	return f.rec, nil
}

func (f *fakeContainerStore) ListByProject(projectID string) ([]dbmodels.Container, error) {
	return nil, nil
}

type fakeDocumentHistoryStore struct {
	created []dbmodels.DocumentHistory
}

func (f *fakeDocumentHistoryStore) Create(rec dbmodels.DocumentHistory) (string, error) {
	f.created = append(f.created, rec)
	return "h1", nil
}

func (f *fakeDocumentHistoryStore) DeleteByDocument(documentID string) error { return nil }

func (f *fakeDocumentHistoryStore) List(documentID string) ([]dbmodels.DocumentHistory, error) {
	return nil, nil
}

type fakeFileStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeFileStorage) UploadFile(ctx context.Context, projectID, documentID, fileName, contentType string, file []byte) (string, error) {
	id := "file-2"
	f.uploaded = append(f.uploaded, id)
	return id, nil
}

func (f *fakeFileStorage) GetFile(ctx context.Context, fileID string) ([]byte, *dbmodels.FileStorage, error) {
	return nil, nil, nil
}

func (f *fakeFileStorage) ShareLink(ctx context.Context, fileID string) (string, error) {
	return "", nil
}

func (f *fakeFileStorage) Delete(ctx context.Context, fileID string) error {
	f.deleted = append(f.deleted, fileID)
	return nil
}

func (f *fakeFileStorage) DeleteByDocument(ctx context.Context, documentID string) error {
	return nil
}

type fakeProjectStore struct {
	memberRole models.UserRole
}

func (f *fakeProjectStore) GetByID(id string) (*dbmodels.Project, error) {
	return &dbmodels.Project{}, nil
}

func (f *fakeProjectStore) List() ([]dbmodels.Project, error) { return nil, nil }

func (f *fakeProjectStore) GetMember(projectID, userID string) (*dbmodels.ProjectMember, error) {
	return &dbmodels.ProjectMember{Role: f.memberRole}, nil
}

func (f *fakeProjectStore) ListMemberProjectIDs(userID string) ([]string, error) { return nil, nil }

func (f *fakeProjectStore) ManagerEmails(projectID string) ([]string, error) { return nil, nil }

type fakeActivityLog struct{}

func (fakeActivityLog) Record(projectID, actorID, action, objectType, objectID, description string) {}

func (fakeActivityLog) List(objectType, objectID string, limit int) ([]dbmodels.ActivityLog, error) {
	return nil, nil
}

func testDocumentHandler(store *fakeDocumentStore, containers *fakeContainerStore, history *fakeDocumentHistoryStore, files *fakeFileStorage) impl {
	return impl{
		store:          store,
		containerStore: containers,
		historyStore:   history,
		projectStore:   &fakeProjectStore{memberRole: models.ContributorRole},
		fileStorage:    files,
		activityLog:    fakeActivityLog{},
		lockFunc: func(ctx context.Context, key string, safeCode func() error) (bool, error) {
			return true, safeCode()
		},
		txFunc:           func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		storeFactory:     func(tx *gorm.DB) documentstore.Provider { return store },
		containerFactory: func(tx *gorm.DB) containerstore.Provider { return containers },
		historyFactory:   func(tx *gorm.DB) documenthistorystore.Provider { return history },
	}
}

func TestMoveToContainerConcurrency(t *testing.T) {
	sharedContainer := func() *dbmodels.Container {
		container := dbmodels.Container{
			ProjectID: "project-1",
			Status:    models.ContainerStatusShared,
		}
		container.ID = "container-shared"
		return &container
	}

	t.Run(`lost optimistic race is a conflict and appends no history`, func(t *testing.T) {
		store := &fakeDocumentStore{rec: testDoc(models.ContainerStatusWIP, 3), affected: 0}
		history := &fakeDocumentHistoryStore{}
		handler := testDocumentHandler(store, &fakeContainerStore{rec: sharedContainer()}, history, &fakeFileStorage{})

		_, _, err := handler.MoveToContainer(context.Background(), "u1", models.UserRoleDefault, "doc-1",
			documentapimodels.ContainerMoveData{ContainerID: "container-shared"})
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
		require.Empty(t, history.created)
	})

	t.Run(`container from another project is rejected`, func(t *testing.T) {
		foreign := sharedContainer()
		foreign.ProjectID = "project-2"
		store := &fakeDocumentStore{rec: testDoc(models.ContainerStatusWIP, 3), affected: 1}
		history := &fakeDocumentHistoryStore{}
		handler := testDocumentHandler(store, &fakeContainerStore{rec: foreign}, history, &fakeFileStorage{})

		_, _, err := handler.MoveToContainer(context.Background(), "u1", models.UserRoleDefault, "doc-1",
			documentapimodels.ContainerMoveData{ContainerID: "container-shared"})
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
		require.Empty(t, store.updates)
	})
}

func TestUploadNewVersionRollback(t *testing.T) {
	t.Run(`lost race cleans up the freshly uploaded file`, func(t *testing.T) {
		store := &fakeDocumentStore{rec: testDoc(models.ContainerStatusWIP, 2), affected: 0}
		history := &fakeDocumentHistoryStore{}
		files := &fakeFileStorage{}
		handler := testDocumentHandler(store, &fakeContainerStore{}, history, files)

		_, _, err := handler.UploadNewVersion(context.Background(), "u1", models.UserRoleDefault, "doc-1",
			documentapimodels.NewVersionData{}, "plan_v3.pdf", "application/pdf", []byte("payload"))
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
		require.Empty(t, history.created)
		require.Equal(t, []string{"file-2"}, files.uploaded)
		require.Equal(t, []string{"file-2"}, files.deleted)
	})

	t.Run(`successful upload keeps the file`, func(t *testing.T) {
		store := &fakeDocumentStore{rec: testDoc(models.ContainerStatusWIP, 2), affected: 1}
		history := &fakeDocumentHistoryStore{}
		files := &fakeFileStorage{}
		handler := testDocumentHandler(store, &fakeContainerStore{}, history, files)

		view, _, err := handler.UploadNewVersion(context.Background(), "u1", models.UserRoleDefault, "doc-1",
			documentapimodels.NewVersionData{}, "plan_v3.pdf", "application/pdf", []byte("payload"))
		require.Nil(t, err)
		require.Equal(t, 3, view.Version)
		require.Len(t, history.created, 1)
		require.Empty(t, files.deleted)
	})
}
