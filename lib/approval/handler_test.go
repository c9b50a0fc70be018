package approvalhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	approvalhistorystore "cpm-backend/lib/approval/history-store"
	approvalstore "cpm-backend/lib/approval/store"
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	approvalapimodels "cpm-backend/models/api/approval"
	dbmodels "cpm-backend/models/db"
)

type fakeApprovalStore struct {
	rec      dbmodels.ApprovalDocument
	affected int64
	updates  []map[string]interface{}
}

func (f *fakeApprovalStore) Create(rec dbmodels.ApprovalDocument) (string, error) { return rec.ID, nil }

func (f *fakeApprovalStore) GetByID(id string) (*dbmodels.ApprovalDocument, error) {
	rec := f.rec
	return &rec, nil
}

func (f *fakeApprovalStore) Update(id string, updMap map[string]interface{}) error { return nil }

func (f *fakeApprovalStore) UpdateVersioned(id string, expectedVersion int, updMap map[string]interface{}) (int64, error) {
	f.updates = append(f.updates, updMap)
	return f.affected, nil
}

func (f *fakeApprovalStore) Delete(id string) error { return nil }

func (f *fakeApprovalStore) List(filter approvalapimodels.ApprovalFilter) ([]dbmodels.ApprovalDocument, error) {
	return nil, nil
}

func (f *fakeApprovalStore) ListCount(filter approvalapimodels.ApprovalFilter) (int64, error) {
	return 0, nil
}

type fakeHistoryStore struct {
	created []dbmodels.ApprovalHistory
}

func (f *fakeHistoryStore) Create(rec dbmodels.ApprovalHistory) (string, error) {
	f.created = append(f.created, rec)
	return "h1", nil
}

func (f *fakeHistoryStore) DeleteByApproval(approvalID string) error { return nil }

func (f *fakeHistoryStore) List(approvalID string) ([]dbmodels.ApprovalHistory, error) {
	return nil, nil
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

func testTransitionHandler(store *fakeApprovalStore, history *fakeHistoryStore) impl {
	return impl{
		store:        store,
		historyStore: history,
		projectStore: &fakeProjectStore{memberRole: models.ContributorRole},
		activityLog:  fakeActivityLog{},
		lockFunc: func(ctx context.Context, key string, safeCode func() error) (bool, error) {
			return true, safeCode()
		},
		txFunc:         func(fn func(tx *gorm.DB) error) error { return fn(nil) },
		storeFactory:   func(tx *gorm.DB) approvalstore.Provider { return store },
		historyFactory: func(tx *gorm.DB) approvalhistorystore.Provider { return history },
	}
}

func pendingApproval() dbmodels.ApprovalDocument {
	rec := dbmodels.ApprovalDocument{
		Title:          "structural drawings",
		Status:         models.ApprovalStatusPending,
		Stage:          models.ApprovalStageKCS,
		CurrentVersion: 3,
	}
	rec.ID = "doc-1"
	rec.ProjectID = "p1"
	return rec
}

func TestTransitionConcurrency(t *testing.T) {
	transition := approvalapimodels.ApprovalTransitionData{
		Status: string(models.ApprovalStatusApproved),
		Stage:  string(models.ApprovalStageKCS),
	}

	t.Run(`lost optimistic race is a conflict and appends no history`, func(t *testing.T) {
		store := &fakeApprovalStore{rec: pendingApproval(), affected: 0}
		history := &fakeHistoryStore{}
		handler := testTransitionHandler(store, history)

		_, _, err := handler.Transition(context.Background(), "u1", models.UserRoleDefault, "doc-1", transition)
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
		require.Len(t, store.updates, 1)
		require.Empty(t, history.created)
	})

	t.Run(`lock wait timeout is a conflict before any write`, func(t *testing.T) {
		store := &fakeApprovalStore{rec: pendingApproval(), affected: 1}
		history := &fakeHistoryStore{}
		handler := testTransitionHandler(store, history)
		handler.lockFunc = func(ctx context.Context, key string, safeCode func() error) (bool, error) {
			return false, nil
		}

		_, _, err := handler.Transition(context.Background(), "u1", models.UserRoleDefault, "doc-1", transition)
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindConflict, apierrors.KindOf(err))
		require.Empty(t, store.updates)
		require.Empty(t, history.created)
	})

	t.Run(`winning transition appends one history row`, func(t *testing.T) {
		store := &fakeApprovalStore{rec: pendingApproval(), affected: 1}
		history := &fakeHistoryStore{}
		handler := testTransitionHandler(store, history)

		view, events, err := handler.Transition(context.Background(), "u1", models.UserRoleDefault, "doc-1", transition)
		require.Nil(t, err)
		require.Len(t, history.created, 1)
		require.Len(t, events, 1)
		// approve in place keeps the version
		require.Equal(t, 3, view.CurrentVersion)
		require.Equal(t, models.ApprovalStatusApproved.ToLower(), view.Status)
	})
}
