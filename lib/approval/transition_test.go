package approvalhandler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
	dbmodels "cpm-backend/models/db"
)

func testRec(stage models.ApprovalStage, status models.ApprovalStatus, version int) dbmodels.ApprovalDocument {
	rec := dbmodels.ApprovalDocument{
		Title:          "Foundation drawings",
		Status:         status,
		Stage:          stage,
		CurrentVersion: version,
	}
	rec.ID = "doc-1"
	rec.ProjectID = "project-1"
	return rec
}

func TestComputeTransition(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("approve in place keeps version", func(t *testing.T) {
		rec := testRec(models.ApprovalStageKCS, models.ApprovalStatusPending, 3)
		decision, err := computeTransition(rec, models.ApprovalStatusApproved, models.ApprovalStageKCS, "", "", "user-1", now)
		require.NoError(t, err)
		require.Equal(t, 3, decision.Version)
		require.Equal(t, models.ApprovalStatusApproved, decision.Status)
		require.Nil(t, decision.SignDate)
		require.Equal(t, 3, decision.History.FromVersion)
		require.Equal(t, 3, decision.History.ToVersion)
		require.Equal(t, models.ApprovalActionApproved, decision.History.Action)
	})

	t.Run("stage advance bumps version", func(t *testing.T) {
		rec := testRec(models.ApprovalStageDesign, models.ApprovalStatusApproved, 1)
		decision, err := computeTransition(rec, models.ApprovalStatusPending, models.ApprovalStageKCS, "sent to KCS", "", "user-1", now)
		require.NoError(t, err)
		require.Equal(t, 2, decision.Version)
		require.Equal(t, models.ApprovalStageKCS, decision.Stage)
		require.Equal(t, models.ApprovalStageDesign, decision.History.FromStage)
		require.Equal(t, models.ApprovalStageKCS, decision.History.ToStage)
		require.Equal(t, "sent to KCS", decision.History.Comment)
	})

	t.Run("reject in place still bumps version", func(t *testing.T) {
		rec := testRec(models.ApprovalStageVerification, models.ApprovalStatusPending, 4)
		decision, err := computeTransition(rec, models.ApprovalStatusRejected, models.ApprovalStageVerification, "", "missing load calc", "user-1", now)
		require.NoError(t, err)
		require.Equal(t, 5, decision.Version)
		require.Equal(t, "missing load calc", decision.RejectionReason)
		require.Equal(t, "missing load calc", decision.UpdMap["rejection_reason"])
		require.Equal(t, models.ApprovalActionRejected, decision.History.Action)
		require.Equal(t, models.ApprovalActionRejected.DefaultComment(), decision.History.Comment)
	})

	t.Run("reject may return to an earlier stage", func(t *testing.T) {
		rec := testRec(models.ApprovalStageAppraisal, models.ApprovalStatusPending, 6)
		decision, err := computeTransition(rec, models.ApprovalStatusRejected, models.ApprovalStageDesign, "", "redo", "user-1", now)
		require.NoError(t, err)
		require.Equal(t, models.ApprovalStageDesign, decision.Stage)
		require.Equal(t, 7, decision.Version)
	})

	t.Run("reject cannot move forward", func(t *testing.T) {
		rec := testRec(models.ApprovalStageKCS, models.ApprovalStatusPending, 2)
		_, err := computeTransition(rec, models.ApprovalStatusRejected, models.ApprovalStageVerification, "", "", "user-1", now)
		require.Error(t, err)
		require.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})

	t.Run("forward jump over a stage is rejected", func(t *testing.T) {
		rec := testRec(models.ApprovalStageDesign, models.ApprovalStatusApproved, 1)
		_, err := computeTransition(rec, models.ApprovalStatusPending, models.ApprovalStageVerification, "", "", "user-1", now)
		require.Error(t, err)
		require.Equal(t, apierrors.KindValidation, apierrors.KindOf(err))
	})

	t.Run("approval at the terminal stage sets the sign date", func(t *testing.T) {
		rec := testRec(models.ApprovalStageAppraisal, models.ApprovalStatusPending, 8)
		decision, err := computeTransition(rec, models.ApprovalStatusApproved, models.ApprovalStageAppraisal, "", "", "user-1", now)
		require.NoError(t, err)
		require.NotNil(t, decision.SignDate)
		require.Equal(t, now, *decision.SignDate)
		require.Equal(t, now, decision.UpdMap["sign_date"])
		require.Equal(t, 8, decision.Version)
	})

	t.Run("an existing sign date is never overwritten", func(t *testing.T) {
		signDate := now.Add(-48 * time.Hour)
		rec := testRec(models.ApprovalStageAppraisal, models.ApprovalStatusApproved, 8)
		rec.SignDate = &signDate
		decision, err := computeTransition(rec, models.ApprovalStatusApproved, models.ApprovalStageAppraisal, "", "", "user-1", now)
		require.NoError(t, err)
		require.Nil(t, decision.SignDate)
		require.NotContains(t, decision.UpdMap, "sign_date")
	})

	t.Run("non-reject transition clears the rejection reason", func(t *testing.T) {
		rec := testRec(models.ApprovalStageDesign, models.ApprovalStatusRejected, 2)
		rec.RejectionReason = "missing load calc"
		decision, err := computeTransition(rec, models.ApprovalStatusPending, models.ApprovalStageDesign, "resubmitted", "", "user-1", now)
		require.NoError(t, err)
		require.Empty(t, decision.RejectionReason)
		require.Equal(t, "", decision.UpdMap["rejection_reason"])
	})
}

func TestComputeTransitionVersionMonotonic(t *testing.T) {
	// walk a document through a full review cycle with one rejection
	// and check the version never decreases and the history chains.
	now := time.Now()
	rec := testRec(models.ApprovalStageDesign, models.ApprovalStatusPending, 1)
	steps := []struct {
		status models.ApprovalStatus
		stage  models.ApprovalStage
	}{
		{models.ApprovalStatusApproved, models.ApprovalStageDesign},
		{models.ApprovalStatusPending, models.ApprovalStageKCS},
		{models.ApprovalStatusRejected, models.ApprovalStageDesign},
		{models.ApprovalStatusPending, models.ApprovalStageKCS},
		{models.ApprovalStatusApproved, models.ApprovalStageKCS},
		{models.ApprovalStatusPending, models.ApprovalStageVerification},
		{models.ApprovalStatusApproved, models.ApprovalStageVerification},
		{models.ApprovalStatusPending, models.ApprovalStageAppraisal},
		{models.ApprovalStatusApproved, models.ApprovalStageAppraisal},
	}
	for _, step := range steps {
		decision, err := computeTransition(rec, step.status, step.stage, "", "reason", "user-1", now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, decision.Version, rec.CurrentVersion)
		require.Equal(t, rec.CurrentVersion, decision.History.FromVersion)
		require.Equal(t, decision.Version, decision.History.ToVersion)
		require.Equal(t, rec.Stage, decision.History.FromStage)
		rec.Status = decision.Status
		rec.Stage = decision.Stage
		rec.CurrentVersion = decision.Version
		if decision.SignDate != nil {
			rec.SignDate = decision.SignDate
		}
	}
	require.Equal(t, models.ApprovalStatusApproved, rec.Status)
	require.Equal(t, models.ApprovalStageAppraisal, rec.Stage)
	require.NotNil(t, rec.SignDate)
	require.Equal(t, 6, rec.CurrentVersion)
}
