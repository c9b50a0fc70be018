package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApprovalStageIsAllowChange(t *testing.T) {
	t.Run("non-reject moves stay or advance one step", func(t *testing.T) {
		require.True(t, ApprovalStageDesign.IsAllowChange(ApprovalStageDesign, ApprovalStatusApproved))
		require.True(t, ApprovalStageDesign.IsAllowChange(ApprovalStageKCS, ApprovalStatusPending))
		require.True(t, ApprovalStageKCS.IsAllowChange(ApprovalStageVerification, ApprovalStatusApproved))
		require.True(t, ApprovalStageVerification.IsAllowChange(ApprovalStageAppraisal, ApprovalStatusPending))
	})

	t.Run("forward jumps are rejected", func(t *testing.T) {
		require.False(t, ApprovalStageDesign.IsAllowChange(ApprovalStageVerification, ApprovalStatusPending))
		require.False(t, ApprovalStageDesign.IsAllowChange(ApprovalStageAppraisal, ApprovalStatusApproved))
		require.False(t, ApprovalStageKCS.IsAllowChange(ApprovalStageAppraisal, ApprovalStatusPending))
	})

	t.Run("backward moves need a rejection", func(t *testing.T) {
		require.False(t, ApprovalStageAppraisal.IsAllowChange(ApprovalStageDesign, ApprovalStatusPending))
		require.True(t, ApprovalStageAppraisal.IsAllowChange(ApprovalStageDesign, ApprovalStatusRejected))
		require.True(t, ApprovalStageVerification.IsAllowChange(ApprovalStageKCS, ApprovalStatusRejected))
		require.True(t, ApprovalStageKCS.IsAllowChange(ApprovalStageKCS, ApprovalStatusRejected))
	})

	t.Run("reject never moves forward", func(t *testing.T) {
		require.False(t, ApprovalStageDesign.IsAllowChange(ApprovalStageKCS, ApprovalStatusRejected))
	})

	t.Run("unknown stages are rejected", func(t *testing.T) {
		require.False(t, ApprovalStage("UNKNOWN").IsAllowChange(ApprovalStageDesign, ApprovalStatusPending))
		require.False(t, ApprovalStageDesign.IsAllowChange(ApprovalStage("UNKNOWN"), ApprovalStatusPending))
	})
}

func TestParseApprovalStatus(t *testing.T) {
	status, err := ParseApprovalStatus("")
	require.NoError(t, err)
	require.Equal(t, ApprovalStatusPending, status)

	status, err = ParseApprovalStatus(" approved ")
	require.NoError(t, err)
	require.Equal(t, ApprovalStatusApproved, status)

	_, err = ParseApprovalStatus("sideways")
	require.Error(t, err)
}

func TestStageDisplayOrdering(t *testing.T) {
	for k, stage := range approvalStageOrder {
		require.Equal(t, k, stage.Index())
	}
	require.True(t, ApprovalStageAppraisal.IsFinal())
	require.False(t, ApprovalStageVerification.IsFinal())
}
