package documenthandler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
	dbmodels "cpm-backend/models/db"
)

func testDoc(status models.ContainerStatus, version int) dbmodels.Document {
	rec := dbmodels.Document{
		Name:        "plan.pdf",
		Status:      status,
		Version:     version,
		ContainerID: "container-wip",
		FileID:      "file-1",
	}
	rec.ID = "doc-1"
	rec.ProjectID = "project-1"
	return rec
}

func TestComputeMove(t *testing.T) {
	container := dbmodels.Container{
		ProjectID: "project-1",
		Status:    models.ContainerStatusShared,
	}
	container.ID = "container-shared"

	t.Run("status follows the target container", func(t *testing.T) {
		rec := testDoc(models.ContainerStatusWIP, 3)
		decision := computeMove(rec, container, "", "ready for review", "user-1")
		require.Equal(t, models.ContainerStatusShared, decision.Status)
		require.Equal(t, 3, decision.Version)
		require.Equal(t, container.ID, decision.UpdMap["container_id"])
		require.Equal(t, models.ContainerStatusShared, decision.UpdMap["status"])
		require.NotContains(t, decision.UpdMap, "version")
	})

	t.Run("history records the move at the current version", func(t *testing.T) {
		rec := testDoc(models.ContainerStatusWIP, 5)
		decision := computeMove(rec, container, "C01", "", "user-1")
		require.Equal(t, models.DocumentActionContainerMove, decision.History.Action)
		require.Equal(t, 5, decision.History.Version)
		require.Equal(t, rec.FileID, decision.History.FileID)
		require.Equal(t, "C01", decision.UpdMap["revision_code"])
	})

	t.Run("empty revision code leaves the column alone", func(t *testing.T) {
		rec := testDoc(models.ContainerStatusWIP, 1)
		decision := computeMove(rec, container, "", "", "user-1")
		require.NotContains(t, decision.UpdMap, "revision_code")
	})
}

func TestComputeNewVersion(t *testing.T) {
	t.Run("version increments and file swaps", func(t *testing.T) {
		rec := testDoc(models.ContainerStatusShared, 2)
		decision := computeNewVersion(rec, "file-2", "", "updated sections", "user-1")
		require.Equal(t, 3, decision.Version)
		require.Equal(t, "file-2", decision.UpdMap["file_id"])
		require.Equal(t, models.ContainerStatusShared, decision.Status)
		require.NotContains(t, decision.UpdMap, "status")
		require.NotContains(t, decision.UpdMap, "container_id")
	})

	t.Run("history captures the new version and file", func(t *testing.T) {
		rec := testDoc(models.ContainerStatusPublished, 7)
		decision := computeNewVersion(rec, "file-9", "P02", "", "user-1")
		require.Equal(t, models.DocumentActionVersionAdded, decision.History.Action)
		require.Equal(t, 8, decision.History.Version)
		require.Equal(t, "file-9", decision.History.FileID)
		require.Equal(t, models.ContainerStatusPublished, decision.History.Status)
	})
}
