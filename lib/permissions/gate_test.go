package permissions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
)

func TestGate(t *testing.T) {
	member := func(role models.UserRole) Actor {
		return Actor{UserID: "u1", Role: models.UserRoleDefault, IsMember: true, ProjectRole: role}
	}

	t.Run(`admin bypasses everything`, func(t *testing.T) {
		admin := Actor{UserID: "a1", Role: models.AdminRole}
		for _, action := range []models.PermissionAction{
			models.ActionRead, models.ActionApproveTransition, models.ActionContainerMove,
			models.ActionDelete, models.ActionComment,
		} {
			require.Equal(t, true, Allowed(admin, action))
		}
	})

	t.Run(`non-members are denied everything`, func(t *testing.T) {
		outsider := Actor{UserID: "u2", Role: models.ProjectManagerRole, IsMember: false}
		for _, action := range []models.PermissionAction{
			models.ActionRead, models.ActionApproveTransition, models.ActionContainerMove,
			models.ActionDelete, models.ActionComment,
		} {
			require.Equal(t, false, Allowed(outsider, action))
		}
	})

	t.Run(`transition allow-list`, func(t *testing.T) {
		require.Equal(t, true, Allowed(member(models.ProjectManagerRole), models.ActionApproveTransition))
		require.Equal(t, true, Allowed(member(models.BimManagerRole), models.ActionApproveTransition))
		require.Equal(t, true, Allowed(member(models.ContributorRole), models.ActionApproveTransition))
		require.Equal(t, false, Allowed(member(models.ViewerRole), models.ActionApproveTransition))
		require.Equal(t, false, Allowed(member(models.UserRoleDefault), models.ActionApproveTransition))
	})

	t.Run(`delete is stricter than write`, func(t *testing.T) {
		require.Equal(t, true, Allowed(member(models.ProjectManagerRole), models.ActionDelete))
		require.Equal(t, true, Allowed(member(models.BimManagerRole), models.ActionDelete))
		require.Equal(t, false, Allowed(member(models.ContributorRole), models.ActionDelete))
		require.Equal(t, false, Allowed(member(models.ViewerRole), models.ActionDelete))
	})

	t.Run(`any member may read and comment`, func(t *testing.T) {
		require.Equal(t, true, Allowed(member(models.ViewerRole), models.ActionRead))
		require.Equal(t, true, Allowed(member(models.ViewerRole), models.ActionComment))
	})

	t.Run(`check maps deny to Forbidden with a hint`, func(t *testing.T) {
		err := Check(member(models.ViewerRole), models.ActionDelete)
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindForbidden, apierrors.KindOf(err))
		require.NotEmpty(t, apierrors.HintOf(err))
	})

	t.Run(`check without identity is Unauthenticated`, func(t *testing.T) {
		err := Check(Actor{}, models.ActionRead)
		require.NotNil(t, err)
		require.Equal(t, apierrors.KindUnauthenticated, apierrors.KindOf(err))
	})
}
