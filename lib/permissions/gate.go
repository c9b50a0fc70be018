package permissions

import (
	"cpm-backend/models"
	"cpm-backend/models/api/apierrors"
)

// Actor describes everything the gate needs to decide: the global role
// and, when the actor belongs to the target project, the project role.
type Actor struct {
	UserID      string
	Role        models.UserRole
	IsMember    bool
	ProjectRole models.UserRole
}

var writeRoles = map[models.UserRole]bool{
	models.ProjectManagerRole: true,
	models.BimManagerRole:     true,
	models.ContributorRole:    true,
}

var deleteRoles = map[models.UserRole]bool{
	models.ProjectManagerRole: true,
	models.BimManagerRole:     true,
}

// Allowed is the pure permission decision. No state, no side effects;
// the gate is always evaluated before any mutation.
func Allowed(actor Actor, action models.PermissionAction) bool {
	if actor.Role.IsAdmin() {
		return true
	}
	if !actor.IsMember {
		return false
	}
	switch action {
	case models.ActionRead, models.ActionComment:
		return true
	case models.ActionApproveTransition, models.ActionContainerMove:
		return writeRoles[actor.ProjectRole]
	case models.ActionDelete:
		return deleteRoles[actor.ProjectRole]
	}
	return false
}

// Check translates a deny into a Forbidden error carrying the missing
// permission and a human hint.
func Check(actor Actor, action models.PermissionAction) error {
	if actor.UserID == "" {
		return apierrors.Unauthenticated()
	}
	if Allowed(actor, action) {
		return nil
	}
	return apierrors.Forbidden("missing permission: "+string(action), action.Hint())
}
