package models

// PermissionAction is the category of operation checked by the
// permission gate before any mutation takes place.
type PermissionAction string

const (
	ActionRead              PermissionAction = "READ"
	ActionApproveTransition PermissionAction = "APPROVE_TRANSITION"
	ActionContainerMove     PermissionAction = "CONTAINER_MOVE"
	ActionDelete            PermissionAction = "DELETE"
	ActionComment           PermissionAction = "COMMENT"
)

var permissionHint = map[PermissionAction]string{
	ActionRead:              "ask a project manager to add you to the project",
	ActionApproveTransition: "approval transitions require the PROJECT_MANAGER, BIM_MANAGER or CONTRIBUTOR project role",
	ActionContainerMove:     "container moves require the PROJECT_MANAGER, BIM_MANAGER or CONTRIBUTOR project role",
	ActionDelete:            "deletion requires the PROJECT_MANAGER or BIM_MANAGER project role",
	ActionComment:           "commenting requires project membership",
}

// Hint is the human readable explanation attached to Forbidden responses.
func (a PermissionAction) Hint() string {
	if hint, exist := permissionHint[a]; exist {
		return hint
	}
	return "insufficient permissions"
}
