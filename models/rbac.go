package models

type RbacFunc func(userID string, role UserRole, path string) bool

type Module string

const (
	ApprovalModule Module = "APPROVAL"
	DocumentModule Module = "DOCUMENT"
	IssueModule    Module = "ISSUE"
	ProjectModule  Module = "PROJECT"
	ProfileModule  Module = "PROFILE"
)

type Permission string

const (
	CreatePermission Permission = "CREATE"
	EditPermission   Permission = "EDIT"
	ViewPermission   Permission = "VIEW"
	FlowPermission   Permission = "FLOW"
	DeletePermission Permission = "DELETE"
	NotesPermission  Permission = "NOTES"
)
