package rbac

import (
	"cpm-backend/models"
)

var AllRoles = []models.UserRole{models.AdminRole, models.ProjectManagerRole, models.BimManagerRole, models.ContributorRole, models.ViewerRole, models.UserRoleDefault}

// Route-level gating only screens out unknown roles. Whether the caller
// may actually write is decided by the permission gate inside the
// handlers, from the caller's project role: a user whose global role is
// plain USER can still be a contributor on some project, so no route
// rule may filter by global role.
func (i *impl) initRules() {
	i.addApprovalRbac()
	i.addDocumentRbac()
	i.addIssueRbac()
	i.addProjectRbac()
	i.addProfileRbac()
}

func (i *impl) addApprovalRbac() {
	// VIEW
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/approvals/list [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/approvals/{id} [get]", nil)
	i.RegisterRule(models.ApprovalModule, models.ViewPermission, AllRoles, "/api/v1/approvals/{id}/history [get]", nil)
	// CREATE/EDIT
	i.RegisterRule(models.ApprovalModule, models.CreatePermission, AllRoles, "/api/v1/approvals [post]", nil)
	i.RegisterRule(models.ApprovalModule, models.EditPermission, AllRoles, "/api/v1/approvals/{id} [put]", nil)
	// FLOW
	i.RegisterRule(models.ApprovalModule, models.FlowPermission, AllRoles, "/api/v1/approvals/{id}/status [put]", nil)
	// NOTES
	i.RegisterRule(models.ApprovalModule, models.NotesPermission, AllRoles, "/api/v1/approvals/{id}/comments [post]", nil)
	// DELETE
	i.RegisterRule(models.ApprovalModule, models.DeletePermission, AllRoles, "/api/v1/approvals/{id} [delete]", nil)
}

func (i *impl) addDocumentRbac() {
	// VIEW
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/documents/list [post]", nil)
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/documents/iso [post]", nil)
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id} [get]", nil)
	i.RegisterRule(models.DocumentModule, models.ViewPermission, AllRoles, "/api/v1/documents/{id}/history [get]", nil)
	// CREATE/EDIT
	i.RegisterRule(models.DocumentModule, models.CreatePermission, AllRoles, "/api/v1/documents [post]", nil)
	i.RegisterRule(models.DocumentModule, models.FlowPermission, AllRoles, "/api/v1/documents/{id}/container [put]", nil)
	i.RegisterRule(models.DocumentModule, models.EditPermission, AllRoles, "/api/v1/documents/{id}/version [put]", nil)
	// DELETE
	i.RegisterRule(models.DocumentModule, models.DeletePermission, AllRoles, "/api/v1/documents/{id} [delete]", nil)
}

func (i *impl) addIssueRbac() {
	i.RegisterRule(models.IssueModule, models.ViewPermission, AllRoles, "/api/v1/issues/overdue [post]", nil)
	i.RegisterRule(models.IssueModule, models.ViewPermission, AllRoles, "/api/v1/issues/overdue/export [put]", nil)
}

func (i *impl) addProjectRbac() {
	i.RegisterRule(models.ProjectModule, models.ViewPermission, AllRoles, "/api/v1/projects [get]", nil)
	i.RegisterRule(models.ProjectModule, models.ViewPermission, AllRoles, "/api/v1/projects/{id} [get]", nil)
}

func (i *impl) addProfileRbac() {
	// any authenticated user may read their own permission matrix
	i.RegisterRule(models.ProfileModule, models.ViewPermission, AllRoles, "/api/v1/profile/permissions [get]", AllowFunc())
}
