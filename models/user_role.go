package models

type UserRole string

const (
	AdminRole          UserRole = "ADMIN"
	ProjectManagerRole UserRole = "PROJECT_MANAGER"
	BimManagerRole     UserRole = "BIM_MANAGER"
	ContributorRole    UserRole = "CONTRIBUTOR"
	ViewerRole         UserRole = "VIEWER"
	UserRoleDefault    UserRole = "USER"
)

var roleHumanName = map[UserRole]string{
	AdminRole:          "Administrator",
	ProjectManagerRole: "Project manager",
	BimManagerRole:     "BIM manager",
	ContributorRole:    "Contributor",
	ViewerRole:         "Viewer",
	UserRoleDefault:    "User",
}

func (r UserRole) ToHuman() string {
	if human, exist := roleHumanName[r]; exist {
		return human
	}
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == AdminRole
}

const SystemUser = "system"
