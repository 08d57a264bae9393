package auth

import "context"

const (
	PermWorklogSelf        = "worklog.self"
	PermWorklogManage      = "worklog.manage"
	PermWorklogApprove     = "worklog.approve"
	PermPayrollSelf        = "payroll.self"
	PermPayrollRead        = "payroll.read"
	PermDeductionsRead     = "deductions.read"
	PermDeductionsWrite    = "deductions.write"
	PermEmployeesRead      = "employees.read"
	PermEmployeesWrite     = "employees.write"
	PermRolesAssign        = "roles.assign"
	PermAnnouncementsRead  = "announcements.read"
	PermAnnouncementsWrite = "announcements.write"
	PermReportsRead        = "reports.read"
	PermAuditRead          = "audit.read"
)

var employeePermissions = []string{
	PermWorklogSelf,
	PermPayrollSelf,
	PermAnnouncementsRead,
}

var adminPermissions = append(append([]string{}, employeePermissions...),
	PermWorklogManage,
	PermWorklogApprove,
	PermPayrollRead,
	PermDeductionsRead,
	PermDeductionsWrite,
	PermEmployeesRead,
	PermEmployeesWrite,
	PermAnnouncementsWrite,
	PermReportsRead,
)

var RolePermissions = map[string][]string{
	RoleEmployee: employeePermissions,
	RoleAdmin:    adminPermissions,
	RoleSuper:    append(append([]string{}, adminPermissions...), PermRolesAssign, PermAuditRead),
}

func Can(role, permission string) bool {
	for _, perm := range RolePermissions[role] {
		if perm == permission {
			return true
		}
	}
	return false
}

// StaticPermissions answers permission checks from RolePermissions.
type StaticPermissions struct{}

func (StaticPermissions) HasPermission(_ context.Context, role, permission string) (bool, error) {
	return Can(role, permission), nil
}

// PermissionsFor returns a copy of the role's permission list.
func PermissionsFor(role string) []string {
	perms := RolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
