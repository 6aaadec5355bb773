package domain

// Role represents an account's access level in the resale hierarchy.
type Role string

const (
	// RoleSuperAdmin is the credit issuer of record; may act on any account.
	RoleSuperAdmin Role = "SUPER_ADMIN"

	// RoleReseller holds a credit pool and manages accounts it created.
	RoleReseller Role = "RESELLER"

	// RoleUser may only act on its own resources.
	RoleUser Role = "USER"
)

// legacyAdminRole is an alias for SUPER_ADMIN still present in old rows.
const legacyAdminRole = "ADMIN"

var validRoles = map[Role]bool{
	RoleSuperAdmin: true,
	RoleReseller:   true,
	RoleUser:       true,
}

// NormalizeRole folds legacy role strings into the closed role set.
// Applied at the account-load boundary so the rest of the system only
// ever sees the three canonical roles.
func NormalizeRole(raw string) (Role, error) {
	if raw == legacyAdminRole {
		return RoleSuperAdmin, nil
	}

	role := Role(raw)
	if !validRoles[role] {
		return "", ErrInvalidRole
	}

	return role, nil
}

// IsValid checks if the role is one of the canonical roles.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanMoveCredits checks if the role may assign or revoke credits at all.
func (r Role) CanMoveCredits() bool {
	return r == RoleSuperAdmin || r == RoleReseller
}

// CanCreateAccounts checks if the role may create other accounts.
func (r Role) CanCreateAccounts() bool {
	return r == RoleSuperAdmin || r == RoleReseller
}
