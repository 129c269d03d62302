package guard

// Role is a clinic role as carried in the token's role claim
type Role = string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleDentist Role = "dentist"
	RoleStaff   Role = "staff"
	RolePatient Role = "patient"
)

// GetAllRoles returns all predefined roles in descending rank order
func GetAllRoles() []Role {
	return []Role{
		RoleAdmin,
		RoleManager,
		RoleDentist,
		RoleStaff,
		RolePatient,
	}
}

// ParseRole safely parses a string into a known Role
func ParseRole(roleStr string) (Role, bool) {
	role := Role(roleStr)
	return role, IsValidRole(role)
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleManager, RoleDentist, RoleStaff, RolePatient:
		return true
	default:
		return false
	}
}

// RoleRanking maps roles to numeric ranks. A ranking is built once and
// treated as read only after construction; unknown roles rank 0 so they
// can never satisfy a policy.
type RoleRanking struct {
	ranks map[Role]int
}

// NewRoleRanking copies the given ranks into an immutable ranking.
func NewRoleRanking(ranks map[Role]int) *RoleRanking {
	cp := make(map[Role]int, len(ranks))
	for role, rank := range ranks {
		cp[role] = rank
	}
	return &RoleRanking{ranks: cp}
}

// DefaultRoleRanking is the clinic hierarchy: admin outranks manager,
// manager outranks dentist, dentist outranks staff, staff outranks patient.
func DefaultRoleRanking() *RoleRanking {
	return NewRoleRanking(map[Role]int{
		RoleAdmin:   5,
		RoleManager: 4,
		RoleDentist: 3,
		RoleStaff:   2,
		RolePatient: 1,
	})
}

// Rank returns the numeric rank for a role, 0 for unknown roles.
func (r *RoleRanking) Rank(role Role) int {
	return r.ranks[role]
}

// AtLeast checks if role meets the minimum required level. Unknown roles
// on either side fail the check.
func (r *RoleRanking) AtLeast(role, minRole Role) bool {
	current, ok := r.ranks[role]
	if !ok {
		return false
	}
	min, ok := r.ranks[minRole]
	if !ok {
		return false
	}
	return current >= min
}

// MinRank returns the lowest rank among the known roles in the slice, 0
// when the slice is empty or holds only unknown roles. Unknown entries are
// skipped so they cannot lower the bar for everyone else.
func (r *RoleRanking) MinRank(roles []Role) int {
	min := 0
	for _, role := range roles {
		rank, ok := r.ranks[role]
		if !ok {
			continue
		}
		if min == 0 || rank < min {
			min = rank
		}
	}
	return min
}
