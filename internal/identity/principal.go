package identity

// Principal is an authenticated account holder.
type Principal struct {
	ID    string
	Email string
	Roles []string
}

const RoleAdmin = "admin"

// HasRole reports whether the principal carries the given role claim.
func (p *Principal) HasRole(role string) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin is the authorization policy for administrative operations. Access
// derives from the role claim on the principal record, never from identity
// literals embedded in code.
func IsAdmin(p *Principal) bool { return p.HasRole(RoleAdmin) }
