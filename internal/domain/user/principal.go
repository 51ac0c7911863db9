package user

// Principal is the authenticated caller of a use case. It is built per request
// from the session token and passed explicitly into every operation.
type Principal struct {
	UserID       uint64
	PublicID     string
	Code         string
	Email        string
	FullName     string
	SignatureURL string
	Role         Role
	DepartmentID uint64 // department administered by an admin; 0 otherwise
}

func NewPrincipal(u *User, administeredDepartmentID uint64) Principal {
	p := Principal{
		UserID:       u.ID,
		PublicID:     u.UserID,
		Code:         u.Code,
		Email:        u.Email,
		FullName:     u.FullName(),
		SignatureURL: u.SignatureURL,
		Role:         u.Role,
	}
	if u.Role == RoleAdmin {
		p.DepartmentID = administeredDepartmentID
	}
	return p
}

func (p Principal) Can(c Capability) bool { return p.UserID != 0 && p.Role.Can(c) }

// Administers reports whether p holds capability c over the given department.
func (p Principal) Administers(c Capability, departmentID uint64) bool {
	return p.Can(c) && p.DepartmentID != 0 && p.DepartmentID == departmentID
}

// Require returns ErrForbidden unless p holds capability c.
func (p Principal) Require(c Capability) error {
	if !p.Can(c) {
		return ErrForbidden
	}
	return nil
}

// RequireFor returns ErrForbidden unless p holds capability c over departmentID.
func (p Principal) RequireFor(c Capability, departmentID uint64) error {
	if !p.Administers(c, departmentID) {
		return ErrForbidden
	}
	return nil
}
