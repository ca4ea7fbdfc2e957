package identity

import "time"

// RoleAdmin is the only role the admin gateway accepts. The comparison is
// exact; anything else in the role field is Forbidden.
const RoleAdmin = "admin"

// User is the typed shape of a user record. Loading through this struct (as
// opposed to a free-form document) means a malformed record fails the role
// check instead of crashing downstream code.
type User struct {
	UID         string
	Email       string
	DisplayName string
	Role        string
	Active      bool
	// BootstrapHash is the bcrypt hash of the one-time bootstrap secret the
	// seed tool issues. Empty once the admin has enrolled with the identity
	// provider.
	BootstrapHash string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsAdmin reports whether this record passes the gateway's role gate.
func (u *User) IsAdmin() bool {
	return u != nil && u.Active && u.Role == RoleAdmin
}
