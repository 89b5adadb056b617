package domain

import "time"

// Role is the authorization level carried by a user and by every token issued to it.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User models a registered author of the blog.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile holds the optional public details a user can edit about themselves.
type Profile struct {
	UserID string `json:"user_id"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

// Principal is the authenticated identity recovered from a bearer token.
type Principal struct {
	SubjectID string
	Role      Role
	TokenID   string
}

// IssuedToken is a freshly signed token together with the claims it carries.
type IssuedToken struct {
	Value     string
	ID        string
	SubjectID string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenRecord is the audit trail entry written for every issued token.
// It is never consulted when validating a token.
type TokenRecord struct {
	ID        string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
