package auth

import (
	"errors"
	"time"
)

// Role is one of the closed set of privilege tiers. Comparisons are
// categorical set membership, never numeric ordering, so reordering the
// declarations can never silently change a privilege decision.
type Role string

const (
	RoleClient     Role = "CLIENT"
	RoleVendor     Role = "VENDOR"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a stored string onto a known tier.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleClient, RoleVendor, RoleAdmin, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// AdminRoles returns the tiers allowed through admin-or-above gates.
func AdminRoles() []Role {
	return []Role{RoleAdmin, RoleSuperAdmin}
}

// User represents a credential-store record.
type User struct {
	ID           int64
	Email        string
	Phone        string
	PasswordHash string
	FirstName    string
	LastName     string
	Avatar       string
	Role         Role
	IsActive     bool
	IsVerified   bool
	Province     string
	City         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated actor for one request. It is built from
// the live user record at resolve time and discarded with the request;
// it is never cached across requests.
type Principal struct {
	ID         int64
	Email      string
	Phone      string
	FirstName  string
	LastName   string
	Role       Role
	IsActive   bool
	IsVerified bool
}

var (
	// ErrMissingToken indicates no bearer token was presented.
	ErrMissingToken = errors.New("auth: no token provided")
	// ErrInvalidToken covers malformed, tampered and expired tokens.
	ErrInvalidToken = errors.New("auth: invalid token")
	// ErrUnknownPrincipal indicates the token subject no longer exists.
	ErrUnknownPrincipal = errors.New("auth: unknown principal")
	// ErrInactiveAccount indicates the live record is deactivated.
	ErrInactiveAccount = errors.New("auth: account is deactivated")
	// ErrForbidden indicates an access policy denial.
	ErrForbidden = errors.New("auth: forbidden")
)
