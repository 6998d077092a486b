package model

import "time"

// Role is the closed set of user roles embedded in access tokens and
// enforced by the role middleware.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleModerator:
		return true
	}
	return false
}

// User mirrors the `users` table. PasswordHash must never leave the
// repository/service layers; handlers serialize PublicUser instead.
type User struct {
	ID            uint64    // users.id
	Email         string    // users.email (unique, stored as given)
	Name          string    // users.name
	PasswordHash  string    // users.password_hash (bcrypt)
	Role          Role      // users.role
	IsActive      bool      // users.is_active
	EmailVerified bool      // users.email_verified
	CreatedAt     time.Time // users.created_at
	UpdatedAt     time.Time // users.updated_at
}

// PublicUser is the outward projection of a User. It is the only user
// shape handlers may return, so the password hash cannot leak through a
// default serialization path.
type PublicUser struct {
	ID            uint64    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          Role      `json:"role"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Public returns the non-secret projection of u.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Role:          u.Role,
		IsActive:      u.IsActive,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}
