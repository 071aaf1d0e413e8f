package models

import (
	"strings"
	"time"
)

// RoleCliente is the role assigned to every user created through registration.
const RoleCliente = "cliente"

// User represents a user document in the "users" collection.
type User struct {
	ID           string     `json:"-"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash,omitempty"`
	Role         string     `json:"role,omitempty"`
	MFASecret    string     `json:"mfa_secret,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Admin-created users carry free-form profile data instead of credentials.
	Name string `json:"name,omitempty"`
	Age  int    `json:"age,omitempty"`
}

// HasMFA reports whether the user has a configured TOTP secret.
func (u *User) HasMFA() bool {
	return strings.TrimSpace(u.MFASecret) != ""
}

// UserResponse structures the user data returned by API endpoints.
// Password hash and MFA secret never leave the service.
type UserResponse struct {
	ID        string     `json:"id"`
	Username  string     `json:"username,omitempty"`
	Email     string     `json:"email"`
	Role      string     `json:"role,omitempty"`
	Name      string     `json:"name,omitempty"`
	Age       int        `json:"age,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ToResponse converts the user to its API shape.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		Name:      u.Name,
		Age:       u.Age,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserUpdate carries the fields an admin update may change. Nil fields are left as is.
type UserUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
}
