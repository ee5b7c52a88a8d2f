// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is the identity root. PasswordHash never leaves the server.
type User struct {
	ID                string
	FullName          string
	Email             string
	PasswordHash      string
	Role              Role
	ProfilePictureRef *string
	IsVerified        bool
	ManagerID         *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewUser carries the fields needed to insert a user.
type NewUser struct {
	FullName          string
	Email             string
	PasswordHash      string
	Role              Role
	ProfilePictureRef *string
	ManagerID         *string
}

// Principal is the identity attached to an authenticated request.
type Principal struct {
	ID    string
	Email string
	Role  Role
}

// Principal returns the request-scoped view of u.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, Email: u.Email, Role: u.Role}
}
