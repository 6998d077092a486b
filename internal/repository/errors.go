// Package repository implements the User Directory and Token Store over
// database/sql. The sentinel values below let higher layers distinguish
// failure scenarios without depending on driver error strings.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row. The service
// layer maps it onto the appropriate typed rejection (invalid
// credentials, invalid token, or user not found depending on the path).
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when an insert violates the unique email
// constraint on the users table.
var ErrEmailExists = errors.New("email already exists")
