// Package repository implements MySQL persistence for users, films and
// orders. Sentinel errors defined here let higher layers distinguish
// failure scenarios with errors.Is without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a requested user, film or order does not
// exist. Handlers should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrUsernameExists is returned when registering a username that is
// already taken.
var ErrUsernameExists = errors.New("username already exists")

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password; callers must not be able to tell which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")
