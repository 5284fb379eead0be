package usecase

import "errors"

var (
	// ErrUserNotFound is returned by a UserRepository when no user matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrIdentityTaken is returned by a UserRepository when the email or username is already registered.
	ErrIdentityTaken = errors.New("email or username already registered")
)
