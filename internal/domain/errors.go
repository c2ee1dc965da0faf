package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")

	// user-specific errors
	ErrEmailTaken = errors.New("user with this email already exists")

	// photo-specific errors
	ErrInvalidPhotoFormat = errors.New("invalid photo format")
)
