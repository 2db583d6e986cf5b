// Package common defines shared constants and sentinel errors used across
// the job board server layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")
	ErrTimeout  = errors.New("operation timed out")

	// Authentication errors.
	ErrInvalidCredential  = errors.New("invalid credential")
	ErrUnknownIdentity    = errors.New("unknown identity")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Authorization errors. Forbidden is a role mismatch, Unauthorized an
	// ownership mismatch (or a missing object, which is reported the same way).
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")

	// Business-rule conflicts.
	ErrDuplicateEmail = errors.New("user with this email already exists")
	ErrAlreadyApplied = errors.New("already applied")

	// Validation errors for uploaded files.
	ErrInvalidResumeFormat = errors.New("resume must be a PDF")

	// Collaborator errors.
	ErrBlobStore = errors.New("blob store failure")
)
