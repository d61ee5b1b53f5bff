package session

import "errors"

var (
	// ErrProfileNotFound indicates no profile row exists for the user.
	ErrProfileNotFound = errors.New("session.profile_not_found")

	// ErrProfileFetch indicates the profile could not be loaded.
	ErrProfileFetch = errors.New("session.profile_fetch_failed")

	// ErrInvalidCredentials indicates a failed sign-in attempt.
	ErrInvalidCredentials = errors.New("session.invalid_credentials")

	// ErrEmailAlreadyExists indicates a sign-up with a taken email.
	ErrEmailAlreadyExists = errors.New("session.email_already_exists")

	// ErrNoSession indicates an operation that requires a session ran
	// without one.
	ErrNoSession = errors.New("session.no_session")

	// ErrClosed indicates the manager has been shut down.
	ErrClosed = errors.New("session.closed")
)
