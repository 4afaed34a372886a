// Package errors holds the sentinel errors shared by every layer of the service.
// Lower layers wrap them with fmt.Errorf("%w: ...") and the API layer maps them
// to HTTP status codes with errors.Is.
package errors

import "errors"

var (
	// ErrNotFound is returned when a chat, message or session does not exist.
	// Mapped to 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation is returned when client input is rejected, for example an
	// empty message or an unknown provider. Mapped to 400 Bad Request.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when an operation clashes with the current state
	// of a session, such as sending while a previous send is still in flight.
	// Mapped to 409 Conflict.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission is returned when the caller's identity does not allow the
	// operation (an anonymous session touching persisted chats).
	// Mapped to 403 Forbidden.
	ErrPermission = errors.New("permission denied")

	// ErrUnauthorized is returned when no valid identity token was presented.
	// Mapped to 401 Unauthorized.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal is an unexpected server-side failure. Mapped to 500.
	ErrInternal = errors.New("internal server error")
)
