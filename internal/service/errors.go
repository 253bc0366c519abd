package service

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these onto HTTP statuses; the wrapped
// detail string is what the caller sees.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("invalid range")
	// ErrUpstream marks an external-collaborator failure (classifier
	// unreachable or broken). Requests fail closed on it.
	ErrUpstream = errors.New("upstream failure")
)

func validationError(detail string) error {
	return fmt.Errorf("%w: %s", ErrValidation, detail)
}

func conflict(detail string) error {
	return fmt.Errorf("%w: %s", ErrConflict, detail)
}

func forbidden(detail string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, detail)
}

func unauthorized(detail string) error {
	return fmt.Errorf("%w: %s", ErrUnauthorized, detail)
}

func notFound(detail string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, detail)
}

func upstream(err error) error {
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}

// Detail strips the error-kind prefix, leaving the human-readable
// detail string for the HTTP response.
func Detail(err error) string {
	for _, kind := range []error{
		ErrValidation, ErrConflict, ErrForbidden,
		ErrUnauthorized, ErrNotFound, ErrInvalidRange, ErrUpstream,
	} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
