// Package service holds the business rules of the admin backend. Services
// orchestrate repository calls and return *Error for failures the client
// may see; anything else is an internal error.
package service

import (
	"database/sql"
	"errors"
	"fmt"

	"adminapi/internal/repository"
)

// Error kinds. Every *Error unwraps to one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
)

// Error is a rule violation whose message is safe to return to the client.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func notFound(what string) *Error {
	return newError(ErrNotFound, "%s not found", what)
}

// notFoundIf turns sql.ErrNoRows into a not-found error naming what.
func notFoundIf(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return notFound(what)
	}
	return err
}

// found reports whether a lookup returned a row.
func found(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}

// conflictOnDuplicate reports a unique key violation as a conflict with msg.
func conflictOnDuplicate(err error, msg string) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return newError(ErrConflict, "%s", msg)
	}
	return err
}
