package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorKind classifies service failures so handlers can pick a status
// code without inspecting messages.
type ErrorKind string

const (
	KindValidation ErrorKind = "VALIDATION"
	KindNotFound   ErrorKind = "NOT_FOUND"
	KindForbidden  ErrorKind = "FORBIDDEN"
	KindIneligible ErrorKind = "INELIGIBLE"
	KindConflict   ErrorKind = "CONFLICT"
	KindInternal   ErrorKind = "INTERNAL"
)

// ServiceError carries a kind and a caller-facing message. For
// KindIneligible the message is the evaluator's reason text.
type ServiceError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

func wrapError(kind ErrorKind, message string, err error) *ServiceError {
	return &ServiceError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the kind from an error chain, defaulting to INTERNAL.
func KindOf(err error) ErrorKind {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}

// pgUniqueViolation is the Postgres error code for unique-constraint
// violations, surfaced when concurrent writes race past a lookup.
const pgUniqueViolation = "23505"

// translateDBError converts raw store errors into caller-facing ones so
// a unique-index race reads as a conflict, not a SQL error dump.
func translateDBError(err error, conflictMessage string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return wrapError(KindConflict, conflictMessage, err)
	}
	return wrapError(KindInternal, "unexpected database error", err)
}
