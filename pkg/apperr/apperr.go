// Package apperr classifies domain failures so HTTP handlers can pick a
// status code and a safe message without inspecting error strings.
package apperr

import (
	"errors"
	"net/http"
)

// Kind is the failure class of a domain error.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// Error is a classified domain error. hideAsNotFound marks authorization
// failures that must surface as 404 so callers cannot probe for the
// existence of records they do not own.
type Error struct {
	Kind           Kind
	Message        string
	hideAsNotFound bool
	Err            error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Unauthenticated(msg string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Ownership is a Forbidden error for failed ownership checks. It is mapped
// to 404 at the boundary, same shape as a record that does not exist; msg
// must therefore be the same not-found message the missing-record path uses.
func Ownership(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg, hideAsNotFound: true}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Internal wraps an unexpected collaborator failure. The wrapped error is
// for logs only; Message is what callers see.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// KindOf returns the kind of err, or KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps a classified error to its HTTP status. Conflict maps to
// 403: the request is understood but the record's state forbids it.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		if e.hideAsNotFound {
			return http.StatusNotFound
		}
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to send to callers. Unclassified
// and internal errors are never leaked.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) || e.Kind == KindInternal {
		return "internal server error"
	}
	return e.Message
}
