// Package apperr defines the error kinds shared by every domain package and
// their HTTP status mapping.
package apperr

import (
	"errors"
	"net/http"
	"strings"
)

type Kind int

const (
	KindStorage Kind = iota
	KindValidation
	KindInvalidCredentials
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooLarge:
		return "too_large"
	default:
		return "storage"
	}
}

// Status maps a kind to its HTTP status code. Login failures keep 400.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified failure. Message is safe to return to clients; Err
// carries the underlying cause and is never exposed outside development.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Op      string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Fields, "; "))
		b.WriteString(")")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// Storage wraps a database failure raised by operation op.
func Storage(op string, err error) *Error {
	return &Error{Kind: KindStorage, Message: "Server error", Op: op, Err: err}
}

// KindOf classifies err. Unclassified errors are storage failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindStorage
}

// BindFailure maps a request decoding error to the error returned to the
// client: an oversized body keeps its 413, anything else becomes invalid.
func BindFailure(err error, invalid *Error) error {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindTooLarge {
		return e
	}
	return invalid
}
