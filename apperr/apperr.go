// Package apperr holds the error value every layer uses to report a failure
// that should reach the client, plus the mapping from driver and validation
// errors onto it.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

type Kind string

const (
	KindNotFound         Kind = "not_found"
	KindValidationFailed Kind = "validation_failed"
	KindDuplicateKey     Kind = "duplicate_key"
	KindUnauthorized     Kind = "unauthorized"
	KindForbidden        Kind = "forbidden"
	KindBadRequest       Kind = "bad_request"
	KindServerError      Kind = "server_error"
)

var statusByKind = map[Kind]int{
	KindNotFound:         http.StatusNotFound,
	KindValidationFailed: http.StatusBadRequest,
	KindDuplicateKey:     http.StatusBadRequest,
	KindUnauthorized:     http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
	KindBadRequest:       http.StatusBadRequest,
	KindServerError:      http.StatusInternalServerError,
}

// Error is a client-facing failure. Message is safe to return in a response;
// Err, when set, is the underlying cause and is only logged.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg, StatusCode: statusByKind[kind]}
}

func newf(kind Kind, format string, args ...any) *Error {
	return New(kind, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...any) *Error { return newf(KindNotFound, format, args...) }

func BadRequest(format string, args ...any) *Error { return newf(KindBadRequest, format, args...) }

func Unauthorized(format string, args ...any) *Error {
	return newf(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error { return newf(KindForbidden, format, args...) }

func Validation(messages ...string) *Error {
	return New(KindValidationFailed, strings.Join(messages, ","))
}

func DuplicateKey(field string) *Error {
	return newf(KindDuplicateKey, "Duplicate field value entered for %s field", field)
}

// Server wraps an unexpected fault. msg defaults to "Server Error".
func Server(err error, msg string) *Error {
	if msg == "" {
		msg = "Server Error"
	}
	e := New(KindServerError, msg)
	e.Err = err
	return e
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// From converts any error into an *Error. Errors that are already *Error
// pass through unchanged.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := Validation(ValidationMessages(verrs)...)
		out.Err = err
		return out
	}
	if mongo.IsDuplicateKeyError(err) {
		out := DuplicateKey(duplicateField(err))
		out.Err = err
		return out
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		out := NotFound("Resource not found")
		out.Err = err
		return out
	}
	return Server(err, "")
}

// dupKeyPattern matches the server message, e.g.
// "E11000 duplicate key error collection: blog.users index: email_1 dup key: { email: \"a@b.c\" }".
var dupKeyPattern = regexp.MustCompile(`dup key: \{ ?"?([A-Za-z0-9_.]+)"?\s*:`)

func duplicateField(err error) string {
	if m := dupKeyPattern.FindStringSubmatch(err.Error()); len(m) == 2 {
		return m[1]
	}
	return "unique"
}
