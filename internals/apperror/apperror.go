package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies an engine outcome. Controllers map kinds to HTTP status
// codes; services never touch fiber status constants directly.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindConflict
	KindForbidden
	KindValidation
	KindInternal
)

// Detail is a single field-level validation failure.
type Detail struct {
	Field string `json:"field"`
	Code  string `json:"code"`
}

type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Details carries field/code pairs for validation failures.
	Details []Detail
	// Meta carries structured conflict context, e.g. the prior verifier of
	// an attendance code.
	Meta map[string]interface{}
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status equivalent of the error kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindForbidden:
		return fiber.StatusForbidden
	case KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func Conflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func ConflictWithMeta(code, message string, meta map[string]interface{}) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message, Meta: meta}
}

func Forbidden(code, message string) *Error {
	return &Error{Kind: KindForbidden, Code: code, Message: message}
}

func Validation(code, message string, details ...Detail) *Error {
	return &Error{Kind: KindValidation, Code: code, Message: message, Details: details}
}

// Internal wraps an unexpected failure. The wrapped cause is logged server
// side; callers only ever see the generic message.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "Internal server error", Err: err}
}

// From returns err as *Error, wrapping anything unexpected as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
