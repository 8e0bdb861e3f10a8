package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Kind classifies a service failure so controllers can map it to an HTTP
// status without inspecting messages
type Kind string

const (
	KindNotFound          Kind = "NOT_FOUND"          // entity absent or not owned by caller
	KindConflict          Kind = "CONFLICT"           // duplicate enrollment, capacity exceeded
	KindInvalidTransition Kind = "INVALID_TRANSITION" // illegal status change
	KindValidation        Kind = "VALIDATION"         // out-of-range progress/grade, missing prerequisites
	KindDependency        Kind = "DEPENDENCY"         // store unavailable or transaction aborted
)

// Error is the typed result every service operation fails with. Raw store
// errors never cross the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func InvalidTransition(message string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: message}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Dependency(message string, cause error) *Error {
	return &Error{Kind: KindDependency, Message: message, Err: cause}
}

// HTTPStatus maps an error to the conventional HTTP status code. Unknown
// errors map to 500.
func HTTPStatus(err error) int {
	var svcErr *Error
	if !errors.As(err, &svcErr) {
		return fiber.StatusInternalServerError
	}
	switch svcErr.Kind {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict, KindInvalidTransition:
		return fiber.StatusConflict
	case KindValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// Message returns the human-readable part of a service error, or a generic
// message for anything unexpected.
func Message(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Something went wrong!"
}
