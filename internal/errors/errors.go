// Package errors defines the typed domain errors returned by the wallet core.
// Callers translate them into their own response shape.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies a DomainError.
type Kind string

const (
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindInsufficientFunds Kind = "insufficient_funds"
	KindInvalidState      Kind = "invalid_state"
	KindConflict          Kind = "conflict"
)

// DomainError is a structured error carrying a kind, a stable code and a
// human readable message.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Err }

// Is matches on Code when the target has one, otherwise on Kind.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

// Kind sentinels. errors.Is(err, ErrNotFound) holds for every not-found error.
var (
	ErrValidation        = &DomainError{Kind: KindValidation, Message: "validation failed"}
	ErrNotFound          = &DomainError{Kind: KindNotFound, Message: "not found"}
	ErrInsufficientFunds = &DomainError{Kind: KindInsufficientFunds, Message: "insufficient funds"}
	ErrInvalidState      = &DomainError{Kind: KindInvalidState, Message: "invalid state"}
	ErrConflict          = &DomainError{Kind: KindConflict, Message: "concurrent modification"}
)

func newError(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

func Validation(code, message string) *DomainError {
	return newError(KindValidation, code, message)
}

func NotFound(code, message string) *DomainError {
	return newError(KindNotFound, code, message)
}

func InsufficientFunds(code, message string) *DomainError {
	return newError(KindInsufficientFunds, code, message)
}

func InvalidState(code, message string) *DomainError {
	return newError(KindInvalidState, code, message)
}

// Conflict wraps the last store error seen before retries ran out.
func Conflict(code, message string, err error) *DomainError {
	e := newError(KindConflict, code, message)
	e.Err = err
	return e
}

// KindOf reports the Kind of the first DomainError in err's chain.
func KindOf(err error) (Kind, bool) {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind, true
	}
	return "", false
}

// Is and As forward to the standard library so callers need a single import.
func Is(err, target error) bool { return stderrors.Is(err, target) }

func As(err error, target any) bool { return stderrors.As(err, target) }

func New(text string) error { return stderrors.New(text) }
