// Package apperrors carries an explicit error kind from the point of failure
// up to the HTTP layer, so nobody has to compare error strings.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation       Kind = "validation"
	KindSchemaValidation Kind = "schema_validation"
	KindQuotaExceeded    Kind = "quota_exceeded"
	KindDuplicateKey     Kind = "duplicate_key"
	KindNotFoundRelated  Kind = "not_found_related"
	KindInternal         Kind = "internal"
)

type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
// for anything unclassified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage is the text safe to hand back to a caller. Internal errors
// never leak their cause.
func PublicMessage(err error) string {
	var appErr *Error
	if !errors.As(err, &appErr) || appErr.Kind == KindInternal {
		return "internal server error"
	}
	return appErr.Message
}

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func SchemaValidation(err error) *Error {
	return &Error{Kind: KindSchemaValidation, Message: "document failed validation", Err: err}
}

func QuotaExceeded(format string, args ...any) *Error {
	return &Error{Kind: KindQuotaExceeded, Message: fmt.Sprintf(format, args...)}
}

func DuplicateKey(field string, err error) *Error {
	msg := "duplicate value"
	if field != "" {
		msg = fmt.Sprintf("a project with this %s already exists", field)
	}
	return &Error{Kind: KindDuplicateKey, Field: field, Message: msg, Err: err}
}

func NotFoundRelated(field, format string, args ...any) *Error {
	return &Error{Kind: KindNotFoundRelated, Field: field, Message: fmt.Sprintf(format, args...)}
}

func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}
