// Package apperr defines the closed error taxonomy surfaced by the
// repository, session, profile and security components. Errors from the
// document store and identity layer are translated into one of these kinds
// at the boundary so the rest of the code never branches on driver errors.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidCredentials
	KindWrongPassword
	KindEmailInUse
	KindWeakPassword
	KindInvalidEmail
	KindNotFound
	KindNetwork
	KindPersistence
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindWrongPassword:
		return "wrong_password"
	case KindEmailInUse:
		return "email_in_use"
	case KindWeakPassword:
		return "weak_password"
	case KindInvalidEmail:
		return "invalid_email"
	case KindNotFound:
		return "not_found"
	case KindNetwork:
		return "network"
	case KindPersistence:
		return "persistence"
	case KindConfig:
		return "config"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind    Kind
	Message string
	// Fields lists the offending input fields for KindValidation.
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation builds a KindValidation error naming the fields that failed.
func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// KindOf extracts the Kind from anywhere in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// FieldsOf returns the offending fields of a validation error, if any.
func FieldsOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
