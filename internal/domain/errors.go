package domain

import (
	"errors"
	"fmt"
)

// ErrorKind discriminates ledger error categories. Every caller crossing the
// core boundary is expected to switch on the kind rather than on message text.
type ErrorKind string

const (
	// KindValidation marks a request the caller can correct and retry:
	// an unbalanced entry, a dual-sided or negative line.
	KindValidation ErrorKind = "validation"

	// KindNotFound marks a missing record looked up by identifier.
	KindNotFound ErrorKind = "not_found"

	// KindConfiguration marks a missing well-known account code. This is a
	// deployment problem (chart of accounts not provisioned), not a business
	// error, and should alarm rather than surface as a client fault.
	KindConfiguration ErrorKind = "configuration"
)

// Error is the tagged error carried across the ledger core boundary.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidation builds a validation-kind error.
func NewValidation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// NewNotFound builds a not-found-kind error.
func NewNotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

// NewConfiguration builds a configuration-kind error wrapping its cause.
func NewConfiguration(msg string, err error) *Error {
	return &Error{Kind: KindConfiguration, Msg: msg, Err: err}
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == kind
	}
	return false
}

var (
	// ErrAccountNotFound is returned for lookups of unknown accounts.
	ErrAccountNotFound = NewNotFound("account not found")

	// ErrEntryNotFound is returned for lookups of unknown entries.
	ErrEntryNotFound = NewNotFound("entry not found")
)
