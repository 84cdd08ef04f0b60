package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure a cosmetic operation can report.
// Callers branch on the kind, never on message text.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNotInitialized
	KindInvalidID
	KindNotFoundInDatabase
	KindNotOwned
	KindNotUnlockable
	KindStorageFailure
	KindUnlockProviderFailure
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	ErrMsgNotInitialized        = "service not initialized"
	ErrMsgInvalidID             = "invalid id"
	ErrMsgNotFoundInDatabase    = "not found in catalog"
	ErrMsgNotOwned              = "item not owned"
	ErrMsgNotUnlockable         = "item not unlockable"
	ErrMsgStorageFailure        = "storage failure"
	ErrMsgUnlockProviderFailure = "unlock provider failure"

	ErrMsgInvalidInput = "invalid input"
)

// Sentinel errors, one per kind. errors.Is(err, ErrNotOwned) matches any
// *Error of kind KindNotOwned.
var (
	ErrNotInitialized        = errors.New(ErrMsgNotInitialized)
	ErrInvalidID             = errors.New(ErrMsgInvalidID)
	ErrNotFoundInDatabase    = errors.New(ErrMsgNotFoundInDatabase)
	ErrNotOwned              = errors.New(ErrMsgNotOwned)
	ErrNotUnlockable         = errors.New(ErrMsgNotUnlockable)
	ErrStorageFailure        = errors.New(ErrMsgStorageFailure)
	ErrUnlockProviderFailure = errors.New(ErrMsgUnlockProviderFailure)

	// ErrInvalidInput is used by parsers and loaders outside the service
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

var kindSentinels = map[ErrorKind]error{
	KindNotInitialized:        ErrNotInitialized,
	KindInvalidID:             ErrInvalidID,
	KindNotFoundInDatabase:    ErrNotFoundInDatabase,
	KindNotOwned:              ErrNotOwned,
	KindNotUnlockable:         ErrNotUnlockable,
	KindStorageFailure:        ErrStorageFailure,
	KindUnlockProviderFailure: ErrUnlockProviderFailure,
}

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotInitialized:
		return "not_initialized"
	case KindInvalidID:
		return "invalid_id"
	case KindNotFoundInDatabase:
		return "not_found_in_database"
	case KindNotOwned:
		return "not_owned"
	case KindNotUnlockable:
		return "not_unlockable"
	case KindStorageFailure:
		return "storage_failure"
	case KindUnlockProviderFailure:
		return "unlock_provider_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is the typed failure returned by cosmetic operations
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// NewError builds an *Error of the given kind
func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError builds an *Error of the given kind carrying cause
func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	base := e.Kind.String()
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		base = sentinel.Error()
	}
	if e.Message != "" {
		base = fmt.Sprintf("%s: %s", base, e.Message)
	}
	if e.Cause != nil {
		base = fmt.Sprintf("%s: %v", base, e.Cause)
	}
	return base
}

// Is matches the sentinel error for the kind
func (e *Error) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf extracts the kind from err. nil yields KindNone; errors that are not
// *Error but wrap a sentinel still resolve to its kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for kind, sentinel := range kindSentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindNone
}
