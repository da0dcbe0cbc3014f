package auth

import (
	"errors"
	"fmt"
)

// Kind categorizes an authentication failure independently of the
// provider that produced it. Adapters map provider-specific error codes
// into exactly one Kind; anything unrecognized becomes KindUnknown with
// the original message preserved.
type Kind string

const (
	KindInvalidCredentials      Kind = "INVALID_CREDENTIALS"
	KindUserNotFound            Kind = "USER_NOT_FOUND"
	KindUserAlreadyExists       Kind = "USER_ALREADY_EXISTS"
	KindPasswordTooWeak         Kind = "PASSWORD_TOO_WEAK"
	KindEmailNotVerified        Kind = "EMAIL_NOT_VERIFIED"
	KindInvalidVerificationCode Kind = "INVALID_VERIFICATION_CODE"
	KindCodeExpired             Kind = "CODE_EXPIRED"
	KindTooManyAttempts         Kind = "TOO_MANY_ATTEMPTS"
	KindInvalidToken            Kind = "INVALID_TOKEN"
	KindTokenExpired            Kind = "TOKEN_EXPIRED"
	KindPermissionDenied        Kind = "PERMISSION_DENIED"
	KindNetworkError            Kind = "NETWORK_ERROR"
	KindUnknown                 Kind = "UNKNOWN"
)

// Error is a standardized authentication error carrying a Kind, a
// human-readable message suitable for UI binding, and the underlying
// provider error when available.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError creates an Error preserving the underlying cause.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// IsKind reports whether err is (or wraps) an auth Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}

// KindOf returns the Kind from err, or KindUnknown if err is not an
// auth Error. A nil err returns the empty Kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}

// ChallengeError marks a sign-in halted by the provider pending an
// extra verification step (MFA, forced password change). It is a
// non-terminal outcome, not a fault: the session stays unauthenticated
// until the challenge is completed. Adapters attach it as the cause of
// the returned Error so transports can tell it apart from failures.
type ChallengeError struct {
	Name string
}

func (e *ChallengeError) Error() string {
	return "Challenge required: " + e.Name
}

// MessageOf returns the UI-facing message from err. Non-auth errors
// fall back to their Error() string.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
