package auth

import (
	"errors"
	"fmt"
)

// ErrProviderNotConfigured is wrapped by UnsupportedProviderError when the
// provider is known but has no client registration.
var ErrProviderNotConfigured = errors.New("provider not configured")

// UnsupportedProviderError reports a provider name that cannot be used for login.
type UnsupportedProviderError struct {
	Name string
	Err  error
}

func (e *UnsupportedProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unsupported provider %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("unsupported provider %q", e.Name)
}

func (e *UnsupportedProviderError) Unwrap() error {
	return e.Err
}

// FailureReason classifies why a login attempt did not produce an identity.
type FailureReason string

const (
	ReasonDenied        FailureReason = "denied"
	ReasonInvalidCode   FailureReason = "invalid_code"
	ReasonInvalidState  FailureReason = "invalid_state"
	ReasonNetwork       FailureReason = "network"
	ReasonTimeout       FailureReason = "timeout"
	ReasonProviderError FailureReason = "provider_error"
)

// AuthFailure is the user-recoverable outcome of a failed login.
// The user may start a new login; nothing is retried automatically.
type AuthFailure struct {
	Provider Provider
	Reason   FailureReason
	Err      error
}

func (e *AuthFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s login failed (%s): %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s login failed (%s)", e.Provider, e.Reason)
}

func (e *AuthFailure) Unwrap() error {
	return e.Err
}

// SessionStoreError wraps an infrastructure failure of the session store.
type SessionStoreError struct {
	Op  string
	Err error
}

func (e *SessionStoreError) Error() string {
	return fmt.Sprintf("session store %s: %v", e.Op, e.Err)
}

func (e *SessionStoreError) Unwrap() error {
	return e.Err
}
