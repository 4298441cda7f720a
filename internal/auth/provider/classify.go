package provider

import (
	"context"
	"errors"
	"net"
	"net/http"

	"golang.org/x/oauth2"

	"social-login/internal/auth"
)

// ErrMissingClaims is returned when a provider response lacks the
// fields needed to build an identity.
var ErrMissingClaims = errors.New("provider response missing required fields")

// Classify maps an error from a provider round trip to a failure reason.
func Classify(err error) auth.FailureReason {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return auth.ReasonTimeout
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return classifyRetrieveError(retrieveErr)
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return auth.ReasonProviderError
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return auth.ReasonTimeout
		}
		return auth.ReasonNetwork
	}

	return auth.ReasonProviderError
}

func classifyRetrieveError(err *oauth2.RetrieveError) auth.FailureReason {
	switch err.ErrorCode {
	case "access_denied":
		return auth.ReasonDenied
	case "invalid_grant", "bad_verification_code", "invalid_request":
		return auth.ReasonInvalidCode
	case "":
	default:
		return auth.ReasonProviderError
	}

	// Providers that report errors without an RFC 6749 error code.
	if err.Response != nil {
		switch err.Response.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized:
			return auth.ReasonInvalidCode
		}
	}
	return auth.ReasonProviderError
}

// CallbackErrorReason maps the error query parameter of a callback.
func CallbackErrorReason(code string) auth.FailureReason {
	if code == "access_denied" {
		return auth.ReasonDenied
	}
	return auth.ReasonProviderError
}
