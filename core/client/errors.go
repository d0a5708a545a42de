package client

import "errors"

var (
	// ErrInvalidBaseURL is returned by New when the base URL cannot be parsed.
	ErrInvalidBaseURL = errors.New("invalid base url")
	// ErrNoSession is returned by New when no session manager is given.
	ErrNoSession = errors.New("session manager is required")
	// ErrInvalidRequest is returned when a request cannot be built.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrDecodeResponse is returned when a response body does not match the target type.
	ErrDecodeResponse = errors.New("failed to decode response")

	// ErrTimeout is returned when an exchange exceeds the configured timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrTransport is returned when the request could not be delivered or the response read.
	ErrTransport = errors.New("transport failure")

	// ErrSessionExpired is returned when a 401 could not be recovered by a token refresh.
	// The session has been cleared when a caller sees it.
	ErrSessionExpired = errors.New("session expired")
	// ErrNoRefreshToken is joined with ErrSessionExpired when there was nothing to refresh with.
	ErrNoRefreshToken = errors.New("no refresh token")
	// ErrRefreshFailed is joined with ErrSessionExpired when the refresh call was rejected or failed.
	ErrRefreshFailed = errors.New("token refresh failed")

	// Status classes matched by *APIError.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrServer       = errors.New("server error")
)
