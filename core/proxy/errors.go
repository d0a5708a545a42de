package proxy

import "errors"

var (
	ErrInvalidTarget   = errors.New("invalid target url")
	ErrHostNotAllowed  = errors.New("target host is not allowed")
	ErrUpstream        = errors.New("upstream request failed")
	ErrTooManyRedirect = errors.New("too many redirects")
)
