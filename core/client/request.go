package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one backend call. The pipeline never modifies it, so the same
// Request can be dispatched again after a refresh.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Header      http.Header
	Body        []byte
	ContentType string
}

// NewRequest creates a request without a body.
func NewRequest(method, path string) *Request {
	return &Request{Method: method, Path: path}
}

// NewJSONRequest creates a request with v encoded as a JSON body.
// A nil v produces a request without a body.
func NewJSONRequest(method, path string, v any) (*Request, error) {
	r := NewRequest(method, path)
	if v == nil {
		return r, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode body: %w", ErrInvalidRequest, err)
	}
	r.Body = body
	r.ContentType = "application/json"
	return r, nil
}

func (r *Request) validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil request", ErrInvalidRequest)
	}
	if r.Method == "" {
		return fmt.Errorf("%w: empty method", ErrInvalidRequest)
	}
	return nil
}
