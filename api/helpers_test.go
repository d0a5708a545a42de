package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/SinArtur/Sstu-DB/api"
	"github.com/SinArtur/Sstu-DB/core/client"
	"github.com/SinArtur/Sstu-DB/core/session"
)

// recorded is what the fake backend saw for one request.
type recorded struct {
	Method string
	Path   string
	Query  string
	Body   []byte
	Header http.Header
}

// newAPI starts a fake backend answering through handler and returns services
// bound to it. Requests are sent to the calls channel.
func newAPI(t *testing.T, handler http.HandlerFunc) (*api.API, *session.Manager, <-chan recorded) {
	t.Helper()

	calls := make(chan recorded, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls <- recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
			Header: r.Header.Clone(),
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	mgr := session.NewManager(nil)
	c, err := client.New(srv.URL+"/api", mgr)
	require.NoError(t, err)
	return api.New(c), mgr, calls
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func loggedIn(mgr *session.Manager) {
	mgr.SetAuth(context.Background(), session.User{ID: 1, Email: "a@b.com", Username: "alice"}, "tok1", "ref1")
}

func decodeBody(t *testing.T, rec recorded) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(rec.Body, &m))
	return m
}
