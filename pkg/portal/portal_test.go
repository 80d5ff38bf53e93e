package portal

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newTestClient spins up a throwaway backend and points a fresh client at
// it. Each test gets an isolated client, so no state leaks between cases.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
