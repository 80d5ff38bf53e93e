package portal

import (
	"net/http"
	"strings"
	"sync"
)

// csrfHeader is the fixed request header carrying the anti-forgery token.
const csrfHeader = "X-CSRF-Token"

// csrfExemptPaths are the endpoints that must succeed without a pre-existing
// token: no session exists yet when they are called.
var csrfExemptPaths = map[string]struct{}{
	"/api/login":    {},
	"/api/register": {},
}

// csrfGuard holds the rotating anti-forgery token for one client. The zero
// value is ready to use (no token cached).
type csrfGuard struct {
	mu    sync.Mutex
	token string
}

func (g *csrfGuard) current() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// store caches a token delivered by a response envelope, overwriting any
// prior value. Empty tokens are ignored.
func (g *csrfGuard) store(token string) {
	if token == "" {
		return
	}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func isCSRFExempt(path string) bool {
	_, ok := csrfExemptPaths[path]
	return ok
}

// isCSRFRejection reports whether a failed result is the server turning a
// write away for a CSRF reason, which is the only failure the request layer
// recovers from automatically.
func isCSRFRejection(status int, message string) bool {
	return status == http.StatusBadRequest && strings.Contains(strings.ToLower(message), "csrf")
}
