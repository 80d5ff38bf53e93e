package portal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/atlasbahamas/portal-client/internal/metrics"
)

// sessionCache is the per-client cell holding at most one session snapshot
// plus a loaded flag. The zero value is an unloaded, empty cache.
type sessionCache struct {
	mu      sync.Mutex
	session *Session
	loaded  bool
}

// snapshot returns the cached session and whether the cache is loaded.
func (sc *sessionCache) snapshot() (*Session, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.session, sc.loaded
}

// replace swaps in the next session wholesale and marks the cache loaded.
// A snapshot carrying neither a role nor any identity is treated as absent.
func (sc *sessionCache) replace(next *Session) *Session {
	if next != nil && next.Role == "" && next.Username == "" && next.UserID == 0 {
		next = nil
	}
	sc.mu.Lock()
	sc.session = next
	sc.loaded = true
	sc.mu.Unlock()
	return next
}

// invalidate empties the cache and marks it unloaded, so the next read
// probes again.
func (sc *sessionCache) invalidate() {
	sc.mu.Lock()
	sc.session = nil
	sc.loaded = false
	sc.mu.Unlock()
}

type sessionEnvelope struct {
	Authenticated bool     `json:"authenticated"`
	Session       *Session `json:"session"`
}

// GetSession returns the current session, probing the backend only when the
// cache is unloaded or force is true. Probe failures degrade to "logged
// out" rather than surfacing an error, so a transient network blip shows a
// login prompt instead of crashing dependent callers.
func (c *Client) GetSession(ctx context.Context, force bool) *Session {
	if session, loaded := c.session.snapshot(); loaded && !force {
		return session
	}
	return c.probeSession(ctx, "get_session")
}

// probeSession performs the session probe and replaces the cache according
// to the response's authenticated flag. It also refreshes the CSRF token,
// which rides along on every probe envelope.
func (c *Client) probeSession(ctx context.Context, trigger string) *Session {
	metrics.SessionProbesTotal.WithLabelValues(trigger).Inc()

	res := c.request(ctx, "/api/session", requestOptions{method: http.MethodGet})
	if !res.OK {
		c.session.invalidate()
		return nil
	}

	var env sessionEnvelope
	_ = json.Unmarshal(res.Body, &env)
	if env.Authenticated && env.Session != nil {
		return c.session.replace(env.Session)
	}
	c.session.replace(nil)
	return nil
}

// SetSession unconditionally replaces the cached session (nil clears it),
// marks the cache loaded, and fires the auth-change broadcast. It returns
// the value actually cached, which may be nil when the snapshot carried no
// usable identity.
func (c *Client) SetSession(session *Session) *Session {
	next := c.session.replace(session)
	c.signal.notify(c.log)
	return next
}

// ClearSession is SetSession(nil).
func (c *Client) ClearSession() {
	c.session.replace(nil)
	c.signal.notify(c.log)
}
