// Package portal is the client SDK for the Atlas Bahamas rental-portal API.
//
// A Client owns the current session snapshot and the rotating CSRF token for
// one logical user, routes every call through a single request layer that
// classifies failures uniformly, and exposes typed operations for each
// endpoint. Clients are safe for concurrent use; tests should construct an
// isolated Client per case rather than share one.
package portal

import (
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Client mediates all authenticated interaction with the portal backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        zerolog.Logger
	validate   *validator.Validate

	session sessionCache
	csrf    csrfGuard
	signal  authSignal
}

// ClientOptions configures Client construction.
type ClientOptions struct {
	// HTTPClient overrides the transport. The portal authenticates with a
	// session cookie, so a replacement client should carry a cookie jar.
	HTTPClient *http.Client
	// Logger receives transport-level diagnostics. Defaults to a no-op.
	Logger *zerolog.Logger
}

// ClientOption mutates ClientOptions.
type ClientOption func(*ClientOptions)

// WithHTTPClient overrides the HTTP client used for API calls.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(opts *ClientOptions) {
		opts.HTTPClient = client
	}
}

// WithLogger attaches a zerolog logger to the client.
func WithLogger(log zerolog.Logger) ClientOption {
	return func(opts *ClientOptions) {
		opts.Logger = &log
	}
}

// NewClient creates a client for the portal API at baseURL. When no HTTP
// client is supplied, one with an in-memory cookie jar is created so the
// backend's session cookie survives across calls.
func NewClient(baseURL string, optFns ...ClientOption) *Client {
	opts := ClientOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		jar, _ := cookiejar.New(nil)
		opts.HTTPClient = &http.Client{Jar: jar}
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Client{
		httpClient: opts.HTTPClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
		validate:   validator.New(),
	}
}

// GetCSRFToken returns the currently cached anti-forgery token, or "" when
// none has been delivered yet.
func (c *Client) GetCSRFToken() string {
	return c.csrf.current()
}

// OnAuthChange subscribes fn to session-change broadcasts. The returned
// function removes the subscription. Delivery is best-effort: a panicking
// subscriber never aborts the operation that changed the session.
func (c *Client) OnAuthChange(fn func()) (unsubscribe func()) {
	return c.signal.subscribe(fn)
}
