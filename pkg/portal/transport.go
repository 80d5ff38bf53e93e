package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/atlasbahamas/portal-client/internal/metrics"
)

// unreachableMessage is surfaced whenever no response reached the client at
// all, a user-actionable category distinct from server-returned errors.
const unreachableMessage = "Cannot reach Atlas API. Start the backend server and refresh."

// Result is the uniform outcome of one API call: either OK with the raw
// response body, or a failure with the transport status (0 when no response
// was received) and an error message.
type Result struct {
	OK     bool
	Status int
	Error  string
	Body   []byte
}

// envelope is the structured wrapper every backend response is expected to
// follow. OK is a pointer so "absent" and "explicitly false" stay distinct.
type envelope struct {
	OK        *bool  `json:"ok"`
	Error     string `json:"error"`
	CSRFToken string `json:"csrfToken"`
}

type requestOptions struct {
	method  string
	body    any
	headers map[string]string
	retried bool
}

// request is the single choke point for all network traffic. It applies the
// CSRF guard's pre-request policy, performs the transport call, harvests
// rotated tokens from the response envelope, and recovers from a CSRF
// rejection exactly once by forcing a session probe and replaying.
func (c *Client) request(ctx context.Context, path string, opts requestOptions) Result {
	method := strings.ToUpper(strings.TrimSpace(opts.method))
	if method == "" {
		method = http.MethodGet
	}

	// A write with no cached token would be rejected outright; probing first
	// is expected to deliver a fresh token alongside the session snapshot.
	if isWriteMethod(method) && !isCSRFExempt(path) && c.csrf.current() == "" {
		c.probeSession(ctx, "missing_token")
	}

	start := time.Now()
	result := c.doOnce(ctx, method, path, opts)

	if !result.OK && !opts.retried && !isCSRFExempt(path) && isCSRFRejection(result.Status, result.Error) {
		metrics.CSRFRetriesTotal.Inc()
		c.log.Debug().Str("path", path).Msg("csrf rejected, refreshing token and replaying once")
		c.probeSession(ctx, "csrf_retry")
		opts.retried = true
		result = c.doOnce(ctx, method, path, opts)
	}

	labelPath := metrics.SanitizePath(path)
	metrics.RequestDuration.WithLabelValues(labelPath).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if !result.OK {
		outcome = "error"
		if result.Status == 0 {
			outcome = "unreachable"
		}
	}
	metrics.RequestsTotal.WithLabelValues(labelPath, method, outcome).Inc()

	return result
}

// doOnce performs a single transport round-trip and parses the envelope.
func (c *Client) doOnce(ctx context.Context, method, path string, opts requestOptions) Result {
	var bodyReader io.Reader
	if opts.body != nil {
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return Result{Status: 0, Error: fmt.Sprintf("encode request body: %v", err)}
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return Result{Status: 0, Error: fmt.Sprintf("build request: %v", err)}
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.headers {
		req.Header.Set(key, value)
	}
	// Attach the token when present; absence is tolerated and surfaces as a
	// normal server rejection.
	if isWriteMethod(method) && !isCSRFExempt(path) {
		if token := c.csrf.current(); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("api unreachable")
		return Result{Status: 0, Error: unreachableMessage}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	// A body that is not valid JSON is treated as an empty envelope rather
	// than propagated as a failure of its own.
	var env envelope
	_ = json.Unmarshal(raw, &env)

	if env.CSRFToken != "" {
		c.csrf.store(env.CSRFToken)
	}

	statusOK := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !statusOK || (env.OK != nil && !*env.OK) {
		msg := env.Error
		if msg == "" {
			msg = fmt.Sprintf("Request failed (%d)", resp.StatusCode)
		}
		return Result{Status: resp.StatusCode, Error: msg, Body: raw}
	}

	return Result{OK: true, Status: resp.StatusCode, Body: raw}
}

// apiError converts a failed Result into the error returned to callers.
func apiError(res Result) *APIError {
	return &APIError{Status: res.Status, Message: res.Error}
}
