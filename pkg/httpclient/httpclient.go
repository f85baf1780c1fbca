// Package httpclient is the authenticated request pipeline for the Gear Box
// API: a fluent builder over net/http that serializes JSON bodies, attaches
// the bearer token, normalizes error responses and broadcasts session expiry.
//
// Usage:
//
//	resp, err := httpclient.Get("/clients").
//	    Bearer(token).
//	    Query("page", "2").
//	    WithContext(ctx).
//	    Send()
//
//	var page models.Page[models.Client]
//	err = resp.Decode(&page)
//
// A 401 on any request fires event.Unauthorized so the session store can
// tear itself down; the transport never imports session logic, which keeps
// it usable before a session exists (login). Login suppresses the broadcast
// so bad credentials are not mistaken for an expired session.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gearboxgarage/gearbox/config"
	"github.com/gearboxgarage/gearbox/pkg/event"
	"github.com/gearboxgarage/gearbox/pkg/logger"
)

// defaultTransport is the connection-pooled transport used in production.
// Tests swap DefaultClient.Transport to intercept calls.
var defaultTransport = &http.Transport{
	MaxIdleConns:        200,
	MaxIdleConnsPerHost: 100,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared HTTP client used by all outgoing requests.
//
//	httpclient.DefaultClient.Transport = myMockTransport
//	defer httpclient.ResetTransport()
var DefaultClient = &http.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
// Call via defer after injecting a test transport.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// ─── Errors ───────────────────────────────────────────────────────────────────

// APIError is a non-2xx response from the server. Message is resolved from
// the body's "error" field, then "message", then a generic fallback, so the
// UI always has something displayable.
type APIError struct {
	Status  int
	Payload map[string]interface{}
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("httpclient: %s (status %d)", e.Message, e.Status)
}

// NetworkError means the request never produced an HTTP response: DNS
// failure, refused connection, dropped socket. The UI shows "check your
// connection" for these instead of a server message.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("httpclient: %s %s: network failure: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// IsNetwork reports whether err is a transport-level failure (no response).
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// StatusOf returns the HTTP status carried by err, or 0 for network and
// unknown errors.
func StatusOf(err error) int {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Status
	}
	return 0
}

// ─── Request ──────────────────────────────────────────────────────────────────

// Request is a fluent HTTP request builder. Paths are resolved against the
// configured API base URL unless BaseURL overrides it (FIPE lookups do).
type Request struct {
	method      string
	path        string
	base        string
	headers     map[string]string
	query       url.Values
	body        interface{}
	token       string
	ctx         context.Context
	noBroadcast bool
}

// Get starts a GET request for the given API path.
func Get(path string) *Request { return newRequest(http.MethodGet, path) }

// Post starts a POST request.
func Post(path string) *Request { return newRequest(http.MethodPost, path) }

// Put starts a PUT request.
func Put(path string) *Request { return newRequest(http.MethodPut, path) }

// Patch starts a PATCH request.
func Patch(path string) *Request { return newRequest(http.MethodPatch, path) }

// Delete starts a DELETE request.
func Delete(path string) *Request { return newRequest(http.MethodDelete, path) }

func newRequest(method, path string) *Request {
	return &Request{
		method:  method,
		path:    path,
		headers: map[string]string{"Accept": "application/json"},
		query:   url.Values{},
		ctx:     context.Background(),
	}
}

// BaseURL overrides the configured API base for this request.
func (r *Request) BaseURL(base string) *Request {
	r.base = strings.TrimRight(base, "/")
	return r
}

// Header sets a single header on the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Query adds a query-string parameter. Empty values are skipped so the
// query string is built only from parameters that are actually set.
func (r *Request) Query(key, value string) *Request {
	if value != "" {
		r.query.Set(key, value)
	}
	return r
}

// Bearer sets the Authorization: Bearer <token> header.
func (r *Request) Bearer(token string) *Request {
	r.token = token
	return r
}

// Body sets the request body. v is marshalled to JSON automatically with
// Content-Type: application/json; pass a string or []byte to send raw
// bodies unmodified.
func (r *Request) Body(v interface{}) *Request {
	r.body = v
	return r
}

// WithContext sets the context used for cancellation.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	return r
}

// SuppressUnauthorized disables the event.Unauthorized broadcast for this
// request. Login uses it: a 401 there means bad credentials, not an
// expired session.
func (r *Request) SuppressUnauthorized() *Request {
	r.noBroadcast = true
	return r
}

// ─── Send ─────────────────────────────────────────────────────────────────────

// Send executes the request. On a 2xx response it returns the Response with
// the parsed body; otherwise it returns a *APIError (HTTP failure) or a
// *NetworkError (no response). Context cancellation surfaces as the
// context's error, unwrapped.
func (r *Request) Send() (*Response, error) {
	body, contentType, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	fullURL := r.fullURL()

	req, err := http.NewRequestWithContext(r.ctx, r.method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}

	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := DefaultClient.Do(req)
	if err != nil {
		if ctxErr := r.ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &NetworkError{Method: r.method, URL: fullURL, Err: err}
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &NetworkError{Method: r.method, URL: fullURL, Err: err}
	}

	payload := parseBody(resp, raw)

	logger.Debug("api request",
		"method", r.method, "url", fullURL, "status", resp.StatusCode,
		"duration", time.Since(start), "request_id", requestID)

	if resp.StatusCode == http.StatusUnauthorized && !r.noBroadcast {
		event.Fire(event.Unauthorized, r.path)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Payload: payload,
			Message: resolveMessage(payload, resp.StatusCode),
		}
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

func (r *Request) fullURL() string {
	base := r.base
	if base == "" {
		base = config.APIBaseURL()
	}
	u := base + "/" + strings.TrimLeft(r.path, "/")
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return strings.NewReader(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// parseBody decodes the response body defensively. Empty bodies (204),
// non-JSON content types and malformed JSON all yield nil rather than an
// error: a broken body must never mask the real HTTP status.
func parseBody(resp *http.Response, raw []byte) map[string]interface{} {
	if len(raw) == 0 || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	ct := resp.Header.Get("Content-Type")
	if ct != "" && !strings.Contains(ct, "json") {
		return nil
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	return payload
}

func resolveMessage(payload map[string]interface{}, status int) string {
	if s, ok := payload["error"].(string); ok && s != "" {
		return s
	}
	if s, ok := payload["message"].(string); ok && s != "" {
		return s
	}
	return fmt.Sprintf("request failed with status %d", status)
}

// ─── Response ─────────────────────────────────────────────────────────────────

// Response wraps a successful (2xx) HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Raw        []byte
}

// Decode unmarshals the response body into dest. An empty body leaves dest
// untouched, mirroring the defensive parse on the error path.
func (r *Response) Decode(dest interface{}) error {
	if len(r.Raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("httpclient: decode JSON: %w", err)
	}
	return nil
}
