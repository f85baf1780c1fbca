// Package testkit provides test doubles for the transport layer.
//
// MockTransport implements http.RoundTripper and answers outgoing requests
// from scripted stubs instead of the network. Install it on the shared
// client before the test:
//
//	mt := testkit.NewMockTransport(
//	    testkit.Stub{Method: "GET", URL: "/budgets", Status: 200, Body: `{"data":[],"meta":{}}`},
//	)
//	httpclient.DefaultClient.Transport = mt
//	defer httpclient.ResetTransport()
package testkit

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Stub describes one scripted response. URL is matched as a substring of the
// full request URL (so relative API paths work regardless of base URL);
// empty URL matches everything. Method, when set, must match exactly.
// MaxCalls limits how often the stub answers (0 = unlimited) — register two
// stubs for the same URL to script a before/after sequence.
type Stub struct {
	Method   string
	URL      string
	Status   int
	Body     string
	Err      error // returned instead of a response, simulating network failure
	MaxCalls int
}

// Call records one intercepted request.
type Call struct {
	Method string
	URL    string
	Body   string
}

type stubEntry struct {
	stub  Stub
	calls int
}

// MockTransport matches outgoing requests against stubs in registration
// order and returns synthetic responses.
type MockTransport struct {
	mu     sync.Mutex
	stubs  []*stubEntry
	calls  []Call
	strict bool
}

// NewMockTransport builds a MockTransport answering with the given stubs.
func NewMockTransport(stubs ...Stub) *MockTransport {
	mt := &MockTransport{}
	for _, s := range stubs {
		mt.stubs = append(mt.stubs, &stubEntry{stub: s})
	}
	return mt
}

// Strict makes unmatched requests an error instead of a synthetic 404.
func (mt *MockTransport) Strict() *MockTransport {
	mt.strict = true
	return mt
}

// Add registers another stub after construction.
func (mt *MockTransport) Add(s Stub) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.stubs = append(mt.stubs, &stubEntry{stub: s})
}

// RoundTrip intercepts the outgoing request and returns a synthetic response.
func (mt *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var body string
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		req.Body.Close()
		body = string(raw)
	}
	mt.calls = append(mt.calls, Call{Method: req.Method, URL: req.URL.String(), Body: body})

	for _, e := range mt.stubs {
		if e.stub.MaxCalls > 0 && e.calls >= e.stub.MaxCalls {
			continue
		}
		if e.stub.Method != "" && e.stub.Method != req.Method {
			continue
		}
		if e.stub.URL != "" && !strings.Contains(req.URL.String(), e.stub.URL) {
			continue
		}

		e.calls++
		if e.stub.Err != nil {
			return nil, e.stub.Err
		}
		return buildResponse(req, e.stub), nil
	}

	if mt.strict {
		return nil, fmt.Errorf("testkit: unexpected outgoing HTTP call %s %s — no matching stub", req.Method, req.URL)
	}

	return &http.Response{
		StatusCode: http.StatusNotFound,
		Header:     jsonHeader(),
		Body:       io.NopCloser(strings.NewReader(`{"error":"no stub configured"}`)),
		Request:    req,
	}, nil
}

// Calls returns every intercepted request in order.
func (mt *MockTransport) Calls() []Call {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	out := make([]Call, len(mt.calls))
	copy(out, mt.calls)
	return out
}

// CallCount reports how many intercepted requests contained urlPart.
func (mt *MockTransport) CallCount(urlPart string) int {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	n := 0
	for _, c := range mt.calls {
		if strings.Contains(c.URL, urlPart) {
			n++
		}
	}
	return n
}

// AssertAllCalled returns an error per stub that was never triggered.
func (mt *MockTransport) AssertAllCalled() []error {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	var errs []error
	for _, e := range mt.stubs {
		if e.calls == 0 {
			errs = append(errs, fmt.Errorf("testkit: stub %s %q was never called", e.stub.Method, e.stub.URL))
		}
	}
	return errs
}

func buildResponse(req *http.Request, s Stub) *http.Response {
	code := s.Status
	if code == 0 {
		code = http.StatusOK
	}
	return &http.Response{
		StatusCode: code,
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		Header:     jsonHeader(),
		Body:       io.NopCloser(bytes.NewReader([]byte(s.Body))),
		Request:    req,
	}
}

func jsonHeader() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	return h
}
