// package testing contains shared testing utilities
package testing

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// MockRoundTripper returns a single canned HTTP response (or error) for every request.
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// RoundTripFunc adapts a function into an [http.RoundTripper], letting tests
// switch responses on the request's host, path or body.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// RequestRecorder wraps a RoundTripper and records every request it sees.
type RequestRecorder struct {
	mu       sync.Mutex
	next     http.RoundTripper
	Requests []*http.Request
	Bodies   []string
}

func NewRequestRecorder(next http.RoundTripper) *RequestRecorder {
	return &RequestRecorder{next: next}
}

func (r *RequestRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	var body string
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(strings.NewReader(string(data)))
		body = string(data)
	}

	r.mu.Lock()
	r.Requests = append(r.Requests, req)
	r.Bodies = append(r.Bodies, body)
	r.mu.Unlock()

	return r.next.RoundTrip(req)
}

// Count reports how many requests have been recorded.
func (r *RequestRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Requests)
}

// JSONResponse builds an [http.Response] with the given status code and body.
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// FCloser simulates a failure when reading a response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}
