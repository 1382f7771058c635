// Package testing holds the doubles shared by acms tests: [FakeStore] in place
// of the SQL and hosted backends, writers that break CLI output, and a
// transport that stands in for the PostgREST endpoint.
package testing

import (
	"errors"
	"io"
	"net/http"
	"sync"
)

var (
	ErrWriteFailed = errors.New("write failed")
	ErrReadFailed  = errors.New("read failed")
)

// FailingWriter passes the first Allow writes through to Target and fails
// every write after that. The zero value fails immediately.
type FailingWriter struct {
	Allow  int
	Target io.Writer

	writes int
}

// FailAfter returns a writer that accepts n writes into target.
func FailAfter(n int, target io.Writer) *FailingWriter {
	return &FailingWriter{Allow: n, Target: target}
}

func (w *FailingWriter) Write(p []byte) (int, error) {
	if w.writes >= w.Allow || w.Target == nil {
		return 0, ErrWriteFailed
	}
	w.writes++
	return w.Target.Write(p)
}

// StubTransport answers every request with Response and Err, keeping the
// requests so tests can check what the PostgREST client sent.
type StubTransport struct {
	Response *http.Response
	Err      error

	mu       sync.Mutex
	requests []*http.Request
}

func (s *StubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()
	return s.Response, s.Err
}

// Requests returns the requests seen so far.
func (s *StubTransport) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

// BrokenBody is a response body whose reads fail.
type BrokenBody struct{}

func (BrokenBody) Read([]byte) (int, error) { return 0, ErrReadFailed }

func (BrokenBody) Close() error { return nil }
