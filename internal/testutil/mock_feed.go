// Package testutil provides testing utilities for the item feed client.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// FeedResponse defines the behavior of the mock feed for one request.
type FeedResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockFeed is a configurable mock feed server for testing.
type MockFeed struct {
	server   *httptest.Server
	mu       sync.RWMutex
	response FeedResponse

	// Tracking
	RequestCount      int
	ConditionalCount  int
	LastRequestHeader http.Header
}

// NewMockFeed creates a mock feed server answering with a 200 empty array
// until Respond changes it.
func NewMockFeed() *MockFeed {
	mock := &MockFeed{
		response: FeedResponse{StatusCode: http.StatusOK, Body: "[]"},
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		if r.Header.Get("If-None-Match") != "" || r.Header.Get("If-Modified-Since") != "" {
			mock.ConditionalCount++
		}
		resp := mock.response
		mock.mu.Unlock()

		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = w.Write([]byte(resp.Body))
	}))

	return mock
}

// Respond sets the response for subsequent requests.
func (m *MockFeed) Respond(resp FeedResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.response = resp
}

// URL returns the mock server's base URL.
func (m *MockFeed) URL() string {
	return m.server.URL
}

// Requests returns how many requests the mock has served.
func (m *MockFeed) Requests() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// Close shuts the mock server down.
func (m *MockFeed) Close() {
	m.server.Close()
}
