package client

import (
	"errors"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		expected ErrorClass
	}{
		{name: "bad request", status: 400, expected: ErrorClassClient},
		{name: "not found", status: 404, expected: ErrorClassClient},
		{name: "teapot", status: 418, expected: ErrorClassClient},
		{name: "internal error", status: 500, expected: ErrorClassServer},
		{name: "gateway timeout", status: 504, expected: ErrorClassServer},
		{name: "redirect", status: 301, expected: ErrorClassUnexpected},
		{name: "unrequested not modified", status: 304, expected: ErrorClassUnexpected},
		{name: "stray informational", status: 102, expected: ErrorClassUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyStatus(tt.status); got != tt.expected {
				t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.expected)
			}
		})
	}
}

func TestFeedError_Error(t *testing.T) {
	tests := []struct {
		name     string
		feedErr  *FeedError
		expected string
	}{
		{
			name: "status error",
			feedErr: &FeedError{
				StatusCode: 503,
				Class:      ErrorClassServer,
				Message:    "503 Service Unavailable",
			},
			expected: "feed server error (status 503): 503 Service Unavailable",
		},
		{
			name: "transport error with cause",
			feedErr: &FeedError{
				Class:   ErrorClassNetwork,
				Message: "fetch feed",
				Err:     errors.New("dial tcp: connection refused"),
			},
			expected: "feed network error: fetch feed: dial tcp: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.feedErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFeedError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	feedErr := &FeedError{Class: ErrorClassNetwork, Message: "fetch feed", Err: cause}

	if !errors.Is(feedErr, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}

	var target *FeedError
	if !errors.As(error(feedErr), &target) {
		t.Error("errors.As should match *FeedError")
	}
}
