package client

import (
	"errors"
	"fmt"
)

// ErrNoCache is returned by cache-dependent operations when the client was
// built without a cache manager.
var ErrNoCache = errors.New("no cache configured")

// ErrorClass represents a classification of fetch failures.
type ErrorClass string

const (
	// ErrorClassNetwork represents transport failures: DNS, timeout,
	// connection reset.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassClient represents 4xx upstream responses.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx upstream responses.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassUnexpected represents statuses outside the 4xx/5xx ranges
	// that still abort a fetch, such as an unrequested 304 or a stray 1xx.
	ErrorClassUnexpected ErrorClass = "unexpected"
)

// FeedError is a failed feed fetch with its classification and cause.
// A transport failure carries Err and StatusCode 0; an HTTP error status
// carries StatusCode and no Err.
type FeedError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *FeedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed %s error: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("feed %s error (status %d): %s", e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *FeedError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx HTTP status code to an error class. Every
// status classifies to something; no error leaves here unlabelled.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}
