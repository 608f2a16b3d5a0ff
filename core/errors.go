package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredential is matched by every AuthenticationError.
	ErrNoCredential = errors.New("no credential configured")

	// ErrMalformedFragment marks a streamed unit that could not be parsed.
	// It never leaves the stream package; such units are dropped.
	ErrMalformedFragment = errors.New("malformed stream fragment")
)

// AuthenticationError is returned before any network I/O when a provider has
// no credential. It is fatal to the call and never retried.
type AuthenticationError struct {
	Provider string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %s", e.Provider, ErrNoCredential)
}

// Unwrap allows errors.Is(err, ErrNoCredential).
func (e *AuthenticationError) Unwrap() error { return ErrNoCredential }

// RequestError reports a non-success provider response. Message carries the
// provider-supplied error message when one was available.
type RequestError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "API call failed"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: request failed (status %d): %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: request failed: %s", e.Provider, msg)
}

func (e *RequestError) Unwrap() error { return e.Err }

// DecisionParseError reports a moderation response that was not the required
// structured output. It ends the session.
type DecisionParseError struct {
	Raw string
	Err error
}

func (e *DecisionParseError) Error() string {
	if e.Err == nil {
		return "moderation: invalid decision payload"
	}
	return fmt.Sprintf("moderation: invalid decision payload: %v", e.Err)
}

func (e *DecisionParseError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err is (or wraps) an AuthenticationError.
func IsAuthentication(err error) bool {
	var ae *AuthenticationError
	return errors.As(err, &ae)
}
