package client

import (
	"errors"
	"fmt"
	"time"

	"github.com/git-pkgs/jsregistry/fetch"
)

// Sentinels matched by errors.Is against HTTPError and transport failures.
var (
	ErrNotFound     = fetch.ErrNotFound
	ErrRateLimited  = fetch.ErrRateLimited
	ErrUpstreamDown = fetch.ErrUpstreamDown
)

// HTTPError represents a non-2xx HTTP response.
type HTTPError = fetch.HTTPError

// NotFoundError wraps ErrNotFound with additional context.
type NotFoundError struct {
	Ecosystem string
	Name      string
	Version   string
}

func (e *NotFoundError) Error() string {
	if e.Version != "" {
		return fmt.Sprintf("%s: package %s version %s not found", e.Ecosystem, e.Name, e.Version)
	}
	return fmt.Sprintf("%s: package %s not found", e.Ecosystem, e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// TimeoutError is returned when a request exceeds the client timeout.
type TimeoutError struct {
	URL   string
	After time.Duration
	Err   error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: %s", e.After, e.URL)
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

// IsTimeout reports whether err is a client timeout.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsNotFound reports whether err represents a missing package or a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Describe renders err as the short message carried in result-level error
// fields: the HTTP status line for upstream failures, the error text otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusText()
	}
	return err.Error()
}
