package registry

import (
	"fmt"
	"net/http"
)

// ConfigError reports a missing or invalid setting detected before any
// request was sent.
type ConfigError struct {
	Setting string
	Reason  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Setting, e.Reason)
}

// StatusError is returned when a registry answers with a non-success status.
type StatusError struct {
	Registry   string
	Method     string
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s request failed: %s %s: %d %s",
		e.Registry, e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// ReferenceError reports a repository reference that cannot be routed.
type ReferenceError struct {
	Input  string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("invalid repository reference %q: %s", e.Input, e.Reason)
}
