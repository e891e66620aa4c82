package controlplane

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// APIError is a non-2xx response from the control plane.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("control plane returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("control plane returned %d: %s", e.StatusCode, e.Message)
}

// IsNotFound checks if an error indicates a missing resource.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsConflict checks if an error indicates a revision conflict.
func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

// IsAuthRejected checks if an error indicates the upstream provider rejected
// the credential.
func IsAuthRejected(err error) bool {
	return hasStatus(err, http.StatusUnauthorized) || hasStatus(err, http.StatusForbidden)
}

// IsTransient checks if an error is safe to retry: rate limiting, server-side
// failures, and network-level errors.
func IsTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.StatusCode >= 500
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}
