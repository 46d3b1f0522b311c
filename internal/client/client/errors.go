package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fridgekeeper/internal/client/session"
)

var (
	// ErrUnauthenticated means no usable token was available; no request was made.
	ErrUnauthenticated = session.ErrUnauthenticated
	// ErrUnauthorized matches 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable matches transport failures (no HTTP response at all).
	ErrUnavailable = errors.New("server unavailable")
	// ErrNoToken is returned when login or register succeeds without a token.
	ErrNoToken = errors.New("backend returned no access token")
	// ErrResponseTooLarge means a successful response body exceeded the read limit.
	ErrResponseTooLarge = errors.New("response too large")
)

// HTTPError is a non-2xx response.
type HTTPError struct {
	Method string
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Status, e.Body)
}

func (e *HTTPError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

func statusOf(err error) (int, bool) {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status, true
	}
	return 0, false
}

// IsNotFound reports a 404, usually "already deleted".
func IsNotFound(err error) bool {
	s, ok := statusOf(err)
	return ok && s == http.StatusNotFound
}

// IsClientError reports a 4xx other than 404.
func IsClientError(err error) bool {
	s, ok := statusOf(err)
	return ok && s >= 400 && s < 500 && s != http.StatusNotFound
}

// IsTransient reports failures worth retrying later: 5xx, 408, 429 and
// transport errors.
func IsTransient(err error) bool {
	if errors.Is(err, ErrUnavailable) {
		return true
	}
	s, ok := statusOf(err)
	if !ok {
		return false
	}
	return s >= 500 || s == http.StatusRequestTimeout || s == http.StatusTooManyRequests
}
