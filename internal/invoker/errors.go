package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// ErrCircuitOpen is returned without contacting the upstream while the
// breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// UpstreamError is a provider failure normalized by an adapter.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	var b strings.Builder
	b.WriteString(e.Provider)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " returned status %d", e.StatusCode)
	} else {
		b.WriteString(" request failed")
	}
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// RetryExhaustedError reports that every attempt failed with a transient error.
type RetryExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetryExhaustedError) Error() string {
	return fmt.Sprintf("upstream failed after %d attempts: %v", e.Attempts, e.Last)
}

func (e *RetryExhaustedError) Unwrap() error { return e.Last }

var transientMessages = []string{
	"try again later",
	"temporarily unavailable",
	"timeout",
	"overloaded",
	"connection reset",
	"connection refused",
	"eof",
}

var fatalMarkers = []string{
	"insufficient_quota",
	"billing",
	"api key",
}

var transientStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

var fatalStatus = map[int]bool{
	http.StatusBadRequest:   true,
	http.StatusUnauthorized: true,
	http.StatusForbidden:    true,
	http.StatusNotFound:     true,
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, ErrCircuitOpen) || errors.Is(err, context.Canceled) {
		return false
	}
	if hasFatalMarker(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}

	var ue *UpstreamError
	if errors.As(err, &ue) && ue.StatusCode != 0 {
		if transientStatus[ue.StatusCode] {
			return true
		}
		if fatalStatus[ue.StatusCode] {
			return false
		}
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

// IsQuotaExhausted reports whether the provider refused because the account
// ran out of quota or billing credit.
func IsQuotaExhausted(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Code == "insufficient_quota" {
		return true
	}
	msg := strings.ToLower(errorText(err))
	return strings.Contains(msg, "quota") || strings.Contains(msg, "billing")
}

// IsAuthFailure reports whether the provider rejected the configured credentials.
func IsAuthFailure(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) && (ue.StatusCode == http.StatusUnauthorized || ue.StatusCode == http.StatusForbidden) {
		return true
	}
	return strings.Contains(strings.ToLower(errorText(err)), "api key")
}

func hasFatalMarker(err error) bool {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.Code == "insufficient_quota" {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, m := range fatalMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
