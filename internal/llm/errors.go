package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strings"
)

// Error taxonomy of the completion gateway. Callers branch on these with
// errors.Is; the concrete upstream failure is carried in the wrap chain.
var (
	ErrInvalidRequest      = errors.New("llm: invalid request")
	ErrTimeout             = errors.New("llm: request timed out")
	ErrAuth                = errors.New("llm: authentication failed")
	ErrRateLimited         = errors.New("llm: rate limited")
	ErrUpstreamUnavailable = errors.New("llm: upstream unavailable")
	ErrInvalidResponse     = errors.New("llm: invalid response")
	ErrBadRequest          = errors.New("llm: bad request")
)

type failureClass int

const (
	failureTimeout failureClass = iota
	failureAuth
	failureRateLimit
	failureServer
	failureClient
)

var statusCodeRe = regexp.MustCompile(`(?:status(?:\s+code)?[:=\s]+)(\d{3})`)

// classifyTransportError buckets a provider error by its status code or
// message text. Unrecognized failures default to the server bucket so they
// stay retryable.
func classifyTransportError(err error) failureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	msg := strings.ToLower(err.Error())
	if m := statusCodeRe.FindStringSubmatch(msg); len(m) == 2 {
		switch {
		case m[1] == "401" || m[1] == "403":
			return failureAuth
		case m[1] == "429":
			return failureRateLimit
		case strings.HasPrefix(m[1], "5"):
			return failureServer
		case strings.HasPrefix(m[1], "4"):
			return failureClient
		}
	}
	switch {
	case strings.Contains(msg, "401"), strings.Contains(msg, "403"),
		strings.Contains(msg, "unauthorized"), strings.Contains(msg, "invalid x-api-key"),
		strings.Contains(msg, "authentication"):
		return failureAuth
	case strings.Contains(msg, "status 429"), strings.Contains(msg, "status=429"), strings.Contains(msg, "429"), strings.Contains(msg, "rate limit"):
		return failureRateLimit
	case strings.Contains(msg, "status 5"), strings.Contains(msg, "status=5"), strings.Contains(msg, "status code: 5"), strings.Contains(msg, "server error"), strings.Contains(msg, "overloaded"):
		return failureServer
	case strings.Contains(msg, "status 4"), strings.Contains(msg, "status=4"), strings.Contains(msg, "status code: 4"):
		return failureClient
	default:
		return failureServer
	}
}

func (c failureClass) retryable() bool {
	return c == failureServer
}

// terminalError maps a failure class to the taxonomy sentinel, keeping the
// upstream error in the chain.
func terminalError(class failureClass, err error) error {
	switch class {
	case failureTimeout:
		return joinErr(ErrTimeout, err)
	case failureAuth:
		return joinErr(ErrAuth, err)
	case failureRateLimit:
		return joinErr(ErrRateLimited, err)
	case failureClient:
		return joinErr(ErrBadRequest, err)
	default:
		return joinErr(ErrUpstreamUnavailable, err)
	}
}

func joinErr(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, cause.Error())
}
