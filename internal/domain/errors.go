package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrBadRequest is the only acquisition error surfaced to callers.
	ErrBadRequest = errors.New("bad request")

	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrUpstreamProtocol = errors.New("upstream protocol error")
	ErrParseMiss        = errors.New("parse miss")
)

// Reason maps an acquisition error onto a short label for logs and metrics.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrUpstreamTimeout):
		return "timeout"
	case errors.Is(err, ErrUpstreamProtocol):
		return "protocol"
	case errors.Is(err, ErrParseMiss):
		return "parse_miss"
	default:
		return "network"
	}
}

// InputError is a caller mistake. Its message is safe to return to clients.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Is(target error) bool { return target == ErrBadRequest }

func BadRequest(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}
