package services

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for logging. Callers of the proxy routes never see it.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindInsufficientCredits
	KindUpstreamFetch
	KindBackend
	KindPersistence
	KindTimeout
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindInsufficientCredits:
		return "insufficient_credits"
	case KindUpstreamFetch:
		return "upstream_fetch_failure"
	case KindBackend:
		return "backend_failure"
	case KindPersistence:
		return "persistence_failure"
	case KindTimeout:
		return "timeout"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unknown"
	}
}

var (
	ErrUnauthorized = errors.New("no authenticated session")
	ErrEmptyPrompt  = errors.New("theme, room and prompt are all empty")
)

type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// newError tags err with kind, unless a deadline expired underneath it.
func newError(kind Kind, op string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
