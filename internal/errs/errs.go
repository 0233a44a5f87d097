// Package errs defines the typed failures reported by the meal core.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind int

const (
	// KindUnknown is reported for errors that did not come from this package.
	KindUnknown Kind = iota
	// KindValidation is bad input, raised before any repository call.
	KindValidation
	// KindNotFound means a referenced group or entry does not exist.
	KindNotFound
	// KindIntegrity means stored rows contradict each other.
	KindIntegrity
	// KindRepository is an opaque persistence failure.
	KindRepository
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindIntegrity:
		return "integrity"
	case KindRepository:
		return "repository"
	default:
		return "unknown"
	}
}

// Error is a classified failure raised by operation Op.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches targets of the same Kind, so errors.Is(err, errs.ErrValidation) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrIntegrity  = &Error{Kind: KindIntegrity}
	ErrRepository = &Error{Kind: KindRepository}
)

// Validation returns a validation error for op.
func Validation(op, format string, args ...any) error {
	return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf(format, args...)}
}

// NotFound returns a not-found error for op.
func NotFound(op, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Op: op, Err: fmt.Errorf(format, args...)}
}

// Integrity returns an integrity error for op.
func Integrity(op, format string, args ...any) error {
	return &Error{Kind: KindIntegrity, Op: op, Err: fmt.Errorf(format, args...)}
}

// Repository wraps a persistence failure. Errors that are already classified
// are returned unchanged.
func Repository(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return &Error{Kind: KindRepository, Op: op, Err: err}
}

// KindOf returns the Kind of the first classified error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
