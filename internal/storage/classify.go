package storage

import (
	"errors"

	"github.com/mmynk/macrotrack/internal/errs"
)

// Classify converts a store error into a typed failure for op:
// ErrNotFound becomes a not-found error, anything else a repository error.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return &errs.Error{Kind: errs.KindNotFound, Op: op, Err: err}
	}
	return errs.Repository(op, err)
}
