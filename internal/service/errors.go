package service

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/macrotrack/internal/errs"
	"github.com/mmynk/macrotrack/internal/middleware"
)

var errUnauthenticated = errors.New("authenticated user required")

// requireUser returns the caller's user id set by the auth interceptor.
func requireUser(ctx context.Context) (string, error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errUnauthenticated)
	}
	return userID, nil
}

// connectError maps a core error to its Connect code.
func connectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return err
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errs.KindNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case errs.KindIntegrity:
		return connect.NewError(connect.CodeDataLoss, err)
	case errs.KindRepository:
		return connect.NewError(connect.CodeInternal, err)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
