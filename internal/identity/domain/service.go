package domain

import (
	"context"
	"errors"

	"github.com/smithline/atelier/internal/callerctx"
)

// Service resolves a bearer token into the caller's authorization facts. It
// only supplies facts; capability requirements live with each action.
type Service interface {
	Resolve(ctx context.Context, bearerToken string) (callerctx.Caller, error)
}

var (
	ErrMissingToken = errors.New("missing_token")
	ErrInvalidToken = errors.New("invalid_token")
)
