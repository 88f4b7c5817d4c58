package domain

import (
	"context"
	"errors"
)

type GetDesignRequest struct {
	ID string
}

type GetCreatorProfileRequest struct {
	ID string
}

// Service is the read-only catalog lookup consumed by the ledger. The
// catalog itself is owned by the storefront; this core never mutates it.
type Service interface {
	GetDesign(context.Context, GetDesignRequest) (Design, error)
	GetCreatorProfile(context.Context, GetCreatorProfileRequest) (CreatorProfile, error)
}

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrDesignNotFound  = errors.New("design_not_found")
	ErrCreatorNotFound = errors.New("creator_not_found")
)
