package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// MaxMonetaryAmount bounds every monetary input field.
var MaxMonetaryAmount = decimal.NewFromInt(10_000_000)

// MaxBatchSize bounds the id list of a bulk transition.
const MaxBatchSize = 100

type CreateEarningRequest struct {
	DesignID   string
	OrderID    string
	SaleAmount decimal.Decimal
	Quantity   int
}

type CreateAdjustmentRequest struct {
	CreatorProfileID string
	AdjustmentAmount decimal.Decimal
	Reason           string
	OrderID          string
}

type TransitionRequest struct {
	EarningIDs []string
}

type VoidRequest struct {
	EarningIDs []string
	OrderID    string
	Reason     string
}

// TransitionResult reports what a bulk transition actually changed. Requested
// ids whose current status fell outside the transition's precondition are
// listed as skipped, not errored, so overlapping re-calls stay safe.
type TransitionResult struct {
	UpdatedCount int      `json:"updated_count"`
	UpdatedIDs   []string `json:"updated_ids"`
	SkippedIDs   []string `json:"skipped_ids"`
}

type Service interface {
	CreateEarning(context.Context, CreateEarningRequest) (Earning, error)
	CreateAdjustment(context.Context, CreateAdjustmentRequest) (Earning, error)
	MarkReadyToPay(context.Context, TransitionRequest) (TransitionResult, error)
	MarkPaid(context.Context, TransitionRequest) (TransitionResult, error)
	Void(context.Context, VoidRequest) (TransitionResult, error)
}

var (
	ErrInvalidOrderID          = errors.New("invalid_order_id")
	ErrInvalidSaleAmount       = errors.New("invalid_sale_amount")
	ErrInvalidQuantity         = errors.New("invalid_quantity")
	ErrInvalidAdjustmentAmount = errors.New("invalid_adjustment_amount")
	ErrInvalidEarningIDs       = errors.New("invalid_earning_ids")
	ErrInvalidVoidSelector     = errors.New("invalid_void_selector")
	ErrUnknownCommissionType   = errors.New("unknown_commission_type")
)
