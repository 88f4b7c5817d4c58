package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type ProcessPayoutRequest struct {
	// Period is an optional YYYY-MM upper bound. When set, only earnings
	// bucketed in that month or earlier contribute.
	Period string
}

type PeriodSubtotal struct {
	Period           string          `json:"period"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	EarningCount     int             `json:"earning_count"`
}

type CreatorPayout struct {
	CreatorProfileID string           `json:"creator_profile_id"`
	DisplayName      string           `json:"display_name"`
	TotalSaleAmount  decimal.Decimal  `json:"total_sale_amount"`
	TotalCommission  decimal.Decimal  `json:"total_commission"`
	PendingCount     int              `json:"pending_count"`
	ReadyToPayCount  int              `json:"ready_to_pay_count"`
	EarningIDs       []string         `json:"earning_ids"`
	Periods          []PeriodSubtotal `json:"periods"`
}

// PayoutSummary is a read-only snapshot of everything currently owed. It
// never advances ledger state; operators mark the listed ids ready or paid
// in a separate call.
type PayoutSummary struct {
	Period         string          `json:"period,omitempty"`
	Creators       []CreatorPayout `json:"creators"`
	GrandTotalSale decimal.Decimal `json:"grand_total_sale"`
	GrandTotal     decimal.Decimal `json:"grand_total_commission"`
	EarningCount   int             `json:"earning_count"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type Service interface {
	ProcessPayout(context.Context, ProcessPayoutRequest) (PayoutSummary, error)
}

var ErrInvalidPeriod = errors.New("invalid_period")
