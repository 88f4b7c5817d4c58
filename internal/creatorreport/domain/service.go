package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
)

// MaxReportRecords caps the listing section of a report. The summary still
// covers every matching record.
const MaxReportRecords = 100

type GetCreatorReportRequest struct {
	// CreatorProfileID is honored for admin callers only. A creator caller
	// always gets their own profile regardless of what they pass.
	CreatorProfileID string
	Period           string
}

type PeriodSummary struct {
	Period           string          `json:"period"`
	SaleAmount       decimal.Decimal `json:"sale_amount"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	EarningCount     int             `json:"earning_count"`
}

type ReportSummary struct {
	TotalSaleAmount decimal.Decimal            `json:"total_sale_amount"`
	TotalCommission decimal.Decimal            `json:"total_commission"`
	ByStatus        map[string]decimal.Decimal `json:"commission_by_status"`
	ByPeriod        []PeriodSummary            `json:"by_period"`
	EarningCount    int                        `json:"earning_count"`
}

type CreatorReport struct {
	CreatorProfileID string                  `json:"creator_profile_id"`
	DisplayName      string                  `json:"display_name"`
	Period           string                  `json:"period,omitempty"`
	Earnings         []earningdomain.Earning `json:"earnings"`
	Summary          ReportSummary           `json:"summary"`
	GeneratedAt      time.Time               `json:"generated_at"`
}

type Service interface {
	GetCreatorReport(context.Context, GetCreatorReportRequest) (CreatorReport, error)
}

var (
	ErrInvalidPeriod           = errors.New("invalid_period")
	ErrInvalidCreatorProfileID = errors.New("invalid_creator_profile_id")
	ErrCreatorProfileRequired  = errors.New("creator_profile_required")
)
