package domain

import (
	"database/sql"
	"regexp"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EarningStatus is the payout lifecycle state of a ledger record.
//
// The machine only moves forward: pending -> ready_to_pay -> paid, with void
// reachable from pending and ready_to_pay. Nothing leaves paid or void.
type EarningStatus string

const (
	StatusPending    EarningStatus = "pending"
	StatusReadyToPay EarningStatus = "ready_to_pay"
	StatusPaid       EarningStatus = "paid"
	StatusVoid       EarningStatus = "void"
)

func (s EarningStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReadyToPay, StatusPaid, StatusVoid:
		return true
	default:
		return false
	}
}

// Earning is one ledger record: commission owed to a creator for a specific
// sale, or a negative manual adjustment correcting a prior balance.
//
// CommissionAmount is a snapshot computed once at creation from the design's
// policy at that moment; it is never recomputed when the policy changes.
type Earning struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	CreatorProfileID snowflake.ID    `gorm:"not null;index" json:"creator_profile_id"`
	DesignID         *snowflake.ID   `gorm:"index" json:"design_id,omitempty"`
	OrderID          string          `gorm:"type:text;not null;index" json:"order_id"`
	SaleAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"sale_amount"`
	CommissionAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"commission_amount"`
	Status           EarningStatus   `gorm:"type:text;not null;index" json:"status"`
	Period           string          `gorm:"type:text;not null;index" json:"period"`
	Reason           *string         `gorm:"type:text" json:"reason,omitempty"`
	PaidAt           sql.NullTime    `json:"paid_at,omitempty"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Earning) TableName() string { return "creator_earnings" }

// IsAdjustment reports whether the record is a manual correction rather than
// a sale-originated earning.
func (e Earning) IsAdjustment() bool {
	return e.CommissionAmount.IsNegative()
}

// PeriodLayout formats a timestamp into the YYYY-MM reporting bucket.
const PeriodLayout = "2006-01"

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod reports whether value is a well-formed YYYY-MM bucket.
func ValidPeriod(value string) bool {
	return periodPattern.MatchString(value)
}
