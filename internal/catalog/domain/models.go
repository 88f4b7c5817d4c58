package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// CommissionType selects how a design's commission policy is applied.
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

func (t CommissionType) Valid() bool {
	switch t {
	case CommissionTypePercentage, CommissionTypeFixed:
		return true
	default:
		return false
	}
}

// Design is a sellable creator design. The commission policy lives here and
// is snapshotted into each earning at creation time; later policy edits never
// touch historical earnings.
type Design struct {
	ID               snowflake.ID    `gorm:"primaryKey" json:"id"`
	CreatorProfileID snowflake.ID    `gorm:"not null;index" json:"creator_profile_id"`
	Title            string          `gorm:"not null" json:"title"`
	SKU              string          `gorm:"column:sku" json:"sku,omitempty"`
	CommissionType   CommissionType  `gorm:"type:text;not null" json:"commission_type"`
	CommissionValue  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"commission_value"`
	Status           string          `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Design) TableName() string { return "designs" }

// CreatorProfile is the third-party creator a design belongs to.
type CreatorProfile struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID      snowflake.ID `gorm:"not null;index" json:"user_id"`
	DisplayName string       `gorm:"not null" json:"display_name"`
	Status      string       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (CreatorProfile) TableName() string { return "creator_profiles" }

const (
	ProfileStatusActive    = "active"
	ProfileStatusSuspended = "suspended"
)
