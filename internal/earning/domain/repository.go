package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists ledger records. Both UpdateStatus variants must be
// issued as a single conditional write so that two concurrent payout runs
// cannot double-advance the same record: the second run simply matches zero
// rows once the first one commits.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, earning *Earning) error
	UpdateStatusByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, from []EarningStatus, to EarningStatus, now time.Time) ([]snowflake.ID, error)
	UpdateStatusByOrderID(ctx context.Context, db *gorm.DB, orderID string, from []EarningStatus, to EarningStatus, now time.Time) ([]snowflake.ID, error)
}
