package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smithline/atelier/internal/earning/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, earning *domain.Earning) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO creator_earnings (id, creator_profile_id, design_id, order_id, sale_amount, commission_amount, status, period, reason, paid_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		earning.ID,
		earning.CreatorProfileID,
		earning.DesignID,
		earning.OrderID,
		earning.SaleAmount,
		earning.CommissionAmount,
		string(earning.Status),
		earning.Period,
		earning.Reason,
		earning.PaidAt,
		earning.CreatedAt,
		earning.UpdatedAt,
	).Error
}

// UpdateStatusByIDs advances every record in ids whose current status is in
// from, and returns the ids actually changed. The status filter inside the
// UPDATE is the concurrency guard: a competing call sees zero matching rows
// after this one commits. paid_at is stamped only on the transition into
// paid, and since paid is never in from, it is written at most once.
func (r *repo) UpdateStatusByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID, from []domain.EarningStatus, to domain.EarningStatus, now time.Time) ([]snowflake.ID, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `UPDATE creator_earnings SET status = ?, updated_at = ?`
	args := []any{string(to), now}
	if to == domain.StatusPaid {
		query += `, paid_at = ?`
		args = append(args, now)
	}
	query += ` WHERE id IN ? AND status IN ? RETURNING id`
	args = append(args, ids, statusValues(from))

	return r.execReturningIDs(ctx, db, query, args)
}

func (r *repo) UpdateStatusByOrderID(ctx context.Context, db *gorm.DB, orderID string, from []domain.EarningStatus, to domain.EarningStatus, now time.Time) ([]snowflake.ID, error) {
	query := `UPDATE creator_earnings SET status = ?, updated_at = ?`
	args := []any{string(to), now}
	if to == domain.StatusPaid {
		query += `, paid_at = ?`
		args = append(args, now)
	}
	query += ` WHERE order_id = ? AND status IN ? RETURNING id`
	args = append(args, orderID, statusValues(from))

	return r.execReturningIDs(ctx, db, query, args)
}

func (r *repo) execReturningIDs(ctx context.Context, db *gorm.DB, query string, args []any) ([]snowflake.ID, error) {
	var raw []int64
	if err := db.WithContext(ctx).Raw(query, args...).Scan(&raw).Error; err != nil {
		return nil, err
	}

	updated := make([]snowflake.ID, 0, len(raw))
	for _, id := range raw {
		updated = append(updated, snowflake.ID(id))
	}
	return updated, nil
}

func statusValues(statuses []domain.EarningStatus) []string {
	values := make([]string, 0, len(statuses))
	for _, status := range statuses {
		values = append(values, string(status))
	}
	return values
}
