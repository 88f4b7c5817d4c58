package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smithline/atelier/internal/clock"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	"github.com/smithline/atelier/internal/payout/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payout.service"),
		clock: p.Clock,
	}
}

type payoutRow struct {
	ID               string          `gorm:"column:id"`
	CreatorProfileID string          `gorm:"column:creator_profile_id"`
	DisplayName      string          `gorm:"column:display_name"`
	Period           string          `gorm:"column:period"`
	Status           string          `gorm:"column:status"`
	SaleAmount       decimal.Decimal `gorm:"column:sale_amount"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount"`
}

func (s *Service) ProcessPayout(ctx context.Context, req domain.ProcessPayoutRequest) (domain.PayoutSummary, error) {
	period := strings.TrimSpace(req.Period)
	if period != "" && !earningdomain.ValidPeriod(period) {
		return domain.PayoutSummary{}, domain.ErrInvalidPeriod
	}

	query := `
		SELECT e.id, e.creator_profile_id, COALESCE(p.display_name, '') AS display_name,
		       e.period, e.status, e.sale_amount, e.commission_amount
		FROM creator_earnings e
		LEFT JOIN creator_profiles p ON p.id = e.creator_profile_id
		WHERE e.status IN ?`
	args := []any{[]string{
		string(earningdomain.StatusPending),
		string(earningdomain.StatusReadyToPay),
	}}
	if period != "" {
		query += ` AND e.period <= ?`
		args = append(args, period)
	}
	query += ` ORDER BY e.creator_profile_id, e.period, e.id`

	var rows []payoutRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return domain.PayoutSummary{}, err
	}

	summary := domain.PayoutSummary{
		Period:         period,
		Creators:       make([]domain.CreatorPayout, 0),
		GrandTotalSale: decimal.Zero,
		GrandTotal:     decimal.Zero,
		EarningCount:   len(rows),
		GeneratedAt:    s.clock.Now(),
	}

	for _, row := range rows {
		creator := currentCreator(&summary, row)
		creator.TotalSaleAmount = creator.TotalSaleAmount.Add(row.SaleAmount)
		creator.TotalCommission = creator.TotalCommission.Add(row.CommissionAmount)
		creator.EarningIDs = append(creator.EarningIDs, row.ID)
		switch earningdomain.EarningStatus(row.Status) {
		case earningdomain.StatusPending:
			creator.PendingCount++
		case earningdomain.StatusReadyToPay:
			creator.ReadyToPayCount++
		}

		sub := currentPeriod(creator, row.Period)
		sub.SaleAmount = sub.SaleAmount.Add(row.SaleAmount)
		sub.CommissionAmount = sub.CommissionAmount.Add(row.CommissionAmount)
		sub.EarningCount++

		summary.GrandTotalSale = summary.GrandTotalSale.Add(row.SaleAmount)
		summary.GrandTotal = summary.GrandTotal.Add(row.CommissionAmount)
	}

	return summary, nil
}

// currentCreator returns the bucket for row's creator, appending a new one
// when the creator changes. Rows arrive ordered by creator_profile_id so the
// last bucket is always the active one.
func currentCreator(summary *domain.PayoutSummary, row payoutRow) *domain.CreatorPayout {
	n := len(summary.Creators)
	if n == 0 || summary.Creators[n-1].CreatorProfileID != row.CreatorProfileID {
		summary.Creators = append(summary.Creators, domain.CreatorPayout{
			CreatorProfileID: row.CreatorProfileID,
			DisplayName:      row.DisplayName,
			TotalSaleAmount:  decimal.Zero,
			TotalCommission:  decimal.Zero,
			EarningIDs:       make([]string, 0),
			Periods:          make([]domain.PeriodSubtotal, 0),
		})
		n++
	}
	return &summary.Creators[n-1]
}

func currentPeriod(creator *domain.CreatorPayout, period string) *domain.PeriodSubtotal {
	n := len(creator.Periods)
	if n == 0 || creator.Periods[n-1].Period != period {
		creator.Periods = append(creator.Periods, domain.PeriodSubtotal{
			Period:           period,
			SaleAmount:       decimal.Zero,
			CommissionAmount: decimal.Zero,
		})
		n++
	}
	return &creator.Periods[n-1]
}
