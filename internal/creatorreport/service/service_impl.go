package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smithline/atelier/internal/callerctx"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/smithline/atelier/internal/clock"
	"github.com/smithline/atelier/internal/creatorreport/domain"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Clock   clock.Clock
	Catalog catalogdomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	clock   clock.Clock
	catalog catalogdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("creatorreport.service"),
		clock:   p.Clock,
		catalog: p.Catalog,
	}
}

func (s *Service) GetCreatorReport(ctx context.Context, req domain.GetCreatorReportRequest) (domain.CreatorReport, error) {
	period := strings.TrimSpace(req.Period)
	if period != "" && !earningdomain.ValidPeriod(period) {
		return domain.CreatorReport{}, domain.ErrInvalidPeriod
	}

	profileID, displayName, err := s.resolveTarget(ctx, req)
	if err != nil {
		return domain.CreatorReport{}, err
	}

	where := `creator_profile_id = ?`
	args := []any{profileID}
	if period != "" {
		where += ` AND period = ?`
		args = append(args, period)
	}

	var earnings []earningdomain.Earning
	listQuery := `SELECT * FROM creator_earnings WHERE ` + where +
		` ORDER BY created_at DESC, id DESC LIMIT ?`
	listArgs := append(append([]any{}, args...), domain.MaxReportRecords)
	if err := s.db.WithContext(ctx).Raw(listQuery, listArgs...).Scan(&earnings).Error; err != nil {
		return domain.CreatorReport{}, err
	}
	if earnings == nil {
		earnings = make([]earningdomain.Earning, 0)
	}

	summary, err := s.buildSummary(ctx, where, args)
	if err != nil {
		return domain.CreatorReport{}, err
	}

	return domain.CreatorReport{
		CreatorProfileID: profileID.String(),
		DisplayName:      displayName,
		Period:           period,
		Earnings:         earnings,
		Summary:          summary,
		GeneratedAt:      s.clock.Now(),
	}, nil
}

// resolveTarget decides whose ledger the report covers. Creators only ever
// see their own profile; the requested id is honored for admins alone.
func (s *Service) resolveTarget(ctx context.Context, req domain.GetCreatorReportRequest) (snowflake.ID, string, error) {
	caller, ok := callerctx.CallerFromContext(ctx)
	if ok && !caller.IsAdmin {
		if !caller.IsCreator() {
			return 0, "", domain.ErrCreatorProfileRequired
		}
		return *caller.CreatorProfileID, caller.CreatorDisplayName, nil
	}

	requested := strings.TrimSpace(req.CreatorProfileID)
	if requested == "" {
		return 0, "", domain.ErrInvalidCreatorProfileID
	}
	profile, err := s.catalog.GetCreatorProfile(ctx, catalogdomain.GetCreatorProfileRequest{ID: requested})
	if err != nil {
		return 0, "", err
	}
	return profile.ID, profile.DisplayName, nil
}

type summaryRow struct {
	Period           string          `gorm:"column:period"`
	Status           string          `gorm:"column:status"`
	SaleAmount       decimal.Decimal `gorm:"column:sale_amount"`
	CommissionAmount decimal.Decimal `gorm:"column:commission_amount"`
	EarningCount     int             `gorm:"column:earning_count"`
}

// buildSummary aggregates over every matching record, not just the capped
// listing page.
func (s *Service) buildSummary(ctx context.Context, where string, args []any) (domain.ReportSummary, error) {
	query := `
		SELECT period, status,
		       SUM(sale_amount) AS sale_amount,
		       SUM(commission_amount) AS commission_amount,
		       COUNT(*) AS earning_count
		FROM creator_earnings
		WHERE ` + where + `
		GROUP BY period, status
		ORDER BY period, status`

	var rows []summaryRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return domain.ReportSummary{}, err
	}

	summary := domain.ReportSummary{
		TotalSaleAmount: decimal.Zero,
		TotalCommission: decimal.Zero,
		ByStatus: map[string]decimal.Decimal{
			string(earningdomain.StatusPending):    decimal.Zero,
			string(earningdomain.StatusReadyToPay): decimal.Zero,
			string(earningdomain.StatusPaid):       decimal.Zero,
			string(earningdomain.StatusVoid):       decimal.Zero,
		},
		ByPeriod: make([]domain.PeriodSummary, 0),
	}

	for _, row := range rows {
		summary.EarningCount += row.EarningCount
		if prev, ok := summary.ByStatus[row.Status]; ok {
			summary.ByStatus[row.Status] = prev.Add(row.CommissionAmount)
		}

		// Void rows stay visible in the listing and ByStatus, but a cancelled
		// earning never counts toward the running balance.
		if row.Status == string(earningdomain.StatusVoid) {
			continue
		}

		summary.TotalSaleAmount = summary.TotalSaleAmount.Add(row.SaleAmount)
		summary.TotalCommission = summary.TotalCommission.Add(row.CommissionAmount)

		n := len(summary.ByPeriod)
		if n == 0 || summary.ByPeriod[n-1].Period != row.Period {
			summary.ByPeriod = append(summary.ByPeriod, domain.PeriodSummary{
				Period:           row.Period,
				SaleAmount:       decimal.Zero,
				CommissionAmount: decimal.Zero,
			})
			n++
		}
		sub := &summary.ByPeriod[n-1]
		sub.SaleAmount = sub.SaleAmount.Add(row.SaleAmount)
		sub.CommissionAmount = sub.CommissionAmount.Add(row.CommissionAmount)
		sub.EarningCount += row.EarningCount
	}

	return summary, nil
}
