package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smithline/atelier/internal/audit/domain"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/smithline/atelier/internal/clock"
	"github.com/smithline/atelier/internal/earning/domain"
	obsmetrics "github.com/smithline/atelier/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Catalog    catalogdomain.Service
	AuditSvc   auditdomain.Service
	ObsMetrics *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	catalog    catalogdomain.Service
	auditSvc   auditdomain.Service
	obsMetrics *obsmetrics.Metrics
}

func NewService(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("earning.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		catalog:    p.Catalog,
		auditSvc:   p.AuditSvc,
		obsMetrics: p.ObsMetrics,
	}
}

func (s *Service) CreateEarning(ctx context.Context, req domain.CreateEarningRequest) (domain.Earning, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" || len(orderID) > 128 {
		return domain.Earning{}, domain.ErrInvalidOrderID
	}
	if req.SaleAmount.IsNegative() || req.SaleAmount.GreaterThan(domain.MaxMonetaryAmount) {
		return domain.Earning{}, domain.ErrInvalidSaleAmount
	}
	if req.Quantity < 0 || req.Quantity > 10_000 {
		return domain.Earning{}, domain.ErrInvalidQuantity
	}

	design, err := s.catalog.GetDesign(ctx, catalogdomain.GetDesignRequest{ID: req.DesignID})
	if err != nil {
		return domain.Earning{}, err
	}

	commission, err := domain.Calculate(req.SaleAmount, req.Quantity, design.CommissionType, design.CommissionValue)
	if err != nil {
		return domain.Earning{}, err
	}

	now := s.clock.Now()
	designID := design.ID
	earning := domain.Earning{
		ID:               s.genID.Generate(),
		CreatorProfileID: design.CreatorProfileID,
		DesignID:         &designID,
		OrderID:          orderID,
		SaleAmount:       req.SaleAmount.Round(2),
		CommissionAmount: commission,
		Status:           domain.StatusPending,
		Period:           now.Format(domain.PeriodLayout),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.repo.Insert(ctx, s.db, &earning); err != nil {
		return domain.Earning{}, err
	}

	s.obsMetrics.RecordEarning(ctx, "sale")
	s.writeAudit(ctx, "earning.created", earning.ID, map[string]any{
		"creator_profile_id": earning.CreatorProfileID.String(),
		"design_id":          designID.String(),
		"order_id":           earning.OrderID,
		"sale_amount":        earning.SaleAmount.String(),
		"commission_amount":  earning.CommissionAmount.String(),
		"period":             earning.Period,
	})

	return earning, nil
}

func (s *Service) CreateAdjustment(ctx context.Context, req domain.CreateAdjustmentRequest) (domain.Earning, error) {
	amount := req.AdjustmentAmount.Abs().Round(2)
	if amount.IsZero() || amount.GreaterThan(domain.MaxMonetaryAmount) {
		return domain.Earning{}, domain.ErrInvalidAdjustmentAmount
	}

	profile, err := s.catalog.GetCreatorProfile(ctx, catalogdomain.GetCreatorProfileRequest{ID: req.CreatorProfileID})
	if err != nil {
		return domain.Earning{}, err
	}

	orderID := strings.TrimSpace(req.OrderID)
	if len(orderID) > 128 {
		return domain.Earning{}, domain.ErrInvalidOrderID
	}
	if orderID == "" {
		orderID = "adj_" + uuid.NewString()
	}

	now := s.clock.Now()
	earning := domain.Earning{
		ID:               s.genID.Generate(),
		CreatorProfileID: profile.ID,
		OrderID:          orderID,
		SaleAmount:       decimal.Zero,
		CommissionAmount: amount.Neg(),
		Status:           domain.StatusPending,
		Period:           now.Format(domain.PeriodLayout),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		earning.Reason = &reason
	}

	if err := s.repo.Insert(ctx, s.db, &earning); err != nil {
		return domain.Earning{}, err
	}

	s.obsMetrics.RecordEarning(ctx, "adjustment")
	s.writeAudit(ctx, "earning.adjusted", earning.ID, map[string]any{
		"creator_profile_id": earning.CreatorProfileID.String(),
		"order_id":           earning.OrderID,
		"commission_amount":  earning.CommissionAmount.String(),
		"period":             earning.Period,
	})

	return earning, nil
}

func (s *Service) MarkReadyToPay(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	return s.transitionByIDs(ctx, req.EarningIDs,
		[]domain.EarningStatus{domain.StatusPending},
		domain.StatusReadyToPay,
		"earning.marked_ready",
	)
}

func (s *Service) MarkPaid(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	return s.transitionByIDs(ctx, req.EarningIDs,
		[]domain.EarningStatus{domain.StatusPending, domain.StatusReadyToPay},
		domain.StatusPaid,
		"earning.marked_paid",
	)
}

func (s *Service) Void(ctx context.Context, req domain.VoidRequest) (domain.TransitionResult, error) {
	orderID := strings.TrimSpace(req.OrderID)
	hasIDs := len(req.EarningIDs) > 0
	hasOrder := orderID != ""
	if hasIDs == hasOrder {
		// Exactly one selector: an explicit id list or an originating order.
		return domain.TransitionResult{}, domain.ErrInvalidVoidSelector
	}

	from := []domain.EarningStatus{domain.StatusPending, domain.StatusReadyToPay}

	if hasIDs {
		result, err := s.transitionByIDs(ctx, req.EarningIDs, from, domain.StatusVoid, "earning.voided")
		if err != nil {
			return domain.TransitionResult{}, err
		}
		s.auditVoidReason(ctx, result, req.Reason)
		return result, nil
	}

	updated, err := s.repo.UpdateStatusByOrderID(ctx, s.db, orderID, from, domain.StatusVoid, s.clock.Now())
	if err != nil {
		return domain.TransitionResult{}, err
	}

	result := domain.TransitionResult{
		UpdatedCount: len(updated),
		UpdatedIDs:   idStrings(updated),
		SkippedIDs:   []string{},
	}
	s.recordTransition(ctx, domain.StatusVoid, result, "earning.voided")
	s.auditVoidReason(ctx, result, req.Reason)
	return result, nil
}

func (s *Service) transitionByIDs(ctx context.Context, rawIDs []string, from []domain.EarningStatus, to domain.EarningStatus, auditAction string) (domain.TransitionResult, error) {
	ids, err := parseBatchIDs(rawIDs)
	if err != nil {
		return domain.TransitionResult{}, err
	}

	updated, err := s.repo.UpdateStatusByIDs(ctx, s.db, ids, from, to, s.clock.Now())
	if err != nil {
		return domain.TransitionResult{}, err
	}

	updatedSet := make(map[snowflake.ID]struct{}, len(updated))
	for _, id := range updated {
		updatedSet[id] = struct{}{}
	}

	skipped := make([]string, 0)
	for _, id := range ids {
		if _, ok := updatedSet[id]; !ok {
			skipped = append(skipped, id.String())
		}
	}

	result := domain.TransitionResult{
		UpdatedCount: len(updated),
		UpdatedIDs:   idStrings(updated),
		SkippedIDs:   skipped,
	}
	s.recordTransition(ctx, to, result, auditAction)
	return result, nil
}

func (s *Service) recordTransition(ctx context.Context, to domain.EarningStatus, result domain.TransitionResult, auditAction string) {
	s.obsMetrics.RecordStatusTransition(ctx, string(to), result.UpdatedCount)
	if result.UpdatedCount == 0 {
		return
	}
	s.writeAudit(ctx, auditAction, 0, map[string]any{
		"updated_count": result.UpdatedCount,
		"updated_ids":   result.UpdatedIDs,
		"skipped_ids":   result.SkippedIDs,
	})
}

func (s *Service) auditVoidReason(ctx context.Context, result domain.TransitionResult, reason string) {
	reason = strings.TrimSpace(reason)
	if reason == "" || result.UpdatedCount == 0 {
		return
	}
	s.writeAudit(ctx, "earning.void_reason", 0, map[string]any{
		"reason":      reason,
		"updated_ids": result.UpdatedIDs,
	})
}

func (s *Service) writeAudit(ctx context.Context, action string, targetID snowflake.ID, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	var target *string
	if targetID != 0 {
		value := targetID.String()
		target = &value
	}
	if err := s.auditSvc.AuditLog(ctx, "", nil, action, "earning", target, metadata); err != nil {
		s.log.Warn("failed to write earning audit log", zap.String("action", action), zap.Error(err))
	}
}

func parseBatchIDs(rawIDs []string) ([]snowflake.ID, error) {
	if len(rawIDs) == 0 || len(rawIDs) > domain.MaxBatchSize {
		return nil, domain.ErrInvalidEarningIDs
	}

	seen := make(map[snowflake.ID]struct{}, len(rawIDs))
	ids := make([]snowflake.ID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := snowflake.ParseString(strings.TrimSpace(raw))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidEarningIDs
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func idStrings(ids []snowflake.ID) []string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}
