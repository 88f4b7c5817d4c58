package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smithline/atelier/internal/audit/domain"
	"github.com/smithline/atelier/internal/auditctx"
	"github.com/smithline/atelier/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) AuditLog(ctx context.Context, actorType string, actorID *string, action string, targetType string, targetID *string, metadata map[string]any) error {
	action = strings.TrimSpace(action)
	if action == "" {
		return domain.ErrInvalidAction
	}

	targetType = strings.TrimSpace(targetType)
	if targetType == "" {
		targetType = "unknown"
	}

	resolvedActorType, resolvedActorID := s.resolveActor(ctx, strings.TrimSpace(actorType), actorID)

	payload := map[string]any{}
	for key, value := range metadata {
		if key == "" {
			continue
		}
		payload[key] = value
	}
	if requestID := auditctx.RequestIDFromContext(ctx); requestID != "" {
		payload["request_id"] = requestID
	}

	entry := domain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  resolvedActorType,
		ActorID:    resolvedActorID,
		Action:     action,
		TargetType: targetType,
		TargetID:   normalizePointer(targetID),
		Metadata:   datatypes.JSONMap(payload),
		CreatedAt:  time.Now().UTC(),
	}
	if ip := auditctx.IPAddressFromContext(ctx); ip != "" {
		entry.IPAddress = &ip
	}
	if ua := auditctx.UserAgentFromContext(ctx); ua != "" {
		entry.UserAgent = &ua
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListAuditLogRequest) (domain.ListAuditLogResponse, error) {
	if req.StartAt != nil && req.EndAt != nil && req.EndAt.Before(*req.StartAt) {
		return domain.ListAuditLogResponse{}, domain.ErrInvalidTimeRange
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	entries, err := s.repo.List(ctx, s.db, domain.ListAuditLogFilter{
		Action:     strings.TrimSpace(req.Action),
		TargetType: strings.TrimSpace(req.TargetType),
		TargetID:   strings.TrimSpace(req.TargetID),
		ActorType:  strings.TrimSpace(req.ActorType),
		StartAt:    req.StartAt,
		EndAt:      req.EndAt,
	}, pagination.Pagination{PageToken: req.PageToken, PageSize: pageSize})
	if err != nil {
		return domain.ListAuditLogResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(entries, int32(pageSize), func(entry *domain.AuditLog) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        entry.ID.String(),
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(entries) > pageSize {
		entries = entries[:pageSize]
	}

	logs := make([]domain.AuditLog, 0, len(entries))
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		logs = append(logs, *entry)
	}

	resp := domain.ListAuditLogResponse{AuditLogs: logs}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) resolveActor(ctx context.Context, actorType string, actorID *string) (string, *string) {
	if actorType != "" {
		return actorType, normalizePointer(actorID)
	}
	ctxType, ctxID := auditctx.ActorFromContext(ctx)
	if ctxType == "" {
		return "system", nil
	}
	if ctxID == "" {
		return ctxType, nil
	}
	return ctxType, &ctxID
}

func normalizePointer(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
