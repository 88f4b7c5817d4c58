package domain

import (
	"context"
	"time"

	"github.com/smithline/atelier/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListAuditLogFilter struct {
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListAuditLogFilter, page pagination.Pagination) ([]*AuditLog, error)
}
