package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smithline/atelier/internal/audit/domain"
	"github.com/smithline/atelier/internal/audit/repository"
	"github.com/smithline/atelier/internal/auditctx"
	"github.com/smithline/atelier/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestAuditLog_ActorFromContext(t *testing.T) {
	svc, db := newService(t)

	ctx := auditctx.WithActor(context.Background(), "admin", "42")
	ctx = auditctx.WithRequestID(ctx, "req-1")

	targetID := "1001"
	err := svc.AuditLog(ctx, "", nil, "earning.created", "earning", &targetID, map[string]any{
		"order_id": "ord-1",
	})
	require.NoError(t, err)

	var entry domain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "admin", entry.ActorType)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "42", *entry.ActorID)
	assert.Equal(t, "earning.created", entry.Action)
	require.NotNil(t, entry.TargetID)
	assert.Equal(t, "1001", *entry.TargetID)
	assert.Equal(t, "ord-1", entry.Metadata["order_id"])
	assert.Equal(t, "req-1", entry.Metadata["request_id"])
}

func TestAuditLog_FallsBackToSystemActor(t *testing.T) {
	svc, db := newService(t)

	require.NoError(t, svc.AuditLog(context.Background(), "", nil, "earning.voided", "earning", nil, nil))

	var entry domain.AuditLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, "system", entry.ActorType)
	assert.Nil(t, entry.ActorID)
}

func TestAuditLog_RequiresAction(t *testing.T) {
	svc, _ := newService(t)
	err := svc.AuditLog(context.Background(), "admin", nil, "  ", "earning", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestList_FilterAndPagination(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.AuditLog(ctx, "admin", nil, "earning.created", "earning", nil, nil))
	}
	require.NoError(t, svc.AuditLog(ctx, "admin", nil, "earning.voided", "earning", nil, nil))

	created, err := svc.List(ctx, domain.ListAuditLogRequest{Action: "earning.created"})
	require.NoError(t, err)
	assert.Len(t, created.AuditLogs, 5)

	page, err := svc.List(ctx, domain.ListAuditLogRequest{})
	require.NoError(t, err)
	assert.Len(t, page.AuditLogs, 6)

	first, err := svc.List(ctx, domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageSize: 4},
	})
	require.NoError(t, err)
	assert.Len(t, first.AuditLogs, 4)
	require.NotEmpty(t, first.NextPageToken)

	second, err := svc.List(ctx, domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageToken: first.NextPageToken, PageSize: 4},
	})
	require.NoError(t, err)
	assert.Len(t, second.AuditLogs, 2)
}

func TestList_InvalidPageToken(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.List(context.Background(), domain.ListAuditLogRequest{
		Pagination: pagination.Pagination{PageToken: "%%%not-base64%%%", PageSize: 10},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}
