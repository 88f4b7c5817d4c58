package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/smithline/atelier/internal/audit/domain"
	"github.com/smithline/atelier/internal/callerctx"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	creatorreportdomain "github.com/smithline/atelier/internal/creatorreport/domain"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	payoutdomain "github.com/smithline/atelier/internal/payout/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Stubs --

type identityStub struct {
	callers map[string]callerctx.Caller
}

func (s identityStub) Resolve(_ context.Context, token string) (callerctx.Caller, error) {
	caller, ok := s.callers[token]
	if !ok {
		return callerctx.Caller{}, identitydomain.ErrInvalidToken
	}
	return caller, nil
}

type earningStub struct {
	createEarning func(earningdomain.CreateEarningRequest) (earningdomain.Earning, error)
	transition    func(earningdomain.TransitionRequest) (earningdomain.TransitionResult, error)
}

func (s earningStub) CreateEarning(_ context.Context, req earningdomain.CreateEarningRequest) (earningdomain.Earning, error) {
	if s.createEarning == nil {
		return earningdomain.Earning{}, nil
	}
	return s.createEarning(req)
}

func (s earningStub) CreateAdjustment(context.Context, earningdomain.CreateAdjustmentRequest) (earningdomain.Earning, error) {
	return earningdomain.Earning{}, nil
}

func (s earningStub) MarkReadyToPay(_ context.Context, req earningdomain.TransitionRequest) (earningdomain.TransitionResult, error) {
	if s.transition == nil {
		return earningdomain.TransitionResult{}, nil
	}
	return s.transition(req)
}

func (s earningStub) MarkPaid(_ context.Context, req earningdomain.TransitionRequest) (earningdomain.TransitionResult, error) {
	if s.transition == nil {
		return earningdomain.TransitionResult{}, nil
	}
	return s.transition(req)
}

func (s earningStub) Void(context.Context, earningdomain.VoidRequest) (earningdomain.TransitionResult, error) {
	return earningdomain.TransitionResult{}, nil
}

type payoutStub struct{}

func (payoutStub) ProcessPayout(context.Context, payoutdomain.ProcessPayoutRequest) (payoutdomain.PayoutSummary, error) {
	return payoutdomain.PayoutSummary{}, nil
}

type reportStub struct {
	report creatorreportdomain.CreatorReport
}

func (s reportStub) GetCreatorReport(ctx context.Context, _ creatorreportdomain.GetCreatorReportRequest) (creatorreportdomain.CreatorReport, error) {
	caller, ok := callerctx.CallerFromContext(ctx)
	if ok && !caller.IsAdmin && caller.CreatorProfileID == nil {
		return creatorreportdomain.CreatorReport{}, creatorreportdomain.ErrCreatorProfileRequired
	}
	return s.report, nil
}

type auditStub struct{}

func (auditStub) AuditLog(context.Context, string, *string, string, string, *string, map[string]any) error {
	return nil
}

func (auditStub) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

// -- Fixture --

func newTestServer(t *testing.T, earnings earningStub) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandlingMiddleware())

	profileID := snowflake.ID(7)
	NewServer(ServerParams{
		Gin: r,
		IdentitySvc: identityStub{callers: map[string]callerctx.Caller{
			"admin-token": {UserID: snowflake.ID(1), IsAdmin: true},
			"creator-token": {
				UserID:             snowflake.ID(2),
				CreatorProfileID:   &profileID,
				CreatorDisplayName: "Aria Voss",
			},
			"member-token": {UserID: snowflake.ID(3)},
		}},
		AuditSvc:         auditStub{},
		EarningSvc:       earnings,
		PayoutSvc:        payoutStub{},
		CreatorReportSvc: reportStub{report: creatorreportdomain.CreatorReport{DisplayName: "Aria Voss"}},
	})

	return r
}

func postLedger(t *testing.T, r *gin.Engine, token string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/commission-ledger", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorType(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Type string `json:"type"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error.Type
}

// -- Tests --

func TestDispatch_MissingToken(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "", map[string]any{"action": "process_payout"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "unauthorized", errorType(t, w))
}

func TestDispatch_InvalidToken(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "bogus", map[string]any{"action": "process_payout"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDispatch_UnknownAction(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "admin-token", map[string]any{"action": "explode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorType(t, w))
}

func TestDispatch_MissingAction(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "admin-token", map[string]any{"sale_amount": "10"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDispatch_NonAdminMutationForbidden(t *testing.T) {
	r := newTestServer(t, earningStub{})

	for _, action := range []string{"create_earning", "create_adjustment", "mark_ready_to_pay", "mark_paid", "void_earnings", "process_payout"} {
		w := postLedger(t, r, "creator-token", map[string]any{"action": action})
		assert.Equal(t, http.StatusForbidden, w.Code, action)
		assert.Equal(t, "forbidden", errorType(t, w))
	}
}

func TestDispatch_AdminMarkPaid(t *testing.T) {
	var captured earningdomain.TransitionRequest
	r := newTestServer(t, earningStub{
		transition: func(req earningdomain.TransitionRequest) (earningdomain.TransitionResult, error) {
			captured = req
			return earningdomain.TransitionResult{
				UpdatedCount: 1,
				UpdatedIDs:   []string{"101"},
				SkippedIDs:   []string{"102"},
			}, nil
		},
	})

	w := postLedger(t, r, "admin-token", map[string]any{
		"action":      "mark_paid",
		"earning_ids": []string{"101", "102"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"101", "102"}, captured.EarningIDs)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			UpdatedCount int      `json:"updated_count"`
			SkippedIDs   []string `json:"skipped_ids"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.UpdatedCount)
	assert.Equal(t, []string{"102"}, resp.Data.SkippedIDs)
}

func TestDispatch_ValidationErrorMapsTo400(t *testing.T) {
	r := newTestServer(t, earningStub{
		transition: func(earningdomain.TransitionRequest) (earningdomain.TransitionResult, error) {
			return earningdomain.TransitionResult{}, earningdomain.ErrInvalidEarningIDs
		},
	})

	w := postLedger(t, r, "admin-token", map[string]any{"action": "mark_ready_to_pay"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", errorType(t, w))
}

func TestDispatch_NotFoundMapsTo404(t *testing.T) {
	r := newTestServer(t, earningStub{
		createEarning: func(earningdomain.CreateEarningRequest) (earningdomain.Earning, error) {
			return earningdomain.Earning{}, catalogdomain.ErrDesignNotFound
		},
	})

	w := postLedger(t, r, "admin-token", map[string]any{
		"action":      "create_earning",
		"design_id":   "999",
		"order_id":    "ord-1",
		"sale_amount": "100",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", errorType(t, w))
}

func TestDispatch_CreatorCanGetOwnReport(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "creator-token", map[string]any{"action": "get_creator_report"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			DisplayName string `json:"display_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Aria Voss", resp.Data.DisplayName)
}

func TestDispatch_MemberWithoutProfileForbiddenFromReport(t *testing.T) {
	r := newTestServer(t, earningStub{})

	w := postLedger(t, r, "member-token", map[string]any{"action": "get_creator_report"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	r := newTestServer(t, earningStub{})

	req := httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer creator-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/audit-logs", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
