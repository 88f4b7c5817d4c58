package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smithline/atelier/internal/callerctx"
	creatorreportdomain "github.com/smithline/atelier/internal/creatorreport/domain"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	payoutdomain "github.com/smithline/atelier/internal/payout/domain"
)

type actionEnvelope struct {
	Action string `json:"action"`
}

type createEarningBody struct {
	DesignID   string          `json:"design_id"`
	OrderID    string          `json:"order_id"`
	SaleAmount decimal.Decimal `json:"sale_amount"`
	Quantity   int             `json:"quantity"`
}

type createAdjustmentBody struct {
	CreatorProfileID string          `json:"creator_profile_id"`
	AdjustmentAmount decimal.Decimal `json:"adjustment_amount"`
	Reason           string          `json:"reason"`
	OrderID          string          `json:"order_id"`
}

type transitionBody struct {
	EarningIDs []string `json:"earning_ids"`
}

type voidBody struct {
	EarningIDs []string `json:"earning_ids"`
	OrderID    string   `json:"order_id"`
	Reason     string   `json:"reason"`
}

type processPayoutBody struct {
	Period string `json:"period"`
}

type creatorReportBody struct {
	CreatorProfileID string `json:"creator_profile_id"`
	Period           string `json:"period"`
}

// DispatchLedgerAction is the single entry point of the commission ledger.
// The request names its action in the body; each action carries its own
// payload fields and capability requirement.
func (s *Server) DispatchLedgerAction(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var envelope actionEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Action == "" {
		AbortWithError(c, newValidationError("action", "invalid_action", "invalid or missing action"))
		return
	}
	c.Set("ledger_action", envelope.Action)

	caller, ok := callerctx.CallerFromContext(c.Request.Context())
	if !ok {
		AbortWithError(c, ErrUnauthorized)
		return
	}

	// Every action except the creator report requires the admin capability.
	if envelope.Action != "get_creator_report" && !caller.IsAdmin {
		s.recordAction(c, envelope.Action, "forbidden")
		AbortWithError(c, ErrForbidden)
		return
	}

	var (
		data       any
		handlerErr error
	)
	switch envelope.Action {
	case "create_earning":
		data, handlerErr = s.handleCreateEarning(c, body)
	case "create_adjustment":
		data, handlerErr = s.handleCreateAdjustment(c, body)
	case "mark_ready_to_pay":
		data, handlerErr = s.handleMarkReadyToPay(c, body)
	case "mark_paid":
		data, handlerErr = s.handleMarkPaid(c, body)
	case "void_earnings":
		data, handlerErr = s.handleVoidEarnings(c, body)
	case "process_payout":
		data, handlerErr = s.handleProcessPayout(c, body)
	case "get_creator_report":
		data, handlerErr = s.handleGetCreatorReport(c, body)
	default:
		s.recordAction(c, envelope.Action, "unknown")
		AbortWithError(c, newValidationError("action", "unknown_action", "unknown action"))
		return
	}

	if handlerErr != nil {
		s.recordAction(c, envelope.Action, "error")
		AbortWithError(c, handlerErr)
		return
	}

	s.recordAction(c, envelope.Action, "ok")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) recordAction(c *gin.Context, action, outcome string) {
	s.obsMetrics.RecordLedgerAction(c.Request.Context(), action, outcome)
}

func (s *Server) handleCreateEarning(c *gin.Context, body []byte) (any, error) {
	var req createEarningBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.earningSvc.CreateEarning(c.Request.Context(), earningdomain.CreateEarningRequest{
		DesignID:   req.DesignID,
		OrderID:    req.OrderID,
		SaleAmount: req.SaleAmount,
		Quantity:   req.Quantity,
	})
}

func (s *Server) handleCreateAdjustment(c *gin.Context, body []byte) (any, error) {
	var req createAdjustmentBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.earningSvc.CreateAdjustment(c.Request.Context(), earningdomain.CreateAdjustmentRequest{
		CreatorProfileID: req.CreatorProfileID,
		AdjustmentAmount: req.AdjustmentAmount,
		Reason:           req.Reason,
		OrderID:          req.OrderID,
	})
}

func (s *Server) handleMarkReadyToPay(c *gin.Context, body []byte) (any, error) {
	var req transitionBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.earningSvc.MarkReadyToPay(c.Request.Context(), earningdomain.TransitionRequest{
		EarningIDs: req.EarningIDs,
	})
}

func (s *Server) handleMarkPaid(c *gin.Context, body []byte) (any, error) {
	var req transitionBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.earningSvc.MarkPaid(c.Request.Context(), earningdomain.TransitionRequest{
		EarningIDs: req.EarningIDs,
	})
}

func (s *Server) handleVoidEarnings(c *gin.Context, body []byte) (any, error) {
	var req voidBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.earningSvc.Void(c.Request.Context(), earningdomain.VoidRequest{
		EarningIDs: req.EarningIDs,
		OrderID:    req.OrderID,
		Reason:     req.Reason,
	})
}

func (s *Server) handleProcessPayout(c *gin.Context, body []byte) (any, error) {
	var req processPayoutBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.payoutSvc.ProcessPayout(c.Request.Context(), payoutdomain.ProcessPayoutRequest{
		Period: req.Period,
	})
}

func (s *Server) handleGetCreatorReport(c *gin.Context, body []byte) (any, error) {
	var req creatorReportBody
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, invalidRequestError()
	}
	return s.creatorReportSvc.GetCreatorReport(c.Request.Context(), creatorreportdomain.GetCreatorReportRequest{
		CreatorProfileID: req.CreatorProfileID,
		Period:           req.Period,
	})
}
