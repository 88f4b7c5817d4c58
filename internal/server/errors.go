package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	auditdomain "github.com/smithline/atelier/internal/audit/domain"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	creatorreportdomain "github.com/smithline/atelier/internal/creatorreport/domain"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	payoutdomain "github.com/smithline/atelier/internal/payout/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identitydomain.ErrMissingToken),
		errors.Is(err, identitydomain.ErrInvalidToken):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, creatorreportdomain.ErrCreatorProfileRequired):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isEarningValidationError(err),
		isPayoutValidationError(err),
		isReportValidationError(err),
		isAuditValidationError(err),
		errors.Is(err, catalogdomain.ErrInvalidID):
		return true
	default:
		return false
	}
}

func isEarningValidationError(err error) bool {
	switch {
	case errors.Is(err, earningdomain.ErrInvalidOrderID),
		errors.Is(err, earningdomain.ErrInvalidSaleAmount),
		errors.Is(err, earningdomain.ErrInvalidQuantity),
		errors.Is(err, earningdomain.ErrInvalidAdjustmentAmount),
		errors.Is(err, earningdomain.ErrInvalidEarningIDs),
		errors.Is(err, earningdomain.ErrInvalidVoidSelector),
		errors.Is(err, earningdomain.ErrUnknownCommissionType):
		return true
	default:
		return false
	}
}

func isPayoutValidationError(err error) bool {
	return errors.Is(err, payoutdomain.ErrInvalidPeriod)
}

func isReportValidationError(err error) bool {
	switch {
	case errors.Is(err, creatorreportdomain.ErrInvalidPeriod),
		errors.Is(err, creatorreportdomain.ErrInvalidCreatorProfileID):
		return true
	default:
		return false
	}
}

func isAuditValidationError(err error) bool {
	switch {
	case errors.Is(err, auditdomain.ErrInvalidAction),
		errors.Is(err, auditdomain.ErrInvalidPageToken),
		errors.Is(err, auditdomain.ErrInvalidTimeRange):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, catalogdomain.ErrDesignNotFound),
		errors.Is(err, catalogdomain.ErrCreatorNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return err.Error()
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return "invalid value"
	}
}
