package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smithline/atelier/internal/audit"
	auditdomain "github.com/smithline/atelier/internal/audit/domain"
	"github.com/smithline/atelier/internal/catalog"
	"github.com/smithline/atelier/internal/config"
	"github.com/smithline/atelier/internal/creatorreport"
	creatorreportdomain "github.com/smithline/atelier/internal/creatorreport/domain"
	"github.com/smithline/atelier/internal/earning"
	earningdomain "github.com/smithline/atelier/internal/earning/domain"
	"github.com/smithline/atelier/internal/identity"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	"github.com/smithline/atelier/internal/observability"
	obsmiddleware "github.com/smithline/atelier/internal/observability/logger"
	obsmetrics "github.com/smithline/atelier/internal/observability/metrics"
	obstracing "github.com/smithline/atelier/internal/observability/tracing"
	"github.com/smithline/atelier/internal/payout"
	payoutdomain "github.com/smithline/atelier/internal/payout/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	catalog.Module,
	identity.Module,
	earning.Module,
	payout.Module,
	creatorreport.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine           *gin.Engine
	identitySvc      identitydomain.Service
	auditSvc         auditdomain.Service
	earningSvc       earningdomain.Service
	payoutSvc        payoutdomain.Service
	creatorReportSvc creatorreportdomain.Service
	obsMetrics       *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin              *gin.Engine
	IdentitySvc      identitydomain.Service
	AuditSvc         auditdomain.Service
	EarningSvc       earningdomain.Service
	PayoutSvc        payoutdomain.Service
	CreatorReportSvc creatorreportdomain.Service
	ObsMetrics       *obsmetrics.Metrics `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:           p.Gin,
		identitySvc:      p.IdentitySvc,
		auditSvc:         p.AuditSvc,
		earningSvc:       p.EarningSvc,
		payoutSvc:        p.PayoutSvc,
		creatorReportSvc: p.CreatorReportSvc,
		obsMetrics:       p.ObsMetrics,
	}

	svc.registerLedgerRoutes()
	svc.registerAdminRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerLedgerRoutes() {
	v1 := s.engine.Group("/v1")
	v1.POST("/commission-ledger", s.AuthRequired(), s.DispatchLedgerAction)
}

func (s *Server) registerAdminRoutes() {
	admin := s.engine.Group("/admin", s.AuthRequired(), s.AdminRequired())
	admin.GET("/audit-logs", s.ListAuditLogs)
}

func classifyErrorForLog(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	if vErr := asValidationErrors(err); vErr != nil {
		code := ""
		if len(vErr.Errors) > 0 {
			code = vErr.Errors[0].Code
		}
		return "validation_error", code
	}
	if isValidationError(err) {
		return "validation_error", validationErrorCode(err)
	}
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, identitydomain.ErrMissingToken),
		errors.Is(err, identitydomain.ErrInvalidToken):
		return "unauthorized", err.Error()
	case errors.Is(err, ErrForbidden),
		errors.Is(err, creatorreportdomain.ErrCreatorProfileRequired):
		return "forbidden", err.Error()
	case isNotFoundError(err):
		return "not_found", err.Error()
	default:
		return "internal_error", ""
	}
}
