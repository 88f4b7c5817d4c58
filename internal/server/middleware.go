package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	auditctx "github.com/smithline/atelier/internal/auditctx"
	"github.com/smithline/atelier/internal/callerctx"
	identitydomain "github.com/smithline/atelier/internal/identity/domain"
	obscontext "github.com/smithline/atelier/internal/observability/context"
)

// AuthRequired resolves the bearer token into caller facts and injects them
// into the request context. It authenticates only; capability checks happen
// per action.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		caller, err := s.identitySvc.Resolve(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		actorID := caller.UserID.String()
		actorType := "user"
		if caller.IsAdmin {
			actorType = "admin"
		}

		ctx := callerctx.WithCaller(c.Request.Context(), caller)
		ctx = auditctx.WithActor(ctx, actorType, actorID)
		ctx = obscontext.WithActor(ctx, actorType, actorID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// AdminRequired gates a route group on the admin capability. It assumes
// AuthRequired already ran.
func (s *Server) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := callerctx.CallerFromContext(c.Request.Context())
		if !ok {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !caller.IsAdmin {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, error) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header == "" {
		return "", identitydomain.ErrMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", identitydomain.ErrInvalidToken
	}
	return strings.TrimSpace(parts[1]), nil
}
