package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/golang-jwt/jwt/v5"
	"github.com/smithline/atelier/internal/callerctx"
	"github.com/smithline/atelier/internal/config"
	"github.com/smithline/atelier/internal/identity/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Cfg  config.Config
	Repo domain.Repository
}

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	secret []byte
	repo   domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("identity.service"),
		secret: []byte(p.Cfg.AuthJWTSecret),
		repo:   p.Repo,
	}
}

func (s *Service) Resolve(ctx context.Context, bearerToken string) (callerctx.Caller, error) {
	bearerToken = strings.TrimSpace(bearerToken)
	if bearerToken == "" {
		return callerctx.Caller{}, domain.ErrMissingToken
	}

	userID, err := s.subjectFromToken(bearerToken)
	if err != nil {
		return callerctx.Caller{}, err
	}

	user, err := s.repo.FindActiveUserByID(ctx, s.db, userID)
	if err != nil {
		return callerctx.Caller{}, err
	}
	if user == nil {
		return callerctx.Caller{}, domain.ErrInvalidToken
	}

	caller := callerctx.Caller{
		UserID:  user.ID,
		IsAdmin: user.Role == domain.RoleAdmin,
	}

	profile, err := s.repo.FindActiveProfileByUserID(ctx, s.db, user.ID)
	if err != nil {
		return callerctx.Caller{}, err
	}
	if profile != nil {
		profileID := profile.ID
		caller.CreatorProfileID = &profileID
		caller.CreatorDisplayName = profile.DisplayName
	}

	return caller, nil
}

func (s *Service) subjectFromToken(bearerToken string) (snowflake.ID, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(bearerToken, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		return 0, domain.ErrInvalidToken
	}

	userID, err := snowflake.ParseString(strings.TrimSpace(claims.Subject))
	if err != nil || userID == 0 {
		return 0, domain.ErrInvalidToken
	}
	return userID, nil
}
