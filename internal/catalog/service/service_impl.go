package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smithline/atelier/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

func (s *Service) GetDesign(ctx context.Context, req domain.GetDesignRequest) (domain.Design, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.Design{}, err
	}

	design, err := s.repo.FindDesignByID(ctx, s.db, id)
	if err != nil {
		return domain.Design{}, err
	}
	if design == nil {
		return domain.Design{}, domain.ErrDesignNotFound
	}

	return *design, nil
}

func (s *Service) GetCreatorProfile(ctx context.Context, req domain.GetCreatorProfileRequest) (domain.CreatorProfile, error) {
	id, err := parseID(req.ID)
	if err != nil {
		return domain.CreatorProfile{}, err
	}

	profile, err := s.repo.FindCreatorProfileByID(ctx, s.db, id)
	if err != nil {
		return domain.CreatorProfile{}, err
	}
	if profile == nil {
		return domain.CreatorProfile{}, domain.ErrCreatorNotFound
	}

	return *profile, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
