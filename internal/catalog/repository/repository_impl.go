package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smithline/atelier/internal/catalog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindDesignByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Design, error) {
	var design domain.Design
	err := db.WithContext(ctx).Raw(
		`SELECT id, creator_profile_id, title, sku, commission_type, commission_value, status, created_at, updated_at
		 FROM designs WHERE id = ?`,
		id,
	).Scan(&design).Error
	if err != nil {
		return nil, err
	}
	if design.ID == 0 {
		return nil, nil
	}
	return &design, nil
}

func (r *repo) FindCreatorProfileByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.CreatorProfile, error) {
	var profile domain.CreatorProfile
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, display_name, status, created_at, updated_at
		 FROM creator_profiles WHERE id = ?`,
		id,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}
