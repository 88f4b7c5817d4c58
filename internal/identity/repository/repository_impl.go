package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"github.com/smithline/atelier/internal/identity/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindActiveUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.User, error) {
	var user domain.User
	err := db.WithContext(ctx).Raw(
		`SELECT id, email, display_name, role, status, created_at, updated_at
		 FROM users WHERE id = ? AND status = ?`,
		id,
		domain.UserStatusActive,
	).Scan(&user).Error
	if err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, nil
	}
	return &user, nil
}

func (r *repo) FindActiveProfileByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*catalogdomain.CreatorProfile, error) {
	var profile catalogdomain.CreatorProfile
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, display_name, status, created_at, updated_at
		 FROM creator_profiles WHERE user_id = ? AND status = ?`,
		userID,
		catalogdomain.ProfileStatusActive,
	).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}
