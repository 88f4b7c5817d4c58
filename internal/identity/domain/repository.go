package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smithline/atelier/internal/catalog/domain"
	"gorm.io/gorm"
)

type Repository interface {
	FindActiveUserByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*User, error)
	FindActiveProfileByUserID(ctx context.Context, db *gorm.DB, userID snowflake.ID) (*catalogdomain.CreatorProfile, error)
}
