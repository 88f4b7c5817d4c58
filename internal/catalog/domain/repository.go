package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindDesignByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Design, error)
	FindCreatorProfileByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*CreatorProfile, error)
}
