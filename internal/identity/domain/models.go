package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type User struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	Email       string       `gorm:"not null;uniqueIndex" json:"email"`
	DisplayName string       `gorm:"not null" json:"display_name"`
	Role        string       `gorm:"type:text;not null;default:'member'" json:"role"`
	Status      string       `gorm:"type:text;not null;default:'active'" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (User) TableName() string { return "users" }

const (
	RoleAdmin  = "admin"
	RoleMember = "member"

	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)
