package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	ActorType  string            `gorm:"type:text;not null" json:"actor_type"`
	ActorID    *string           `gorm:"type:text" json:"actor_id,omitempty"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	TargetType string            `gorm:"type:text;not null" json:"target_type"`
	TargetID   *string           `gorm:"type:text;index" json:"target_id,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	IPAddress  *string           `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent  *string           `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }
