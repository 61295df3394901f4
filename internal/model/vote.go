package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vote shares the polymorphic target shape with Reaction. Value is +1 or -1;
// the composite unique index guarantees one vote per user per target, so
// switching direction is an in-place sign flip rather than a second row.
type Vote struct {
	ID         string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_vote_user_target,unique" json:"user_id"`
	TargetType string    `gorm:"type:varchar(20);not null;index:idx_vote_user_target,unique" json:"target_type"` // post, comment
	TargetID   string    `gorm:"type:uuid;not null;index:idx_vote_user_target,unique" json:"target_id"`
	Value      int       `gorm:"type:smallint;not null" json:"value"` // +1 or -1
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Vote) TableName() string {
	return "votes"
}

// Vote value constants
const (
	VoteUp   = 1
	VoteDown = -1
)
