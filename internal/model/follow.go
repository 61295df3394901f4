package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Follow struct {
	ID          string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FollowerID  string    `gorm:"type:uuid;not null;index:idx_follower_followee,unique" json:"follower_id"`
	FolloweeID  string    `gorm:"type:uuid;not null;index:idx_follower_followee,unique" json:"followee_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID;references:ID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID;references:ID" json:"followee,omitempty"`
}

// BeforeCreate hook to generate UUID
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Follow) TableName() string {
	return "follows"
}
