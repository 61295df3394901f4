package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reaction is polymorphic over posts and comments via target_type + target_id.
// The composite unique index enforces at most one reaction per user per target.
type Reaction struct {
	ID         string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index:idx_reaction_user_target,unique" json:"user_id"`
	TargetType string    `gorm:"type:varchar(20);not null;index:idx_reaction_user_target,unique" json:"target_type"` // post, comment
	TargetID   string    `gorm:"type:uuid;not null;index:idx_reaction_user_target,unique" json:"target_id"`
	Emoji      string    `gorm:"type:varchar(20);not null;default:'like'" json:"emoji"` // like, love, laugh, wow, sad, fire
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (r *Reaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Reaction) TableName() string {
	return "reactions"
}

// Constants for target types
const (
	TargetTypePost    = "post"
	TargetTypeComment = "comment"
)

// Constants for emoji reactions
const (
	EmojiLike  = "like"
	EmojiLove  = "love"
	EmojiLaugh = "laugh"
	EmojiWow   = "wow"
	EmojiSad   = "sad"
	EmojiFire  = "fire"
)

// Emojis lists every reaction the API accepts.
var Emojis = []string{EmojiLike, EmojiLove, EmojiLaugh, EmojiWow, EmojiSad, EmojiFire}

// IsValidEmoji reports whether e is in the fixed emoji set.
func IsValidEmoji(e string) bool {
	for _, v := range Emojis {
		if e == v {
			return true
		}
	}
	return false
}

// IsValidTargetType reports whether t names a reactable entity.
func IsValidTargetType(t string) bool {
	return t == TargetTypePost || t == TargetTypeComment
}
