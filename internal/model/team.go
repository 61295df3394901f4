package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Team struct {
	ID          string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CreatedBy   string         `gorm:"type:uuid;not null;references:users(id)" json:"created_by"`
	Name        string         `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string         `gorm:"type:varchar(280);not null;uniqueIndex" json:"slug"`
	Description *string        `gorm:"type:text" json:"description,omitempty"`
	AvatarURL   *string        `gorm:"type:text" json:"avatar_url,omitempty"`
	Privacy     string         `gorm:"type:varchar(20);default:'open'" json:"privacy"` // open, invite
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Creator User `gorm:"foreignKey:CreatedBy;references:ID" json:"creator,omitempty"`

	// Virtual field, calculated by the repository
	MemberCount int64 `gorm:"-" json:"member_count"`
}

// BeforeCreate hook to generate UUID
func (t *Team) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Team) TableName() string {
	return "teams"
}

type TeamMember struct {
	ID        string    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeamID    string    `gorm:"type:uuid;not null;index:idx_team_member,unique;references:teams(id)" json:"team_id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_team_member,unique;references:users(id)" json:"user_id"`
	Role      string    `gorm:"type:varchar(20);default:'member'" json:"role"` // owner, moderator, member
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`
	User User `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

// BeforeCreate hook to generate UUID
func (m *TeamMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (TeamMember) TableName() string {
	return "team_members"
}

// Team member role constants
const (
	TeamRoleOwner     = "owner"
	TeamRoleModerator = "moderator"
	TeamRoleMember    = "member"
)

// Team privacy constants
const (
	TeamPrivacyOpen   = "open"
	TeamPrivacyInvite = "invite"
)
