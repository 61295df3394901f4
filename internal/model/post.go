package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Post struct {
	ID            string         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID        string         `gorm:"type:uuid;not null;index;references:users(id)" json:"user_id"`
	TeamID        *string        `gorm:"type:uuid;index;references:teams(id)" json:"team_id,omitempty"`
	Kind          string         `gorm:"type:varchar(20);not null;default:'question'" json:"kind"` // question, article
	Title         string         `gorm:"type:varchar(255);not null" json:"title"`
	Slug          string         `gorm:"type:varchar(280);not null;uniqueIndex" json:"slug"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	BodyHTML      string         `gorm:"type:text" json:"body_html,omitempty"`
	Tags          string         `gorm:"type:jsonb" json:"-"` // Array of tag strings stored as JSON
	CoverImageURL *string        `gorm:"type:text" json:"cover_image_url,omitempty"`
	IsPinned      bool           `gorm:"default:false" json:"is_pinned"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User  `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Team *Team `gorm:"foreignKey:TeamID;references:ID" json:"team,omitempty"`

	// Virtual fields, calculated by the service layer
	CommentCount  int64 `gorm:"-" json:"comment_count"`
	ReactionCount int64 `gorm:"-" json:"reaction_count"`
	Score         int64 `gorm:"-" json:"score"`
}

// BeforeCreate hook to generate UUID
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (Post) TableName() string {
	return "posts"
}

// GetTags returns Tags as a slice of strings
func (p *Post) GetTags() []string {
	if p.Tags == "" || p.Tags == "[]" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil {
		return []string{}
	}
	return tags
}

// SetTags sets Tags from a slice of strings
func (p *Post) SetTags(tags []string) error {
	if len(tags) == 0 {
		// Use empty JSON array instead of empty string for PostgreSQL JSONB
		p.Tags = "[]"
		return nil
	}
	bytes, err := json.Marshal(tags)
	if err != nil {
		return err
	}
	p.Tags = string(bytes)
	return nil
}

// MarshalJSON custom JSON marshaling to expose Tags as an array
func (p *Post) MarshalJSON() ([]byte, error) {
	type Alias Post
	aux := &struct {
		Tags []string `json:"tags"`
		*Alias
	}{
		Tags:  p.GetTags(),
		Alias: (*Alias)(p),
	}
	return json.Marshal(aux)
}

// Post kind constants
const (
	PostKindQuestion = "question"
	PostKindArticle  = "article"
)
