package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id string) (*model.Post, error)
	FindBySlug(slug string) (*model.Post, error)
	FindByUserID(userID string, limit, offset int) ([]*model.Post, int64, error)
	FindByTeamID(teamID string, limit, offset int) ([]*model.Post, int64, error)
	FindFeed(followeeIDs []string, limit, offset int) ([]*model.Post, int64, error)
	Search(keyword, tag string, limit, offset int) ([]*model.Post, int64, error)
	Update(post *model.Post) error
	Delete(id string) error
	IsSlugTaken(slug string) (bool, error)
}

type postRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	postCachePrefix     = "post:"
	postSlugCachePrefix = "post:slug:"
	postCacheExpiration = 15 * time.Minute
)

func NewPostRepository(db *gorm.DB, redis *util.RedisClient) PostRepository {
	return &postRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new post
func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID finds a post by ID
func (r *postRepository) FindByID(id string) (*model.Post, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.getFromCache(postCachePrefix + id)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var post model.Post
	err := r.db.Preload("User").Preload("Team").Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cachePost(&post)
	}

	return &post, nil
}

// FindBySlug finds a post by slug
func (r *postRepository) FindBySlug(slug string) (*model.Post, error) {
	// Try cache first
	if r.redis != nil {
		cached, err := r.redis.Get(postSlugCachePrefix + slug)
		if err == nil && cached != "" {
			return r.FindByID(cached)
		}
	}

	var post model.Post
	err := r.db.Preload("User").Preload("Team").Where("slug = ?", slug).First(&post).Error
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		r.redis.Set(postSlugCachePrefix+slug, post.ID, postCacheExpiration)
		r.cachePost(&post)
	}

	return &post, nil
}

// FindByUserID finds posts authored by a user
func (r *postRepository) FindByUserID(userID string, limit, offset int) ([]*model.Post, int64, error) {
	return r.list(r.db.Where("user_id = ?", userID), limit, offset)
}

// FindByTeamID finds posts published in a team
func (r *postRepository) FindByTeamID(teamID string, limit, offset int) ([]*model.Post, int64, error) {
	return r.list(r.db.Where("team_id = ?", teamID), limit, offset)
}

// FindFeed lists posts from the given authors (the viewer's followees),
// falling back to all posts when the list is empty
func (r *postRepository) FindFeed(followeeIDs []string, limit, offset int) ([]*model.Post, int64, error) {
	query := r.db
	if len(followeeIDs) > 0 {
		query = query.Where("user_id IN ?", followeeIDs)
	}
	return r.list(query, limit, offset)
}

// Search finds posts by keyword in title/body and optional tag
func (r *postRepository) Search(keyword, tag string, limit, offset int) ([]*model.Post, int64, error) {
	query := r.db
	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
	}
	if tag != "" {
		// Tags are stored as a JSONB array of strings
		query = query.Where("tags @> ?", fmt.Sprintf(`["%s"]`, tag))
	}
	return r.list(query, limit, offset)
}

func (r *postRepository) list(query *gorm.DB, limit, offset int) ([]*model.Post, int64, error) {
	var total int64
	if err := query.Model(&model.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*model.Post
	err := query.Model(&model.Post{}).Preload("User").Preload("Team").
		Order("is_pinned DESC, created_at DESC").
		Limit(limit).Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

// Update updates a post and invalidates cache
func (r *postRepository) Update(post *model.Post) error {
	if err := r.db.Save(post).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(postCachePrefix + post.ID)
		r.redis.Delete(postSlugCachePrefix + post.Slug)
	}

	return nil
}

// Delete deletes a post (soft delete) and invalidates cache
func (r *postRepository) Delete(id string) error {
	var post model.Post
	if err := r.db.Where("id = ?", id).First(&post).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&post).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(postCachePrefix + id)
		r.redis.Delete(postSlugCachePrefix + post.Slug)
	}

	return nil
}

// IsSlugTaken checks whether a slug is already in use
func (r *postRepository) IsSlugTaken(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("slug = ?", slug).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Cache helpers
func (r *postRepository) cachePost(post *model.Post) {
	if r.redis == nil {
		return
	}

	postJSON, err := json.Marshal(post)
	if err != nil {
		return
	}

	r.redis.Set(postCachePrefix+post.ID, string(postJSON), postCacheExpiration)
}

func (r *postRepository) getFromCache(key string) (*model.Post, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var post model.Post
	if err := json.Unmarshal([]byte(cached), &post); err != nil {
		return nil, err
	}

	return &post, nil
}
