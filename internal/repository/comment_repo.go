package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id string) (*model.Comment, error)
	FindFlatByPostID(postID string) ([]model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id string) error
	CountByPostID(postID string) (int64, error)
	CountByPostIDs(postIDs []string) (map[string]int64, error)
}

type commentRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	commentCachePrefix       = "comment:"
	commentByPostCachePrefix = "comment:post:"
	commentCountCachePrefix  = "comment:count:"
	commentCacheExpiration   = 15 * time.Minute
)

func NewCommentRepository(db *gorm.DB, redis *util.RedisClient) CommentRepository {
	return &commentRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new comment and invalidates related caches
func (r *commentRepository) Create(comment *model.Comment) error {
	if err := r.db.Create(comment).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidatePostCache(comment.PostID)
	}

	return nil
}

// FindByID finds a comment by ID
func (r *commentRepository) FindByID(id string) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Preload("User").Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindFlatByPostID returns every comment and reply of a post as a flat set.
// Threading is not done here; the thread package rebuilds the forest from
// this snapshot, which keeps the query single-pass instead of recursive.
func (r *commentRepository) FindFlatByPostID(postID string) ([]model.Comment, error) {
	// Try cache first
	cacheKey := commentByPostCachePrefix + postID
	if r.redis != nil {
		cached, err := r.getListFromCache(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var comments []model.Comment
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheCommentList(cacheKey, comments)
	}

	return comments, nil
}

// Update updates a comment and invalidates cache
func (r *commentRepository) Update(comment *model.Comment) error {
	if err := r.db.Save(comment).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(commentCachePrefix + comment.ID)
		r.invalidatePostCache(comment.PostID)
	}

	return nil
}

// Delete deletes a comment (soft delete) and invalidates cache
func (r *commentRepository) Delete(id string) error {
	// Get comment first for cache invalidation
	var comment model.Comment
	if err := r.db.Where("id = ?", id).First(&comment).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&comment).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(commentCachePrefix + id)
		r.invalidatePostCache(comment.PostID)
	}

	return nil
}

// CountByPostID counts comments by post ID
func (r *commentRepository) CountByPostID(postID string) (int64, error) {
	// Try cache first
	cacheKey := commentCountCachePrefix + postID
	if r.redis != nil {
		cached, err := r.redis.Get(cacheKey)
		if err == nil {
			var count int64
			if _, err := fmt.Sscanf(cached, "%d", &count); err == nil {
				return count, nil
			}
		}
	}

	var count int64
	err := r.db.Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	// Cache the count
	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), commentCacheExpiration)
	}

	return count, nil
}

// CountByPostIDs counts comments for multiple posts in one query (includes replies)
func (r *commentRepository) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	if len(postIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		PostID string
		Count  int64
	}
	err := r.db.Model(&model.Comment{}).
		Select("post_id, count(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.PostID] = row.Count
	}
	for _, id := range postIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// Cache helpers
func (r *commentRepository) cacheCommentList(key string, comments []model.Comment) {
	if r.redis == nil {
		return
	}

	commentsJSON, err := json.Marshal(comments)
	if err != nil {
		return
	}

	r.redis.Set(key, string(commentsJSON), commentCacheExpiration)
}

func (r *commentRepository) getListFromCache(key string) ([]model.Comment, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var comments []model.Comment
	if err := json.Unmarshal([]byte(cached), &comments); err != nil {
		return nil, err
	}

	return comments, nil
}

func (r *commentRepository) invalidatePostCache(postID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(commentByPostCachePrefix + postID)
	r.redis.Delete(commentCountCachePrefix + postID)
}
