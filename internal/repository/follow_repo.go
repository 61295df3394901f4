package repository

import (
	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type FollowRepository interface {
	Create(follow *model.Follow) error
	Delete(followerID, followeeID string) error
	Find(followerID, followeeID string) (*model.Follow, error)
	FindFollowers(userID string, limit, offset int) ([]*model.Follow, int64, error)
	FindFollowing(userID string, limit, offset int) ([]*model.Follow, int64, error)
	FolloweeIDs(followerID string) ([]string, error)
	CountFollowers(userID string) (int64, error)
	CountFollowing(userID string) (int64, error)
}

type followRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

func NewFollowRepository(db *gorm.DB, redis *util.RedisClient) FollowRepository {
	return &followRepository{db: db, redis: redis}
}

// Create creates a follow edge
func (r *followRepository) Create(follow *model.Follow) error {
	return r.db.Create(follow).Error
}

// Delete removes a follow edge
func (r *followRepository) Delete(followerID, followeeID string) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&model.Follow{}).Error
}

// Find finds a follow edge, if present
func (r *followRepository) Find(followerID, followeeID string) (*model.Follow, error) {
	var follow model.Follow
	err := r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		First(&follow).Error
	if err != nil {
		return nil, err
	}
	return &follow, nil
}

// FindFollowers lists users following userID
func (r *followRepository) FindFollowers(userID string, limit, offset int) ([]*model.Follow, int64, error) {
	query := r.db.Model(&model.Follow{}).Where("followee_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []*model.Follow
	err := query.Preload("Follower").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	return follows, total, nil
}

// FindFollowing lists users userID follows
func (r *followRepository) FindFollowing(userID string, limit, offset int) ([]*model.Follow, int64, error) {
	query := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var follows []*model.Follow
	err := query.Preload("Followee").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&follows).Error
	if err != nil {
		return nil, 0, err
	}

	return follows, total, nil
}

// FolloweeIDs returns the ids of everyone the user follows (for feed queries)
func (r *followRepository) FolloweeIDs(followerID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("followee_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CountFollowers counts followers of a user
func (r *followRepository) CountFollowers(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing counts how many users a user follows
func (r *followRepository) CountFollowing(userID string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
