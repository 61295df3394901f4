package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type VoteRepository interface {
	Create(vote *model.Vote) error
	Update(vote *model.Vote) error
	FindByTarget(targetType, targetID string) ([]model.Vote, error)
	FindByUserAndTarget(userID, targetType, targetID string) (*model.Vote, error)
	ScoreByTargets(targetType string, targetIDs []string) (map[string]int64, error)
	Delete(id string) error
}

type voteRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	voteByTargetCachePrefix = "vote:target:"
	voteCacheExpiration     = 10 * time.Minute
)

func NewVoteRepository(db *gorm.DB, redis *util.RedisClient) VoteRepository {
	return &voteRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new vote and invalidates related caches
func (r *voteRepository) Create(vote *model.Vote) error {
	if err := r.db.Create(vote).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(vote.TargetType, vote.TargetID)
	}

	return nil
}

// Update flips a vote's sign in place and invalidates cache
func (r *voteRepository) Update(vote *model.Vote) error {
	if err := r.db.Save(vote).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(vote.TargetType, vote.TargetID)
	}

	return nil
}

// FindByTarget finds all votes for a target (post or comment)
func (r *voteRepository) FindByTarget(targetType, targetID string) ([]model.Vote, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("%s%s:%s", voteByTargetCachePrefix, targetType, targetID)
	if r.redis != nil {
		cached, err := r.getListFromCache(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var votes []model.Vote
	err := r.db.Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&votes).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheVoteList(cacheKey, votes)
	}

	return votes, nil
}

// FindByUserAndTarget finds the user's vote on a target, if any.
// Returns gorm.ErrRecordNotFound when the user has not voted.
func (r *voteRepository) FindByUserAndTarget(userID, targetType, targetID string) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// ScoreByTargets sums vote values for multiple targets in one query
func (r *voteRepository) ScoreByTargets(targetType string, targetIDs []string) (map[string]int64, error) {
	if len(targetIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		TargetID string
		Score    int64
	}
	err := r.db.Model(&model.Vote{}).
		Select("target_id, coalesce(sum(value), 0) as score").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.TargetID] = row.Score
	}
	for _, id := range targetIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// Delete deletes a vote and invalidates cache
func (r *voteRepository) Delete(id string) error {
	// Get vote first for cache invalidation
	var vote model.Vote
	if err := r.db.Where("id = ?", id).First(&vote).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&vote).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(vote.TargetType, vote.TargetID)
	}

	return nil
}

// Cache helpers
func (r *voteRepository) cacheVoteList(key string, votes []model.Vote) {
	if r.redis == nil {
		return
	}

	votesJSON, err := json.Marshal(votes)
	if err != nil {
		return
	}

	r.redis.Set(key, string(votesJSON), voteCacheExpiration)
}

func (r *voteRepository) getListFromCache(key string) ([]model.Vote, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var votes []model.Vote
	if err := json.Unmarshal([]byte(cached), &votes); err != nil {
		return nil, err
	}

	return votes, nil
}

func (r *voteRepository) invalidateTargetCache(targetType, targetID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(fmt.Sprintf("%s%s:%s", voteByTargetCachePrefix, targetType, targetID))
}
