package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type ReactionRepository interface {
	Create(reaction *model.Reaction) error
	Update(reaction *model.Reaction) error
	FindByTarget(targetType, targetID string) ([]model.Reaction, error)
	FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error)
	CountByTarget(targetType, targetID string) (int64, error)
	CountByTargets(targetType string, targetIDs []string) (map[string]int64, error)
	Delete(id string) error
}

type reactionRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	reactionByTargetCachePrefix = "reaction:target:"
	reactionCountCachePrefix    = "reaction:count:"
	reactionCacheExpiration     = 10 * time.Minute
)

func NewReactionRepository(db *gorm.DB, redis *util.RedisClient) ReactionRepository {
	return &reactionRepository{
		db:    db,
		redis: redis,
	}
}

// Create creates a new reaction and invalidates related caches
func (r *reactionRepository) Create(reaction *model.Reaction) error {
	if err := r.db.Create(reaction).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(reaction.TargetType, reaction.TargetID)
	}

	return nil
}

// Update updates a reaction in place (emoji switch) and invalidates cache
func (r *reactionRepository) Update(reaction *model.Reaction) error {
	if err := r.db.Save(reaction).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(reaction.TargetType, reaction.TargetID)
	}

	return nil
}

// FindByTarget finds all reactions for a target (post or comment)
func (r *reactionRepository) FindByTarget(targetType, targetID string) ([]model.Reaction, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("%s%s:%s", reactionByTargetCachePrefix, targetType, targetID)
	if r.redis != nil {
		cached, err := r.getListFromCache(cacheKey)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	var reactions []model.Reaction
	err := r.db.Preload("User").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}

	// Cache the result
	if r.redis != nil {
		r.cacheReactionList(cacheKey, reactions)
	}

	return reactions, nil
}

// FindByUserAndTarget finds the user's reaction on a target, if any.
// Returns gorm.ErrRecordNotFound when the user has not reacted.
func (r *reactionRepository) FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// CountByTarget counts reactions for a target
func (r *reactionRepository) CountByTarget(targetType, targetID string) (int64, error) {
	// Try cache first
	cacheKey := fmt.Sprintf("%s%s:%s", reactionCountCachePrefix, targetType, targetID)
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
	err := r.db.Model(&model.Reaction{}).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	// Cache the count
	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), reactionCacheExpiration)
	}

	return count, nil
}

// CountByTargets counts reactions for multiple targets in one query
func (r *reactionRepository) CountByTargets(targetType string, targetIDs []string) (map[string]int64, error) {
	if len(targetIDs) == 0 {
		return map[string]int64{}, nil
	}
	var results []struct {
		TargetID string
		Count    int64
	}
	err := r.db.Model(&model.Reaction{}).
		Select("target_id, count(*) as count").
		Where("target_type = ? AND target_id IN ?", targetType, targetIDs).
		Group("target_id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64)
	for _, row := range results {
		m[row.TargetID] = row.Count
	}
	// Ensure all IDs have an entry (0 if not found)
	for _, id := range targetIDs {
		if _, ok := m[id]; !ok {
			m[id] = 0
		}
	}
	return m, nil
}

// Delete deletes a reaction and invalidates cache
func (r *reactionRepository) Delete(id string) error {
	// Get reaction first for cache invalidation
	var reaction model.Reaction
	if err := r.db.Where("id = ?", id).First(&reaction).Error; err != nil {
		return err
	}

	if err := r.db.Delete(&reaction).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.invalidateTargetCache(reaction.TargetType, reaction.TargetID)
	}

	return nil
}

// Cache helpers
func (r *reactionRepository) cacheReactionList(key string, reactions []model.Reaction) {
	if r.redis == nil {
		return
	}

	reactionsJSON, err := json.Marshal(reactions)
	if err != nil {
		return
	}

	r.redis.Set(key, string(reactionsJSON), reactionCacheExpiration)
}

func (r *reactionRepository) getListFromCache(key string) ([]model.Reaction, error) {
	if r.redis == nil {
		return nil, fmt.Errorf("redis not available")
	}

	cached, err := r.redis.Get(key)
	if err != nil {
		return nil, err
	}

	var reactions []model.Reaction
	if err := json.Unmarshal([]byte(cached), &reactions); err != nil {
		return nil, err
	}

	return reactions, nil
}

func (r *reactionRepository) invalidateTargetCache(targetType, targetID string) {
	if r.redis == nil {
		return
	}
	r.redis.Delete(fmt.Sprintf("%s%s:%s", reactionByTargetCachePrefix, targetType, targetID))
	r.redis.Delete(fmt.Sprintf("%s%s:%s", reactionCountCachePrefix, targetType, targetID))
}
