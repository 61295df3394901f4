package repository

import (
	"fmt"
	"time"

	"devhoc/internal/model"
	"devhoc/internal/util"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *model.Notification) error
	FindByUserID(userID string, limit, offset int) ([]*model.Notification, error)
	FindUnreadByUserID(userID string) ([]*model.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkAsRead(id, userID string) error
	MarkAllAsRead(userID string) error
	Delete(id, userID string) error
}

type notificationRepository struct {
	db    *gorm.DB
	redis *util.RedisClient
}

const (
	notifUnreadCountCachePrefix = "notification:unread:"
	notifCacheExpiration        = 5 * time.Minute
)

func NewNotificationRepository(db *gorm.DB, redis *util.RedisClient) NotificationRepository {
	return &notificationRepository{db: db, redis: redis}
}

// Create creates a notification and invalidates the unread count cache
func (r *notificationRepository) Create(notification *model.Notification) error {
	if err := r.db.Create(notification).Error; err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(notifUnreadCountCachePrefix + notification.UserID)
	}

	return nil
}

// FindByUserID lists notifications for a user, newest first
func (r *notificationRepository) FindByUserID(userID string, limit, offset int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindUnreadByUserID lists unread notifications for a user
func (r *notificationRepository) FindUnreadByUserID(userID string) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.Preload("Sender").
		Where("user_id = ? AND is_read = false", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// CountUnread counts unread notifications for a user
func (r *notificationRepository) CountUnread(userID string) (int64, error) {
	// Try cache first
	cacheKey := notifUnreadCountCachePrefix + userID
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
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(cacheKey, fmt.Sprintf("%d", count), notifCacheExpiration)
	}

	return count, nil
}

// MarkAsRead marks one notification as read, scoped to its owner
func (r *notificationRepository) MarkAsRead(id, userID string) error {
	now := time.Now()
	result := r.db.Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redis != nil {
		r.redis.Delete(notifUnreadCountCachePrefix + userID)
	}

	return nil
}

// MarkAllAsRead marks all of a user's notifications as read
func (r *notificationRepository) MarkAllAsRead(userID string) error {
	now := time.Now()
	err := r.db.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = false", userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Delete(notifUnreadCountCachePrefix + userID)
	}

	return nil
}

// Delete deletes a notification, scoped to its owner
func (r *notificationRepository) Delete(id, userID string) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	if r.redis != nil {
		r.redis.Delete(notifUnreadCountCachePrefix + userID)
	}

	return nil
}
