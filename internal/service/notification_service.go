package service

import (
	"encoding/json"
	"errors"
	"log"

	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/util"
)

const (
	notificationExchange   = "devhoc.notifications"
	notificationQueue      = "notification_events"
	notificationRoutingKey = "notification.created"
)

// WSHub is the subset of the websocket hub the notification pipeline needs.
type WSHub interface {
	BroadcastToUser(userID string, message []byte)
}

// NotificationEvent is the queue payload for a notification to be delivered.
type NotificationEvent struct {
	UserID   string  `json:"user_id"`
	SenderID *string `json:"sender_id,omitempty"`
	Type     string  `json:"type"`
	Title    string  `json:"title"`
	Message  string  `json:"message"`
	TargetID *string `json:"target_id,omitempty"`
	Data     string  `json:"data,omitempty"`
}

type NotificationService interface {
	Notify(event NotificationEvent)
	List(userID string, limit, offset int) ([]*model.Notification, error)
	ListUnread(userID string) ([]*model.Notification, error)
	CountUnread(userID string) (int64, error)
	MarkAsRead(id, userID string) error
	MarkAllAsRead(userID string) error
	Delete(id, userID string) error

	// Deliver persists the event and pushes it over websocket. Called by
	// the queue worker, or directly when the broker is unavailable.
	Deliver(event NotificationEvent) error

	SetWSHub(hub WSHub)
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	rabbit           *util.RabbitMQClient
	wsHub            WSHub
}

func NewNotificationService(notificationRepo repository.NotificationRepository, rabbit *util.RabbitMQClient) NotificationService {
	s := &notificationService{
		notificationRepo: notificationRepo,
		rabbit:           rabbit,
	}

	if rabbit != nil {
		if err := rabbit.DeclareQueue(notificationExchange, notificationQueue, notificationRoutingKey); err != nil {
			log.Printf("Failed to declare notification queue: %v", err)
		}
	}

	return s
}

// SetWSHub attaches the websocket hub after construction (the hub needs the
// router to exist first, so it cannot be a constructor argument)
func (s *notificationService) SetWSHub(hub WSHub) {
	s.wsHub = hub
}

// Notify publishes a notification event to the queue. When the broker is
// down the event is delivered inline so notifications are not lost.
func (s *notificationService) Notify(event NotificationEvent) {
	// Never notify someone about their own action
	if event.SenderID != nil && *event.SenderID == event.UserID {
		return
	}

	if s.rabbit != nil {
		body, err := json.Marshal(event)
		if err == nil {
			if err := s.rabbit.Publish(notificationExchange, notificationRoutingKey, body); err == nil {
				return
			}
			log.Printf("Failed to publish notification, delivering inline: %v", err)
		}
	}

	if err := s.Deliver(event); err != nil {
		log.Printf("Failed to deliver notification: %v", err)
	}
}

// Deliver persists the notification and pushes it to the recipient's
// websocket connections
func (s *notificationService) Deliver(event NotificationEvent) error {
	// Data lands in a jsonb column; an empty string is not valid JSON
	if event.Data == "" {
		event.Data = "{}"
	}

	notification := &model.Notification{
		UserID:   event.UserID,
		SenderID: event.SenderID,
		Type:     event.Type,
		Title:    event.Title,
		Message:  event.Message,
		TargetID: event.TargetID,
		Data:     event.Data,
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return err
	}

	if s.wsHub != nil {
		payload, err := json.Marshal(map[string]interface{}{
			"event":        "notification",
			"notification": notification,
		})
		if err == nil {
			s.wsHub.BroadcastToUser(event.UserID, payload)
		}
	}

	return nil
}

// List lists a user's notifications, newest first
func (s *notificationService) List(userID string, limit, offset int) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.notificationRepo.FindByUserID(userID, limit, offset)
}

// ListUnread lists a user's unread notifications
func (s *notificationService) ListUnread(userID string) ([]*model.Notification, error) {
	return s.notificationRepo.FindUnreadByUserID(userID)
}

// CountUnread counts a user's unread notifications
func (s *notificationService) CountUnread(userID string) (int64, error) {
	return s.notificationRepo.CountUnread(userID)
}

// MarkAsRead marks one notification as read
func (s *notificationService) MarkAsRead(id, userID string) error {
	if err := s.notificationRepo.MarkAsRead(id, userID); err != nil {
		return errors.New("notification not found")
	}
	return nil
}

// MarkAllAsRead marks all of a user's notifications as read
func (s *notificationService) MarkAllAsRead(userID string) error {
	return s.notificationRepo.MarkAllAsRead(userID)
}

// Delete deletes a notification
func (s *notificationService) Delete(id, userID string) error {
	if err := s.notificationRepo.Delete(id, userID); err != nil {
		return errors.New("notification not found")
	}
	return nil
}
