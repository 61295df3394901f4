package service

import (
	"errors"

	"devhoc/internal/model"
	"devhoc/internal/repository"
)

type FollowService interface {
	Follow(followerID, followeeID string) error
	Unfollow(followerID, followeeID string) error
	IsFollowing(followerID, followeeID string) bool
	GetFollowers(userID string, limit, offset int) ([]*model.Follow, int64, error)
	GetFollowing(userID string, limit, offset int) ([]*model.Follow, int64, error)
}

type followService struct {
	followRepo          repository.FollowRepository
	userRepo            repository.UserRepository
	notificationService NotificationService
}

func NewFollowService(
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
	notificationService NotificationService,
) FollowService {
	return &followService{
		followRepo:          followRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// Follow makes followerID follow followeeID
func (s *followService) Follow(followerID, followeeID string) error {
	if followerID == "" {
		return errors.New("authentication required")
	}
	if followerID == followeeID {
		return errors.New("you cannot follow yourself")
	}

	followee, err := s.userRepo.FindByID(followeeID)
	if err != nil {
		return errors.New("user not found")
	}

	if _, err := s.followRepo.Find(followerID, followeeID); err == nil {
		return errors.New("already following this user")
	}

	follow := &model.Follow{
		FollowerID: followerID,
		FolloweeID: followeeID,
	}
	if err := s.followRepo.Create(follow); err != nil {
		return errors.New("failed to follow user")
	}

	if s.notificationService != nil {
		s.notificationService.Notify(NotificationEvent{
			UserID:   followee.ID,
			SenderID: &followerID,
			Type:     model.NotificationTypeFollow,
			Title:    "New follower",
			Message:  "Someone started following you",
		})
	}

	return nil
}

// Unfollow removes the follow edge
func (s *followService) Unfollow(followerID, followeeID string) error {
	if followerID == "" {
		return errors.New("authentication required")
	}

	if _, err := s.followRepo.Find(followerID, followeeID); err != nil {
		return errors.New("you are not following this user")
	}

	return s.followRepo.Delete(followerID, followeeID)
}

// IsFollowing reports whether followerID follows followeeID
func (s *followService) IsFollowing(followerID, followeeID string) bool {
	if followerID == "" {
		return false
	}
	_, err := s.followRepo.Find(followerID, followeeID)
	return err == nil
}

// GetFollowers lists a user's followers
func (s *followService) GetFollowers(userID string, limit, offset int) ([]*model.Follow, int64, error) {
	limit, offset = clampPage(limit, offset)
	return s.followRepo.FindFollowers(userID, limit, offset)
}

// GetFollowing lists who a user follows
func (s *followService) GetFollowing(userID string, limit, offset int) ([]*model.Follow, int64, error) {
	limit, offset = clampPage(limit, offset)
	return s.followRepo.FindFollowing(userID, limit, offset)
}
