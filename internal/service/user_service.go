package service

import (
	"errors"
	"strings"

	"devhoc/internal/model"
	"devhoc/internal/repository"
)

type UserService interface {
	GetProfile(username, viewerID string) (*UserProfile, error)
	UpdateProfile(userID string, req UpdateProfileRequest) (*model.User, error)
	Search(keyword string, limit, offset int) ([]*model.User, int64, error)
}

type userService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type UserProfile struct {
	*model.User
	IsFollowing bool `json:"is_following"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"full_name" binding:"omitempty,min=1,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=500"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) UserService {
	return &userService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// GetProfile returns a public profile with follower counts and whether the
// viewer follows them
func (s *userService) GetProfile(username, viewerID string) (*UserProfile, error) {
	user, err := s.userRepo.FindByUsername(strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, errors.New("user not found")
	}

	if followers, err := s.followRepo.CountFollowers(user.ID); err == nil {
		user.FollowerCount = followers
	}
	if following, err := s.followRepo.CountFollowing(user.ID); err == nil {
		user.FollowingCount = following
	}

	profile := &UserProfile{User: user}
	if viewerID != "" && viewerID != user.ID {
		if _, err := s.followRepo.Find(viewerID, user.ID); err == nil {
			profile.IsFollowing = true
		}
	}

	return profile, nil
}

// UpdateProfile edits the authenticated user's own profile
func (s *userService) UpdateProfile(userID string, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, errors.New("failed to update profile")
	}

	return user, nil
}

// Search finds users by username or full name
func (s *userService) Search(keyword string, limit, offset int) ([]*model.User, int64, error) {
	limit, offset = clampPage(limit, offset)
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []*model.User{}, 0, nil
	}
	return s.userRepo.Search(keyword, limit, offset)
}
