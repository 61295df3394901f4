package service

import (
	"errors"
	"strings"

	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/util"
)

type AuthService interface {
	Register(req RegisterRequest) (*AuthResponse, error)
	Login(req LoginRequest) (*AuthResponse, error)
	RefreshToken(refreshToken string) (*AuthResponse, error)
	GetMe(userID string) (*model.User, error)
	DeleteAccount(userID string) error
}

type authService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) AuthService {
	return &authService{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new user account
func (s *authService) Register(req RegisterRequest) (*AuthResponse, error) {
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, errors.New("email already registered")
	}
	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, errors.New("username already taken")
	}

	hash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         model.RoleMember,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, errors.New("failed to create user")
	}

	return s.issueTokens(user)
}

// Login authenticates a user by email and password
func (s *authService) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	ok, err := util.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, errors.New("invalid email or password")
	}

	return s.issueTokens(user)
}

// RefreshToken exchanges a valid refresh token for a new token pair
func (s *authService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		return nil, errors.New("invalid or expired refresh token")
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return s.issueTokens(user)
}

// GetMe returns the authenticated user's own record
func (s *authService) GetMe(userID string) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

// DeleteAccount soft deletes the user's account
func (s *authService) DeleteAccount(userID string) error {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return errors.New("user not found")
	}
	return s.userRepo.Delete(userID)
}

func (s *authService) issueTokens(user *model.User) (*AuthResponse, error) {
	access, err := util.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, util.AccessTokenTTL)
	if err != nil {
		return nil, errors.New("failed to generate access token")
	}

	refresh, err := util.GenerateToken(user.ID, user.Email, user.Role, s.jwtSecret, util.RefreshTokenTTL)
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
