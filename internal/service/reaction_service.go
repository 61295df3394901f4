package service

import (
	"errors"
	"fmt"

	"devhoc/internal/model"
	"devhoc/internal/reaction"
	"devhoc/internal/repository"

	"gorm.io/gorm"
)

type ReactionService interface {
	Toggle(userID string, req ToggleReactionRequest) (*ToggleReactionResponse, error)
	GetAggregate(targetType, targetID, viewerID string) (*reaction.View, error)
}

type reactionService struct {
	reactionRepo        repository.ReactionRepository
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	notificationService NotificationService
}

type ToggleReactionRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Emoji      string `json:"emoji" binding:"required"`
}

type ToggleReactionResponse struct {
	Outcome   string         `json:"outcome"` // created, removed, updated
	Aggregate *reaction.View `json:"aggregate"`
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	notificationService NotificationService,
) ReactionService {
	return &reactionService{
		reactionRepo:        reactionRepo,
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		notificationService: notificationService,
	}
}

// Toggle applies one press of an emoji button: first press creates the
// reaction, pressing the same emoji again removes it, pressing a different
// emoji switches the existing record. A user never holds more than one
// reaction per target.
func (s *reactionService) Toggle(userID string, req ToggleReactionRequest) (*ToggleReactionResponse, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}
	if !model.IsValidTargetType(req.TargetType) {
		return nil, errors.New("invalid target type")
	}
	if !model.IsValidEmoji(req.Emoji) {
		return nil, errors.New("unsupported emoji")
	}

	authorID, err := s.resolveTargetAuthor(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.reactionRepo.FindByUserAndTarget(userID, req.TargetType, req.TargetID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("failed to load reaction")
	}

	outcome := reaction.Decide(existing, req.Emoji)
	switch outcome {
	case reaction.Created:
		rec := &model.Reaction{
			UserID:     userID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			Emoji:      req.Emoji,
		}
		if err := s.reactionRepo.Create(rec); err != nil {
			return nil, errors.New("failed to create reaction")
		}
		s.notifyReacted(userID, authorID, req)
	case reaction.Removed:
		if err := s.reactionRepo.Delete(existing.ID); err != nil {
			return nil, errors.New("failed to remove reaction")
		}
	case reaction.Updated:
		existing.Emoji = req.Emoji
		if err := s.reactionRepo.Update(existing); err != nil {
			return nil, errors.New("failed to update reaction")
		}
	}

	view, err := s.GetAggregate(req.TargetType, req.TargetID, userID)
	if err != nil {
		return nil, err
	}

	return &ToggleReactionResponse{
		Outcome:   outcome.String(),
		Aggregate: view,
	}, nil
}

// GetAggregate returns the reaction summary for a target: total, per-emoji
// breakdown, and the viewer's own emoji if they reacted. viewerID may be
// empty for anonymous readers.
func (s *reactionService) GetAggregate(targetType, targetID, viewerID string) (*reaction.View, error) {
	if !model.IsValidTargetType(targetType) {
		return nil, errors.New("invalid target type")
	}

	records, err := s.reactionRepo.FindByTarget(targetType, targetID)
	if err != nil {
		return nil, errors.New("failed to load reactions")
	}

	view := reaction.Aggregate(records, viewerID)
	return &view, nil
}

func (s *reactionService) resolveTargetAuthor(targetType, targetID string) (string, error) {
	switch targetType {
	case model.TargetTypePost:
		post, err := s.postRepo.FindByID(targetID)
		if err != nil {
			return "", errors.New("post not found")
		}
		return post.UserID, nil
	case model.TargetTypeComment:
		comment, err := s.commentRepo.FindByID(targetID)
		if err != nil {
			return "", errors.New("comment not found")
		}
		return comment.UserID, nil
	}
	return "", errors.New("invalid target type")
}

func (s *reactionService) notifyReacted(userID, authorID string, req ToggleReactionRequest) {
	if s.notificationService == nil {
		return
	}
	s.notificationService.Notify(NotificationEvent{
		UserID:   authorID,
		SenderID: &userID,
		Type:     model.NotificationTypeReaction,
		Title:    "New reaction",
		Message:  fmt.Sprintf("Someone reacted %s to your %s", req.Emoji, req.TargetType),
		TargetID: &req.TargetID,
	})
}
