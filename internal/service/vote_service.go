package service

import (
	"errors"
	"fmt"

	"devhoc/internal/model"
	"devhoc/internal/reaction"
	"devhoc/internal/repository"

	"gorm.io/gorm"
)

type VoteService interface {
	Toggle(userID string, req ToggleVoteRequest) (*ToggleVoteResponse, error)
	GetTally(targetType, targetID, viewerID string) (*reaction.VoteTally, error)
}

type voteService struct {
	voteRepo            repository.VoteRepository
	postRepo            repository.PostRepository
	commentRepo         repository.CommentRepository
	notificationService NotificationService
}

type ToggleVoteRequest struct {
	TargetType string `json:"target_type" binding:"required,oneof=post comment"`
	TargetID   string `json:"target_id" binding:"required,uuid"`
	Value      int    `json:"value" binding:"required,oneof=1 -1"`
}

type ToggleVoteResponse struct {
	Outcome string              `json:"outcome"` // created, removed, updated
	Tally   *reaction.VoteTally `json:"tally"`
}

func NewVoteService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	notificationService NotificationService,
) VoteService {
	return &voteService{
		voteRepo:            voteRepo,
		postRepo:            postRepo,
		commentRepo:         commentRepo,
		notificationService: notificationService,
	}
}

// Toggle applies one press of an up or down arrow: same direction twice
// clears the vote, the opposite direction flips it. A user holds at most
// one vote per target.
func (s *voteService) Toggle(userID string, req ToggleVoteRequest) (*ToggleVoteResponse, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}
	if !model.IsValidTargetType(req.TargetType) {
		return nil, errors.New("invalid target type")
	}
	if req.Value != model.VoteUp && req.Value != model.VoteDown {
		return nil, errors.New("vote value must be 1 or -1")
	}

	authorID, err := s.resolveTargetAuthor(req.TargetType, req.TargetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.voteRepo.FindByUserAndTarget(userID, req.TargetType, req.TargetID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.New("failed to load vote")
	}

	outcome := reaction.DecideVote(existing, req.Value)
	switch outcome {
	case reaction.Created:
		vote := &model.Vote{
			UserID:     userID,
			TargetType: req.TargetType,
			TargetID:   req.TargetID,
			Value:      req.Value,
		}
		if err := s.voteRepo.Create(vote); err != nil {
			return nil, errors.New("failed to create vote")
		}
		if req.Value == model.VoteUp {
			s.notifyVoted(userID, authorID, req)
		}
	case reaction.Removed:
		if err := s.voteRepo.Delete(existing.ID); err != nil {
			return nil, errors.New("failed to remove vote")
		}
	case reaction.Updated:
		existing.Value = req.Value
		if err := s.voteRepo.Update(existing); err != nil {
			return nil, errors.New("failed to update vote")
		}
	}

	tally, err := s.GetTally(req.TargetType, req.TargetID, userID)
	if err != nil {
		return nil, err
	}

	return &ToggleVoteResponse{
		Outcome: outcome.String(),
		Tally:   tally,
	}, nil
}

// GetTally returns the vote summary for a target. viewerID may be empty.
func (s *voteService) GetTally(targetType, targetID, viewerID string) (*reaction.VoteTally, error) {
	if !model.IsValidTargetType(targetType) {
		return nil, errors.New("invalid target type")
	}

	records, err := s.voteRepo.FindByTarget(targetType, targetID)
	if err != nil {
		return nil, errors.New("failed to load votes")
	}

	tally := reaction.TallyVotes(records, viewerID)
	return &tally, nil
}

func (s *voteService) resolveTargetAuthor(targetType, targetID string) (string, error) {
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

func (s *voteService) notifyVoted(userID, authorID string, req ToggleVoteRequest) {
	if s.notificationService == nil {
		return
	}
	s.notificationService.Notify(NotificationEvent{
		UserID:   authorID,
		SenderID: &userID,
		Type:     model.NotificationTypeVote,
		Title:    "New upvote",
		Message:  fmt.Sprintf("Someone upvoted your %s", req.TargetType),
		TargetID: &req.TargetID,
	})
}
