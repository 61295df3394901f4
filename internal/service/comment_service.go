package service

import (
	"errors"
	"fmt"
	"strings"

	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/thread"
)

type CommentService interface {
	Create(userID string, req CreateCommentRequest) (*model.Comment, error)
	GetThread(postID string) ([]*thread.Node, error)
	GetSubtree(id string) (*thread.Node, error)
	GetByID(id string) (*model.Comment, error)
	Update(id, userID string, req UpdateCommentRequest) (*model.Comment, error)
	Delete(id, userID string) error
}

type commentService struct {
	commentRepo         repository.CommentRepository
	postRepo            repository.PostRepository
	notificationService NotificationService
}

type CreateCommentRequest struct {
	PostID   string  `json:"post_id" binding:"required,uuid"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
	Content  string  `json:"content" binding:"required,min=1,max=10000"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notificationService NotificationService,
) CommentService {
	return &commentService{
		commentRepo:         commentRepo,
		postRepo:            postRepo,
		notificationService: notificationService,
	}
}

// Create creates a comment or reply and notifies the relevant author
func (s *commentService) Create(userID string, req CreateCommentRequest) (*model.Comment, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errors.New("comment content cannot be empty")
	}

	post, err := s.postRepo.FindByID(req.PostID)
	if err != nil {
		return nil, errors.New("post not found")
	}

	var parent *model.Comment
	if req.ParentID != nil && *req.ParentID != "" {
		parent, err = s.commentRepo.FindByID(*req.ParentID)
		if err != nil {
			return nil, errors.New("parent comment not found")
		}
		if parent.PostID != post.ID {
			return nil, errors.New("parent comment belongs to a different post")
		}
	} else {
		// Normalize empty string to a true root comment
		req.ParentID = nil
	}

	comment := &model.Comment{
		PostID:   post.ID,
		UserID:   userID,
		ParentID: req.ParentID,
		Content:  content,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.New("failed to create comment")
	}

	s.notifyCommented(userID, post, parent, comment)

	created, err := s.commentRepo.FindByID(comment.ID)
	if err != nil {
		return comment, nil
	}
	return created, nil
}

// GetThread returns the full comment forest for a post, replies nested under
// their parents and siblings ordered newest first
func (s *commentService) GetThread(postID string) ([]*thread.Node, error) {
	if _, err := s.postRepo.FindByID(postID); err != nil {
		return nil, errors.New("post not found")
	}

	records, err := s.commentRepo.FindFlatByPostID(postID)
	if err != nil {
		return nil, errors.New("failed to load comments")
	}

	return thread.Build(records), nil
}

// GetSubtree returns one comment with its full reply tree nested under it
func (s *commentService) GetSubtree(id string) (*thread.Node, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("comment not found")
	}

	records, err := s.commentRepo.FindFlatByPostID(comment.PostID)
	if err != nil {
		return nil, errors.New("failed to load comments")
	}

	for _, node := range thread.Flatten(thread.Build(records)) {
		if node.ID == id {
			return node, nil
		}
	}
	return nil, errors.New("comment not found")
}

// GetByID returns a single comment
func (s *commentService) GetByID(id string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("comment not found")
	}
	return comment, nil
}

// Update edits a comment's content, owner only
func (s *commentService) Update(id, userID string, req UpdateCommentRequest) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("comment not found")
	}

	if comment.UserID != userID {
		return nil, errors.New("you can only edit your own comments")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, errors.New("comment content cannot be empty")
	}

	comment.Content = content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, errors.New("failed to update comment")
	}

	return comment, nil
}

// Delete removes a comment, owner only. Replies survive; the thread builder
// reattaches them at the root when the parent is gone.
func (s *commentService) Delete(id, userID string) error {
	comment, err := s.commentRepo.FindByID(id)
	if err != nil {
		return errors.New("comment not found")
	}

	if comment.UserID != userID {
		return errors.New("you can only delete your own comments")
	}

	return s.commentRepo.Delete(id)
}

func (s *commentService) notifyCommented(userID string, post *model.Post, parent *model.Comment, comment *model.Comment) {
	if s.notificationService == nil {
		return
	}

	data := fmt.Sprintf(`{"post_id":"%s","comment_id":"%s"}`, post.ID, comment.ID)

	if parent != nil {
		s.notificationService.Notify(NotificationEvent{
			UserID:   parent.UserID,
			SenderID: &userID,
			Type:     model.NotificationTypeCommentReply,
			Title:    "New reply",
			Message:  "Someone replied to your comment",
			TargetID: &comment.ID,
			Data:     data,
		})
		// The post author also hears about replies, unless they wrote the parent
		if post.UserID != parent.UserID {
			s.notificationService.Notify(NotificationEvent{
				UserID:   post.UserID,
				SenderID: &userID,
				Type:     model.NotificationTypePostComment,
				Title:    "New comment",
				Message:  fmt.Sprintf("New activity on %q", post.Title),
				TargetID: &comment.ID,
				Data:     data,
			})
		}
		return
	}

	s.notificationService.Notify(NotificationEvent{
		UserID:   post.UserID,
		SenderID: &userID,
		Type:     model.NotificationTypePostComment,
		Title:    "New comment",
		Message:  fmt.Sprintf("Someone commented on %q", post.Title),
		TargetID: &comment.ID,
		Data:     data,
	})
}
