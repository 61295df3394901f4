package service

import (
	"testing"

	"devhoc/internal/model"

	"github.com/google/uuid"
)

func TestGetPostByIDFillsEngagementCounts(t *testing.T) {
	post := &model.Post{ID: uuid.New().String(), UserID: "author-1", Title: "A post", Slug: "a-post"}

	commentRepo := newFakeCommentRepo(
		&model.Comment{ID: "c1", PostID: post.ID, UserID: "user-1", Content: "first"},
		&model.Comment{ID: "c2", PostID: post.ID, UserID: "user-2", ParentID: ptrTo("c1"), Content: "reply"},
	)

	reactionRepo := newFakeReactionRepo()
	reactionRepo.Create(&model.Reaction{
		UserID: "user-1", TargetType: model.TargetTypePost, TargetID: post.ID, Emoji: model.EmojiLike,
	})

	voteRepo := newFakeVoteRepo()
	for _, v := range []struct {
		user  string
		value int
	}{
		{"user-1", model.VoteUp},
		{"user-2", model.VoteUp},
		{"user-3", model.VoteDown},
	} {
		voteRepo.Create(&model.Vote{
			UserID: v.user, TargetType: model.TargetTypePost, TargetID: post.ID, Value: v.value,
		})
	}

	svc := NewPostService(newFakePostRepo(post), commentRepo, reactionRepo, voteRepo, nil, nil, nil)

	got, err := svc.GetByID(post.ID, "")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CommentCount != 2 {
		t.Errorf("CommentCount = %d, want 2 (replies included)", got.CommentCount)
	}
	if got.ReactionCount != 1 {
		t.Errorf("ReactionCount = %d, want 1", got.ReactionCount)
	}
	if got.Score != 1 {
		t.Errorf("Score = %d, want 1", got.Score)
	}

	bySlug, err := svc.GetBySlug(post.Slug, "")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if bySlug.CommentCount != 2 || bySlug.ReactionCount != 1 || bySlug.Score != 1 {
		t.Errorf("slug lookup counts = %d/%d/%d, want 2/1/1",
			bySlug.CommentCount, bySlug.ReactionCount, bySlug.Score)
	}
}

func TestGetPostByIDMissing(t *testing.T) {
	svc := NewPostService(newFakePostRepo(), newFakeCommentRepo(), newFakeReactionRepo(), newFakeVoteRepo(), nil, nil, nil)

	if _, err := svc.GetByID(uuid.New().String(), ""); err == nil {
		t.Error("missing post accepted")
	}
}

func ptrTo(s string) *string { return &s }
