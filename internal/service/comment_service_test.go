package service

import (
	"testing"

	"devhoc/internal/model"

	"github.com/google/uuid"
)

func newCommentFixture() (CommentService, *fakeCommentRepo, *model.Post) {
	post := &model.Post{ID: uuid.New().String(), UserID: "author-1", Title: "A post"}
	commentRepo := newFakeCommentRepo()
	svc := NewCommentService(commentRepo, newFakePostRepo(post), nil)
	return svc, commentRepo, post
}

func TestCreateCommentAndReply(t *testing.T) {
	svc, _, post := newCommentFixture()

	root, err := svc.Create("user-1", CreateCommentRequest{
		PostID:  post.ID,
		Content: "first!",
	})
	if err != nil {
		t.Fatalf("create root: %v", err)
	}
	if root.ParentID != nil {
		t.Error("root comment should have no parent")
	}

	reply, err := svc.Create("user-2", CreateCommentRequest{
		PostID:   post.ID,
		ParentID: &root.ID,
		Content:  "replying",
	})
	if err != nil {
		t.Fatalf("create reply: %v", err)
	}
	if reply.ParentID == nil || *reply.ParentID != root.ID {
		t.Error("reply not linked to its parent")
	}

	forest, err := svc.GetThread(post.ID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if len(forest) != 1 {
		t.Fatalf("expected one root, got %d", len(forest))
	}
	if len(forest[0].Replies) != 1 || forest[0].Replies[0].ID != reply.ID {
		t.Error("reply missing from thread")
	}
}

func TestCreateCommentCrossPostParentRejected(t *testing.T) {
	post := &model.Post{ID: uuid.New().String(), UserID: "author-1"}
	other := &model.Post{ID: uuid.New().String(), UserID: "author-2"}
	commentRepo := newFakeCommentRepo()
	svc := NewCommentService(commentRepo, newFakePostRepo(post, other), nil)

	parent, err := svc.Create("user-1", CreateCommentRequest{PostID: post.ID, Content: "on post A"})
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Create("user-2", CreateCommentRequest{
		PostID:   other.ID,
		ParentID: &parent.ID,
		Content:  "parent lives on another post",
	})
	if err == nil {
		t.Error("cross-post reply should be rejected")
	}
}

func TestCreateCommentValidation(t *testing.T) {
	svc, _, post := newCommentFixture()

	if _, err := svc.Create("", CreateCommentRequest{PostID: post.ID, Content: "hi"}); err == nil {
		t.Error("anonymous comment accepted")
	}

	if _, err := svc.Create("user-1", CreateCommentRequest{PostID: post.ID, Content: "   "}); err == nil {
		t.Error("blank comment accepted")
	}

	if _, err := svc.Create("user-1", CreateCommentRequest{PostID: uuid.New().String(), Content: "hi"}); err == nil {
		t.Error("comment on missing post accepted")
	}

	missing := uuid.New().String()
	if _, err := svc.Create("user-1", CreateCommentRequest{
		PostID: post.ID, ParentID: &missing, Content: "hi",
	}); err == nil {
		t.Error("reply to missing parent accepted")
	}
}

func TestDeleteCommentOwnerOnly(t *testing.T) {
	svc, _, post := newCommentFixture()

	comment, err := svc.Create("user-1", CreateCommentRequest{PostID: post.ID, Content: "mine"})
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(comment.ID, "user-2"); err == nil {
		t.Error("non-owner delete accepted")
	}
	if err := svc.Delete(comment.ID, "user-1"); err != nil {
		t.Errorf("owner delete failed: %v", err)
	}
}

func TestThreadSurvivesDeletedParent(t *testing.T) {
	svc, commentRepo, post := newCommentFixture()

	parent, err := svc.Create("user-1", CreateCommentRequest{PostID: post.ID, Content: "parent"})
	if err != nil {
		t.Fatal(err)
	}
	reply, err := svc.Create("user-2", CreateCommentRequest{
		PostID: post.ID, ParentID: &parent.ID, Content: "orphan-to-be",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Hard-delete the parent out from under the reply
	delete(commentRepo.comments, parent.ID)

	forest, err := svc.GetThread(post.ID)
	if err != nil {
		t.Fatalf("GetThread: %v", err)
	}
	if len(forest) != 1 || forest[0].ID != reply.ID {
		t.Fatalf("orphaned reply should surface as a root, got %d roots", len(forest))
	}
	if forest[0].RootID != reply.ID {
		t.Errorf("RootID = %q, want %q", forest[0].RootID, reply.ID)
	}
}
