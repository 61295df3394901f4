package service

import (
	"testing"

	"devhoc/internal/model"

	"github.com/google/uuid"
)

func newVoteFixture() (VoteService, *fakeVoteRepo, *model.Post) {
	post := &model.Post{ID: uuid.New().String(), UserID: "author-1", Title: "A post"}
	voteRepo := newFakeVoteRepo()
	svc := NewVoteService(voteRepo, newFakePostRepo(post), newFakeCommentRepo(), nil)
	return svc, voteRepo, post
}

func TestToggleVoteLifecycle(t *testing.T) {
	svc, repo, post := newVoteFixture()

	up := ToggleVoteRequest{
		TargetType: model.TargetTypePost,
		TargetID:   post.ID,
		Value:      model.VoteUp,
	}

	// First press creates the upvote
	resp, err := svc.Toggle("user-1", up)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if resp.Outcome != "created" {
		t.Errorf("outcome = %q, want created", resp.Outcome)
	}
	if resp.Tally.Score != 1 || resp.Tally.Mine != model.VoteUp {
		t.Errorf("tally = %+v", resp.Tally)
	}

	// Opposite direction flips the existing vote
	down := up
	down.Value = model.VoteDown
	resp, err = svc.Toggle("user-1", down)
	if err != nil {
		t.Fatalf("flip: %v", err)
	}
	if resp.Outcome != "updated" {
		t.Errorf("outcome = %q, want updated", resp.Outcome)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected exactly one stored vote, got %d", len(repo.records))
	}
	if resp.Tally.Score != -1 || resp.Tally.Mine != model.VoteDown {
		t.Errorf("tally after flip = %+v", resp.Tally)
	}

	// Same direction again clears it
	resp, err = svc.Toggle("user-1", down)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if resp.Outcome != "removed" {
		t.Errorf("outcome = %q, want removed", resp.Outcome)
	}
	if len(repo.records) != 0 {
		t.Errorf("expected no stored votes, got %d", len(repo.records))
	}
	if resp.Tally.Score != 0 || resp.Tally.Mine != 0 {
		t.Errorf("tally after clear = %+v", resp.Tally)
	}
}

func TestToggleVoteRequiresAuth(t *testing.T) {
	svc, _, post := newVoteFixture()

	_, err := svc.Toggle("", ToggleVoteRequest{
		TargetType: model.TargetTypePost,
		TargetID:   post.ID,
		Value:      model.VoteUp,
	})
	if err == nil {
		t.Error("anonymous vote should be rejected")
	}
}

func TestToggleVoteRejectsBadValue(t *testing.T) {
	svc, _, post := newVoteFixture()

	for _, value := range []int{0, 2, -2, 100} {
		_, err := svc.Toggle("user-1", ToggleVoteRequest{
			TargetType: model.TargetTypePost,
			TargetID:   post.ID,
			Value:      value,
		})
		if err == nil {
			t.Errorf("value %d accepted", value)
		}
	}
}

func TestVoteTallyAcrossUsers(t *testing.T) {
	svc, _, post := newVoteFixture()

	votes := []struct {
		user  string
		value int
	}{
		{"user-1", model.VoteUp},
		{"user-2", model.VoteUp},
		{"user-3", model.VoteDown},
	}
	for _, v := range votes {
		if _, err := svc.Toggle(v.user, ToggleVoteRequest{
			TargetType: model.TargetTypePost,
			TargetID:   post.ID,
			Value:      v.value,
		}); err != nil {
			t.Fatalf("toggle %s: %v", v.user, err)
		}
	}

	tally, err := svc.GetTally(model.TargetTypePost, post.ID, "user-3")
	if err != nil {
		t.Fatalf("GetTally: %v", err)
	}
	if tally.Upvotes != 2 || tally.Downvotes != 1 || tally.Score != 1 {
		t.Errorf("tally = %+v", tally)
	}
	if tally.Mine != model.VoteDown {
		t.Errorf("Mine = %d, want %d", tally.Mine, model.VoteDown)
	}
}
