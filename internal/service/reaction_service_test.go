package service

import (
	"testing"

	"devhoc/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository interfaces the toggle paths touch.

type fakeReactionRepo struct {
	records map[string]*model.Reaction
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{records: make(map[string]*model.Reaction)}
}

func (f *fakeReactionRepo) Create(r *model.Reaction) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	f.records[r.ID] = r
	return nil
}

func (f *fakeReactionRepo) Update(r *model.Reaction) error {
	f.records[r.ID] = r
	return nil
}

func (f *fakeReactionRepo) FindByTarget(targetType, targetID string) ([]model.Reaction, error) {
	var out []model.Reaction
	for _, r := range f.records {
		if r.TargetType == targetType && r.TargetID == targetID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReactionRepo) FindByUserAndTarget(userID, targetType, targetID string) (*model.Reaction, error) {
	for _, r := range f.records {
		if r.UserID == userID && r.TargetType == targetType && r.TargetID == targetID {
			rec := *r
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeReactionRepo) CountByTarget(targetType, targetID string) (int64, error) {
	records, _ := f.FindByTarget(targetType, targetID)
	return int64(len(records)), nil
}

func (f *fakeReactionRepo) CountByTargets(targetType string, targetIDs []string) (map[string]int64, error) {
	m := make(map[string]int64)
	for _, id := range targetIDs {
		n, _ := f.CountByTarget(targetType, id)
		m[id] = n
	}
	return m, nil
}

func (f *fakeReactionRepo) Delete(id string) error {
	if _, ok := f.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

type fakeVoteRepo struct {
	records map[string]*model.Vote
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{records: make(map[string]*model.Vote)}
}

func (f *fakeVoteRepo) Create(v *model.Vote) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	f.records[v.ID] = v
	return nil
}

func (f *fakeVoteRepo) Update(v *model.Vote) error {
	f.records[v.ID] = v
	return nil
}

func (f *fakeVoteRepo) FindByTarget(targetType, targetID string) ([]model.Vote, error) {
	var out []model.Vote
	for _, v := range f.records {
		if v.TargetType == targetType && v.TargetID == targetID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVoteRepo) FindByUserAndTarget(userID, targetType, targetID string) (*model.Vote, error) {
	for _, v := range f.records {
		if v.UserID == userID && v.TargetType == targetType && v.TargetID == targetID {
			rec := *v
			return &rec, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVoteRepo) ScoreByTargets(targetType string, targetIDs []string) (map[string]int64, error) {
	m := make(map[string]int64)
	for _, id := range targetIDs {
		votes, _ := f.FindByTarget(targetType, id)
		var score int64
		for _, v := range votes {
			score += int64(v.Value)
		}
		m[id] = score
	}
	return m, nil
}

func (f *fakeVoteRepo) Delete(id string) error {
	if _, ok := f.records[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.records, id)
	return nil
}

type fakePostRepo struct {
	posts map[string]*model.Post
}

func newFakePostRepo(posts ...*model.Post) *fakePostRepo {
	f := &fakePostRepo{posts: make(map[string]*model.Post)}
	for _, p := range posts {
		f.posts[p.ID] = p
	}
	return f
}

func (f *fakePostRepo) Create(p *model.Post) error { f.posts[p.ID] = p; return nil }

func (f *fakePostRepo) FindByID(id string) (*model.Post, error) {
	if p, ok := f.posts[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) FindBySlug(slug string) (*model.Post, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePostRepo) FindByUserID(string, int, int) ([]*model.Post, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) FindByTeamID(string, int, int) ([]*model.Post, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) FindFeed([]string, int, int) ([]*model.Post, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) Search(string, string, int, int) ([]*model.Post, int64, error) {
	return nil, 0, nil
}

func (f *fakePostRepo) Update(p *model.Post) error { f.posts[p.ID] = p; return nil }
func (f *fakePostRepo) Delete(id string) error     { delete(f.posts, id); return nil }
func (f *fakePostRepo) IsSlugTaken(string) (bool, error) {
	return false, nil
}

type fakeCommentRepo struct {
	comments map[string]*model.Comment
}

func newFakeCommentRepo(comments ...*model.Comment) *fakeCommentRepo {
	f := &fakeCommentRepo{comments: make(map[string]*model.Comment)}
	for _, c := range comments {
		f.comments[c.ID] = c
	}
	return f
}

func (f *fakeCommentRepo) Create(c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	f.comments[c.ID] = c
	return nil
}

func (f *fakeCommentRepo) FindByID(id string) (*model.Comment, error) {
	if c, ok := f.comments[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCommentRepo) FindFlatByPostID(postID string) ([]model.Comment, error) {
	var out []model.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Update(c *model.Comment) error { f.comments[c.ID] = c; return nil }
func (f *fakeCommentRepo) Delete(id string) error        { delete(f.comments, id); return nil }

func (f *fakeCommentRepo) CountByPostID(postID string) (int64, error) {
	records, _ := f.FindFlatByPostID(postID)
	return int64(len(records)), nil
}

func (f *fakeCommentRepo) CountByPostIDs(postIDs []string) (map[string]int64, error) {
	m := make(map[string]int64)
	for _, id := range postIDs {
		n, _ := f.CountByPostID(id)
		m[id] = n
	}
	return m, nil
}

func newToggleFixture() (ReactionService, *fakeReactionRepo, *model.Post) {
	post := &model.Post{ID: uuid.New().String(), UserID: "author-1", Title: "A post"}
	reactionRepo := newFakeReactionRepo()
	svc := NewReactionService(reactionRepo, newFakePostRepo(post), newFakeCommentRepo(), nil)
	return svc, reactionRepo, post
}

func TestToggleReactionLifecycle(t *testing.T) {
	svc, repo, post := newToggleFixture()

	req := ToggleReactionRequest{
		TargetType: model.TargetTypePost,
		TargetID:   post.ID,
		Emoji:      model.EmojiLike,
	}

	// First press creates
	resp, err := svc.Toggle("user-1", req)
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if resp.Outcome != "created" {
		t.Errorf("outcome = %q, want created", resp.Outcome)
	}
	if resp.Aggregate.Total != 1 || resp.Aggregate.Mine != model.EmojiLike {
		t.Errorf("aggregate = %+v", resp.Aggregate)
	}

	// Different emoji switches in place
	req.Emoji = model.EmojiFire
	resp, err = svc.Toggle("user-1", req)
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if resp.Outcome != "updated" {
		t.Errorf("outcome = %q, want updated", resp.Outcome)
	}
	if len(repo.records) != 1 {
		t.Fatalf("expected exactly one stored reaction, got %d", len(repo.records))
	}
	if resp.Aggregate.Total != 1 || resp.Aggregate.Mine != model.EmojiFire {
		t.Errorf("aggregate after switch = %+v", resp.Aggregate)
	}

	// Same emoji again removes
	resp, err = svc.Toggle("user-1", req)
	if err != nil {
		t.Fatalf("third toggle: %v", err)
	}
	if resp.Outcome != "removed" {
		t.Errorf("outcome = %q, want removed", resp.Outcome)
	}
	if len(repo.records) != 0 {
		t.Errorf("expected no stored reactions, got %d", len(repo.records))
	}
	if resp.Aggregate.Total != 0 || resp.Aggregate.Mine != "" {
		t.Errorf("aggregate after removal = %+v", resp.Aggregate)
	}
}

func TestToggleReactionRequiresAuth(t *testing.T) {
	svc, _, post := newToggleFixture()

	_, err := svc.Toggle("", ToggleReactionRequest{
		TargetType: model.TargetTypePost,
		TargetID:   post.ID,
		Emoji:      model.EmojiLike,
	})
	if err == nil {
		t.Error("anonymous toggle should be rejected")
	}
}

func TestToggleReactionRejectsBadInput(t *testing.T) {
	svc, _, post := newToggleFixture()

	if _, err := svc.Toggle("user-1", ToggleReactionRequest{
		TargetType: "team", TargetID: post.ID, Emoji: model.EmojiLike,
	}); err == nil {
		t.Error("invalid target type accepted")
	}

	if _, err := svc.Toggle("user-1", ToggleReactionRequest{
		TargetType: model.TargetTypePost, TargetID: post.ID, Emoji: "🤖",
	}); err == nil {
		t.Error("unsupported emoji accepted")
	}

	if _, err := svc.Toggle("user-1", ToggleReactionRequest{
		TargetType: model.TargetTypePost, TargetID: uuid.New().String(), Emoji: model.EmojiLike,
	}); err == nil {
		t.Error("missing target accepted")
	}
}

func TestToggleReactionIndependentUsers(t *testing.T) {
	svc, repo, post := newToggleFixture()

	req := ToggleReactionRequest{
		TargetType: model.TargetTypePost,
		TargetID:   post.ID,
		Emoji:      model.EmojiLove,
	}

	if _, err := svc.Toggle("user-1", req); err != nil {
		t.Fatal(err)
	}
	resp, err := svc.Toggle("user-2", req)
	if err != nil {
		t.Fatal(err)
	}

	if resp.Outcome != "created" {
		t.Errorf("second user's toggle = %q, want created", resp.Outcome)
	}
	if len(repo.records) != 2 {
		t.Errorf("expected two stored reactions, got %d", len(repo.records))
	}
	if resp.Aggregate.Total != 2 || resp.Aggregate.Breakdown[model.EmojiLove] != 2 {
		t.Errorf("aggregate = %+v", resp.Aggregate)
	}
}

func TestGetAggregateAnonymousViewer(t *testing.T) {
	svc, _, post := newToggleFixture()

	if _, err := svc.Toggle("user-1", ToggleReactionRequest{
		TargetType: model.TargetTypePost, TargetID: post.ID, Emoji: model.EmojiWow,
	}); err != nil {
		t.Fatal(err)
	}

	view, err := svc.GetAggregate(model.TargetTypePost, post.ID, "")
	if err != nil {
		t.Fatalf("GetAggregate: %v", err)
	}
	if view.Total != 1 || view.Mine != "" {
		t.Errorf("anonymous view = %+v", view)
	}
}
