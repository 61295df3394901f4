package service

import (
	"errors"
	"mime/multipart"
	"strings"

	"devhoc/internal/model"
	"devhoc/internal/repository"
	"devhoc/internal/util"
)

type PostService interface {
	Create(userID string, req CreatePostRequest) (*model.Post, error)
	GetByID(id, viewerID string) (*model.Post, error)
	GetBySlug(slug, viewerID string) (*model.Post, error)
	GetFeed(viewerID string, limit, offset int) ([]*model.Post, int64, error)
	GetByUser(userID string, limit, offset int) ([]*model.Post, int64, error)
	GetByTeam(teamID string, limit, offset int) ([]*model.Post, int64, error)
	Search(keyword, tag string, limit, offset int) ([]*model.Post, int64, error)
	Update(id, userID string, req UpdatePostRequest) (*model.Post, error)
	Delete(id, userID string) error
	UploadCover(id, userID string, file *multipart.FileHeader) (*model.Post, error)
}

type postService struct {
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	reactionRepo repository.ReactionRepository
	voteRepo     repository.VoteRepository
	followRepo   repository.FollowRepository
	teamRepo     repository.TeamRepository
	cloudinary   *util.CloudinaryClient
}

type CreatePostRequest struct {
	Kind   string   `json:"kind" binding:"required,oneof=question article"`
	Title  string   `json:"title" binding:"required,min=3,max=255"`
	Body   string   `json:"body" binding:"required,min=1"`
	Tags   []string `json:"tags" binding:"omitempty,max=5,dive,min=1,max=30"`
	TeamID *string  `json:"team_id" binding:"omitempty,uuid"`
}

type UpdatePostRequest struct {
	Title    *string   `json:"title" binding:"omitempty,min=3,max=255"`
	Body     *string   `json:"body" binding:"omitempty,min=1"`
	Tags     *[]string `json:"tags" binding:"omitempty,max=5,dive,min=1,max=30"`
	IsPinned *bool     `json:"is_pinned"`
}

func NewPostService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reactionRepo repository.ReactionRepository,
	voteRepo repository.VoteRepository,
	followRepo repository.FollowRepository,
	teamRepo repository.TeamRepository,
	cloudinary *util.CloudinaryClient,
) PostService {
	return &postService{
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		voteRepo:     voteRepo,
		followRepo:   followRepo,
		teamRepo:     teamRepo,
		cloudinary:   cloudinary,
	}
}

// Create publishes a question or article
func (s *postService) Create(userID string, req CreatePostRequest) (*model.Post, error) {
	if userID == "" {
		return nil, errors.New("authentication required")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, errors.New("title cannot be empty")
	}

	if req.TeamID != nil {
		ok, err := s.teamRepo.IsMember(*req.TeamID, userID)
		if err != nil || !ok {
			return nil, errors.New("you must be a team member to post there")
		}
	}

	slug, err := s.generateSlug(title)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		UserID:   userID,
		TeamID:   req.TeamID,
		Kind:     req.Kind,
		Title:    title,
		Slug:     slug,
		Body:     req.Body,
		BodyHTML: util.RenderMarkdown(req.Body),
	}
	if err := post.SetTags(normalizeTags(req.Tags)); err != nil {
		return nil, errors.New("invalid tags")
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, errors.New("failed to create post")
	}

	return s.postRepo.FindByID(post.ID)
}

// GetByID returns a post with its engagement counts filled in
func (s *postService) GetByID(id, viewerID string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("post not found")
	}
	s.enrichOne(post)
	return post, nil
}

// GetBySlug returns a post by its slug with engagement counts
func (s *postService) GetBySlug(slug, viewerID string) (*model.Post, error) {
	post, err := s.postRepo.FindBySlug(slug)
	if err != nil {
		return nil, errors.New("post not found")
	}
	s.enrichOne(post)
	return post, nil
}

// GetFeed lists posts from the viewer's followees, or everything for
// anonymous viewers and users following nobody
func (s *postService) GetFeed(viewerID string, limit, offset int) ([]*model.Post, int64, error) {
	limit, offset = clampPage(limit, offset)

	var followeeIDs []string
	if viewerID != "" {
		ids, err := s.followRepo.FolloweeIDs(viewerID)
		if err == nil {
			followeeIDs = ids
		}
	}

	posts, total, err := s.postRepo.FindFeed(followeeIDs, limit, offset)
	if err != nil {
		return nil, 0, errors.New("failed to load feed")
	}
	s.enrich(posts)
	return posts, total, nil
}

// GetByUser lists a user's posts
func (s *postService) GetByUser(userID string, limit, offset int) ([]*model.Post, int64, error) {
	limit, offset = clampPage(limit, offset)
	posts, total, err := s.postRepo.FindByUserID(userID, limit, offset)
	if err != nil {
		return nil, 0, errors.New("failed to load posts")
	}
	s.enrich(posts)
	return posts, total, nil
}

// GetByTeam lists a team's posts
func (s *postService) GetByTeam(teamID string, limit, offset int) ([]*model.Post, int64, error) {
	limit, offset = clampPage(limit, offset)
	posts, total, err := s.postRepo.FindByTeamID(teamID, limit, offset)
	if err != nil {
		return nil, 0, errors.New("failed to load posts")
	}
	s.enrich(posts)
	return posts, total, nil
}

// Search finds posts by keyword and/or tag
func (s *postService) Search(keyword, tag string, limit, offset int) ([]*model.Post, int64, error) {
	limit, offset = clampPage(limit, offset)
	posts, total, err := s.postRepo.Search(strings.TrimSpace(keyword), strings.TrimSpace(tag), limit, offset)
	if err != nil {
		return nil, 0, errors.New("search failed")
	}
	s.enrich(posts)
	return posts, total, nil
}

// Update edits a post, owner only. The slug is stable across edits.
func (s *postService) Update(id, userID string, req UpdatePostRequest) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("post not found")
	}

	if post.UserID != userID {
		return nil, errors.New("you can only edit your own posts")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, errors.New("title cannot be empty")
		}
		post.Title = title
	}
	if req.Body != nil {
		post.Body = *req.Body
		post.BodyHTML = util.RenderMarkdown(*req.Body)
	}
	if req.Tags != nil {
		if err := post.SetTags(normalizeTags(*req.Tags)); err != nil {
			return nil, errors.New("invalid tags")
		}
	}
	if req.IsPinned != nil {
		post.IsPinned = *req.IsPinned
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, errors.New("failed to update post")
	}

	s.enrichOne(post)
	return post, nil
}

// Delete removes a post, owner only
func (s *postService) Delete(id, userID string) error {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return errors.New("post not found")
	}

	if post.UserID != userID {
		return errors.New("you can only delete your own posts")
	}

	return s.postRepo.Delete(id)
}

// UploadCover uploads a cover image to Cloudinary and stores its URL
func (s *postService) UploadCover(id, userID string, file *multipart.FileHeader) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.New("post not found")
	}

	if post.UserID != userID {
		return nil, errors.New("you can only edit your own posts")
	}

	if s.cloudinary == nil {
		return nil, errors.New("image uploads are not configured")
	}

	url, err := s.cloudinary.UploadCoverImage(file)
	if err != nil {
		return nil, errors.New("failed to upload cover image")
	}

	post.CoverImageURL = &url
	if err := s.postRepo.Update(post); err != nil {
		return nil, errors.New("failed to save cover image")
	}

	return post, nil
}

func (s *postService) generateSlug(title string) (string, error) {
	slug := util.Slugify(title)
	taken, err := s.postRepo.IsSlugTaken(slug)
	if err != nil {
		return "", errors.New("failed to generate slug")
	}
	if !taken {
		return slug, nil
	}

	// Collision: retry with random suffixes
	for i := 0; i < 5; i++ {
		candidate := util.UniqueSlug(slug)
		taken, err := s.postRepo.IsSlugTaken(candidate)
		if err != nil {
			return "", errors.New("failed to generate slug")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.New("failed to generate a unique slug")
}

// enrichOne fills a single post's virtual count fields using the cached
// single-target count paths rather than the batch queries
func (s *postService) enrichOne(post *model.Post) {
	if count, err := s.commentRepo.CountByPostID(post.ID); err == nil {
		post.CommentCount = count
	}
	if count, err := s.reactionRepo.CountByTarget(model.TargetTypePost, post.ID); err == nil {
		post.ReactionCount = count
	}
	if scores, err := s.voteRepo.ScoreByTargets(model.TargetTypePost, []string{post.ID}); err == nil {
		post.Score = scores[post.ID]
	}
}

// enrich fills the virtual count fields in bulk
func (s *postService) enrich(posts []*model.Post) {
	if len(posts) == 0 {
		return
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	comments, err1 := s.commentRepo.CountByPostIDs(ids)
	reactions, err2 := s.reactionRepo.CountByTargets(model.TargetTypePost, ids)
	scores, err3 := s.voteRepo.ScoreByTargets(model.TargetTypePost, ids)
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}

	for _, p := range posts {
		p.CommentCount = comments[p.ID]
		p.ReactionCount = reactions[p.ID]
		p.Score = scores[p.ID]
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
