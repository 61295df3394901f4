package app

import (
	"net/http"
	"strconv"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService    service.PostService
	commentService service.CommentService
}

func NewPostHandler(postService service.PostService, commentService service.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
	}
}

// Create handles POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	var req service.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	post, err := h.postService.Create(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Post created", post)
}

// GetByID handles GET /api/v1/posts/:id
func (h *PostHandler) GetByID(c *gin.Context) {
	post, err := h.postService.GetByID(c.Param("id"), c.GetString("userID"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", post)
}

// GetBySlug handles GET /api/v1/posts/slug/:slug
func (h *PostHandler) GetBySlug(c *gin.Context) {
	post, err := h.postService.GetBySlug(c.Param("slug"), c.GetString("userID"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", post)
}

// Feed handles GET /api/v1/posts/feed
func (h *PostHandler) Feed(c *gin.Context) {
	limit, offset := pagination(c)

	posts, total, err := h.postService.GetFeed(c.GetString("userID"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"posts": posts,
		"total": total,
	})
}

// Search handles GET /api/v1/posts/search?q=...&tag=...
func (h *PostHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)

	posts, total, err := h.postService.Search(c.Query("q"), c.Query("tag"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"posts": posts,
		"total": total,
	})
}

// GetComments handles GET /api/v1/posts/:id/comments and returns the full
// comment thread as a forest of nested nodes
func (h *PostHandler) GetComments(c *gin.Context) {
	forest, err := h.commentService.GetThread(c.Param("id"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"comments": forest,
	})
}

// Update handles PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	var req service.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	post, err := h.postService.Update(c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post updated", post)
}

// Delete handles DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	if err := h.postService.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Post deleted", nil)
}

// UploadCover handles POST /api/v1/posts/:id/cover
func (h *PostHandler) UploadCover(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		util.BadRequest(c, "Image file is required")
		return
	}

	post, err := h.postService.UploadCover(c.Param("id"), c.GetString("userID"), file)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Cover image uploaded", post)
}

// pagination reads limit/offset query params with sane defaults
func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		offset = 0
	}
	return limit, offset
}
