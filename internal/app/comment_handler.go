package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// Create handles POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req service.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	comment, err := h.commentService.Create(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Comment created", comment)
}

// GetByID handles GET /api/v1/comments/:id
func (h *CommentHandler) GetByID(c *gin.Context) {
	comment, err := h.commentService.GetByID(c.Param("id"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", comment)
}

// GetReplies handles GET /api/v1/comments/:id/replies and returns the
// comment with its nested reply tree
func (h *CommentHandler) GetReplies(c *gin.Context) {
	node, err := h.commentService.GetSubtree(c.Param("id"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", node)
}

// Update handles PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	var req service.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	comment, err := h.commentService.Update(c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment updated", comment)
}

// Delete handles DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	if err := h.commentService.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Comment deleted", nil)
}
