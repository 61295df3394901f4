package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	followService service.FollowService
}

func NewFollowHandler(followService service.FollowService) *FollowHandler {
	return &FollowHandler{followService: followService}
}

// Follow handles POST /api/v1/follows/:userId
func (h *FollowHandler) Follow(c *gin.Context) {
	if err := h.followService.Follow(c.GetString("userID"), c.Param("userId")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Now following", nil)
}

// Unfollow handles DELETE /api/v1/follows/:userId
func (h *FollowHandler) Unfollow(c *gin.Context) {
	if err := h.followService.Unfollow(c.GetString("userID"), c.Param("userId")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Unfollowed", nil)
}

// GetFollowers handles GET /api/v1/follows/:userId/followers
func (h *FollowHandler) GetFollowers(c *gin.Context) {
	limit, offset := pagination(c)

	follows, total, err := h.followService.GetFollowers(c.Param("userId"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"followers": follows,
		"total":     total,
	})
}

// GetFollowing handles GET /api/v1/follows/:userId/following
func (h *FollowHandler) GetFollowing(c *gin.Context) {
	limit, offset := pagination(c)

	follows, total, err := h.followService.GetFollowing(c.Param("userId"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"following": follows,
		"total":     total,
	})
}
