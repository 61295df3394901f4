package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	postService service.PostService
	teamService service.TeamService
}

func NewUserHandler(userService service.UserService, postService service.PostService, teamService service.TeamService) *UserHandler {
	return &UserHandler{
		userService: userService,
		postService: postService,
		teamService: teamService,
	}
}

// GetProfile handles GET /api/v1/users/:username
func (h *UserHandler) GetProfile(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Param("username"), c.GetString("userID"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", profile)
}

// GetPosts handles GET /api/v1/users/:username/posts
func (h *UserHandler) GetPosts(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Param("username"), "")
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	limit, offset := pagination(c)
	posts, total, err := h.postService.GetByUser(profile.ID, limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"posts": posts,
		"total": total,
	})
}

// GetTeams handles GET /api/v1/users/:username/teams
func (h *UserHandler) GetTeams(c *gin.Context) {
	profile, err := h.userService.GetProfile(c.Param("username"), "")
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	limit, offset := pagination(c)
	teams, total, err := h.teamService.GetUserTeams(profile.ID, limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"teams": teams,
		"total": total,
	})
}

// UpdateProfile handles PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Profile updated", user)
}

// Search handles GET /api/v1/users/search?q=...
func (h *UserHandler) Search(c *gin.Context) {
	limit, offset := pagination(c)

	users, total, err := h.userService.Search(c.Query("q"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"users": users,
		"total": total,
	})
}
