package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type TeamHandler struct {
	teamService service.TeamService
	postService service.PostService
}

func NewTeamHandler(teamService service.TeamService, postService service.PostService) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		postService: postService,
	}
}

// Create handles POST /api/v1/teams
func (h *TeamHandler) Create(c *gin.Context) {
	var req service.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	team, err := h.teamService.Create(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusCreated, "Team created", team)
}

// List handles GET /api/v1/teams
func (h *TeamHandler) List(c *gin.Context) {
	limit, offset := pagination(c)

	var (
		teams interface{}
		total int64
		err   error
	)
	if keyword := c.Query("q"); keyword != "" {
		teams, total, err = h.teamService.Search(keyword, limit, offset)
	} else {
		teams, total, err = h.teamService.List(limit, offset)
	}
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"teams": teams,
		"total": total,
	})
}

// GetByID handles GET /api/v1/teams/:id
func (h *TeamHandler) GetByID(c *gin.Context) {
	team, err := h.teamService.GetByID(c.Param("id"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", team)
}

// GetBySlug handles GET /api/v1/teams/slug/:slug
func (h *TeamHandler) GetBySlug(c *gin.Context) {
	team, err := h.teamService.GetBySlug(c.Param("slug"))
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", team)
}

// GetPosts handles GET /api/v1/teams/:id/posts
func (h *TeamHandler) GetPosts(c *gin.Context) {
	limit, offset := pagination(c)

	posts, total, err := h.postService.GetByTeam(c.Param("id"), limit, offset)
	if err != nil {
		util.ErrorResponse(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"posts": posts,
		"total": total,
	})
}

// Update handles PUT /api/v1/teams/:id
func (h *TeamHandler) Update(c *gin.Context) {
	var req service.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	team, err := h.teamService.Update(c.Param("id"), c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Team updated", team)
}

// Delete handles DELETE /api/v1/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	if err := h.teamService.Delete(c.Param("id"), c.GetString("userID")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Team deleted", nil)
}

// Join handles POST /api/v1/teams/:id/join
func (h *TeamHandler) Join(c *gin.Context) {
	if err := h.teamService.Join(c.Param("id"), c.GetString("userID")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Joined team", nil)
}

// Leave handles POST /api/v1/teams/:id/leave
func (h *TeamHandler) Leave(c *gin.Context) {
	if err := h.teamService.Leave(c.Param("id"), c.GetString("userID")); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Left team", nil)
}

// GetMembers handles GET /api/v1/teams/:id/members
func (h *TeamHandler) GetMembers(c *gin.Context) {
	limit, offset := pagination(c)

	members, total, err := h.teamService.GetMembers(c.Param("id"), limit, offset)
	if err != nil {
		util.NotFound(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", gin.H{
		"members": members,
		"total":   total,
	})
}

// UpdateMemberRole handles PUT /api/v1/teams/:id/members/:userId
func (h *TeamHandler) UpdateMemberRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required,oneof=moderator member"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	err := h.teamService.UpdateMemberRole(c.Param("id"), c.GetString("userID"), c.Param("userId"), req.Role)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Member role updated", nil)
}

// RemoveMember handles DELETE /api/v1/teams/:id/members/:userId
func (h *TeamHandler) RemoveMember(c *gin.Context) {
	err := h.teamService.RemoveMember(c.Param("id"), c.GetString("userID"), c.Param("userId"))
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Member removed", nil)
}
