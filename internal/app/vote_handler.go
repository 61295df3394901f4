package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type VoteHandler struct {
	voteService service.VoteService
}

func NewVoteHandler(voteService service.VoteService) *VoteHandler {
	return &VoteHandler{voteService: voteService}
}

// Toggle handles POST /api/v1/votes/toggle
func (h *VoteHandler) Toggle(c *gin.Context) {
	var req service.ToggleVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.voteService.Toggle(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Vote "+resp.Outcome, resp)
}

// GetTally handles GET /api/v1/votes/:targetType/:targetId
func (h *VoteHandler) GetTally(c *gin.Context) {
	tally, err := h.voteService.GetTally(
		c.Param("targetType"),
		c.Param("targetId"),
		c.GetString("userID"),
	)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", tally)
}
