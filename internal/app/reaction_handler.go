package app

import (
	"net/http"

	"devhoc/internal/service"
	"devhoc/internal/util"

	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService service.ReactionService
}

func NewReactionHandler(reactionService service.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// Toggle handles POST /api/v1/reactions/toggle
func (h *ReactionHandler) Toggle(c *gin.Context) {
	var req service.ToggleReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.reactionService.Toggle(c.GetString("userID"), req)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "Reaction "+resp.Outcome, resp)
}

// GetAggregate handles GET /api/v1/reactions/:targetType/:targetId
func (h *ReactionHandler) GetAggregate(c *gin.Context) {
	view, err := h.reactionService.GetAggregate(
		c.Param("targetType"),
		c.Param("targetId"),
		c.GetString("userID"),
	)
	if err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	util.SuccessResponse(c, http.StatusOK, "OK", view)
}
