package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type TeamHandler struct {
	service *services.TeamService
}

func NewTeamHandler(service *services.TeamService) *TeamHandler {
	return &TeamHandler{service: service}
}

// GetMine handles GET /teams/me
func (h *TeamHandler) GetMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	team, err := h.service.GetActiveTeam(c.Request.Context(), user.ID)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, team)
}

// SaveMine handles PUT /teams/me
func (h *TeamHandler) SaveMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		utils.SendUnauthorized(c, "Authentication required")
		return
	}

	var req services.TeamInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	member := services.Member{ID: user.ID, Username: user.Username, Role: user.Role}
	team, err := h.service.SaveTeam(c.Request.Context(), member, req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, team)
}
