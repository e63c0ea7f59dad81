package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type GolferHandler struct {
	service *services.GolferService
}

func NewGolferHandler(service *services.GolferService) *GolferHandler {
	return &GolferHandler{service: service}
}

// List handles GET /golfers?active=true&search=
func (h *GolferHandler) List(c *gin.Context) {
	filter := services.GolferFilter{
		ActiveOnly: c.Query("active") == "true",
		Search:     c.Query("search"),
	}
	golfers, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, golfers, &utils.Meta{Total: int64(len(golfers))})
}

func (h *GolferHandler) Create(c *gin.Context) {
	var req services.GolferInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	golfer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendCreated(c, golfer)
}
