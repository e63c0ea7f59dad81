package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type SeasonHandler struct {
	service *services.SeasonService
}

func NewSeasonHandler(service *services.SeasonService) *SeasonHandler {
	return &SeasonHandler{service: service}
}

type seasonRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	IsActive  bool   `json:"is_active"`
}

// input reads season bounds as calendar dates
func (r seasonRequest) input() (services.SeasonInput, error) {
	start, err := parseDate(r.StartDate, time.UTC)
	if err != nil {
		return services.SeasonInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid start_date", r.StartDate)
	}
	end, err := parseDate(r.EndDate, time.UTC)
	if err != nil {
		return services.SeasonInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid end_date", r.EndDate)
	}
	return services.SeasonInput{Name: r.Name, StartDate: start, EndDate: end, IsActive: r.IsActive}, nil
}

func (h *SeasonHandler) List(c *gin.Context) {
	seasons, err := h.service.List(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, seasons)
}

// GetActive returns the active season, or null when there is none
func (h *SeasonHandler) GetActive(c *gin.Context) {
	season, err := h.service.Active(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, season)
}

func (h *SeasonHandler) Create(c *gin.Context) {
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	season, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendCreated(c, season)
}

func (h *SeasonHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req seasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	in, err := req.input()
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	season, err := h.service.Update(c.Request.Context(), id, in)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, season)
}

func (h *SeasonHandler) Delete(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, gin.H{"deleted": id})
}

func (h *SeasonHandler) Activate(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	season, err := h.service.Activate(c.Request.Context(), id)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, season)
}
