package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type LeaderboardHandler struct {
	service *services.LeaderboardService
	loc     *time.Location
	logger  *logrus.Logger
}

func NewLeaderboardHandler(service *services.LeaderboardService, loc *time.Location, logger *logrus.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{service: service, loc: loc, logger: logger}
}

// GetLeaderboard handles GET /leaderboard?period=&date=&page=&perPage=
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	period, err := gameweek.ParsePeriodType(c.DefaultQuery("period", string(gameweek.PeriodWeek)))
	if err != nil {
		utils.SendValidationError(c, "Invalid period", err.Error())
		return
	}

	req := leaderboard.Request{Period: period}
	if raw := c.Query("date"); raw != "" {
		anchor, err := time.ParseInLocation(gameweek.KeyLayout, raw, h.loc)
		if err != nil {
			utils.SendValidationError(c, "Invalid date, expected YYYY-MM-DD", raw)
			return
		}
		req.Anchor = &anchor
	}

	var ok bool
	if req.Page, ok = intQuery(c, "page"); !ok {
		return
	}
	if req.PerPage, ok = intQuery(c, "perPage"); !ok {
		return
	}

	resp, err := h.service.Get(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).WithField("period", period).Error("Failed to build leaderboard")
		utils.SendAppError(c, err)
		return
	}

	utils.SendSuccess(c, resp)
}

func (h *LeaderboardHandler) WeekOptions(c *gin.Context) {
	options, err := h.service.WeekOptions(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, options)
}

func (h *LeaderboardHandler) MonthOptions(c *gin.Context) {
	options, err := h.service.MonthOptions(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, options)
}
