package handlers

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type PricingHandler struct {
	service *services.PricingService
	logger  *logrus.Logger
}

func NewPricingHandler(service *services.PricingService, logger *logrus.Logger) *PricingHandler {
	return &PricingHandler{service: service, logger: logger}
}

// Reprice handles POST /pricing/reprice
func (h *PricingHandler) Reprice(c *gin.Context) {
	changes, err := h.service.RepriceAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Repricing failed")
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, changes, &utils.Meta{Total: int64(len(changes))})
}

// Preview handles GET /pricing/preview?score=0.5
func (h *PricingHandler) Preview(c *gin.Context) {
	raw := c.Query("score")
	score, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		utils.SendValidationError(c, "score must be a number between 0 and 1", raw)
		return
	}
	utils.SendSuccess(c, gin.H{"score": score, "price": h.service.Preview(score)})
}
