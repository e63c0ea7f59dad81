package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stitts-dev/fantasy-golf/internal/gameweek"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// uuidParam reads a path id, answering 400 itself when it is malformed
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name, c.Param(name))
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name, raw)
		return 0, false
	}
	return v, true
}

// parseDate accepts a calendar date or an RFC 3339 timestamp
func parseDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(gameweek.KeyLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
