package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type TournamentHandler struct {
	tournaments *services.TournamentService
	scores      *services.ScoreService
	loc         *time.Location
	logger      *logrus.Logger
}

func NewTournamentHandler(tournaments *services.TournamentService, scores *services.ScoreService, loc *time.Location, logger *logrus.Logger) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments, scores: scores, loc: loc, logger: logger}
}

type tournamentRequest struct {
	SeasonID       string   `json:"season_id" binding:"required"`
	Name           string   `json:"name" binding:"required"`
	TournamentType string   `json:"tournament_type" binding:"required"`
	ScoringFormat  *string  `json:"scoring_format"`
	IsMultiDay     *bool    `json:"is_multi_day"`
	StartDate      string   `json:"start_date" binding:"required"`
	Field          []string `json:"participating_golfer_ids"`
}

func (h *TournamentHandler) input(r tournamentRequest) (services.TournamentInput, error) {
	seasonID, err := uuid.Parse(r.SeasonID)
	if err != nil {
		return services.TournamentInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid season_id", r.SeasonID)
	}
	t, err := rules.ParseTournamentType(r.TournamentType)
	if err != nil {
		return services.TournamentInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid tournament_type", err.Error())
	}
	start, err := parseDate(r.StartDate, h.loc)
	if err != nil {
		return services.TournamentInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid start_date", r.StartDate)
	}

	in := services.TournamentInput{
		SeasonID:  seasonID,
		Name:      r.Name,
		Type:      t,
		MultiDay:  r.IsMultiDay,
		StartDate: start,
	}
	if r.ScoringFormat != nil {
		format, err := rules.ParseScoringFormat(*r.ScoringFormat)
		if err != nil {
			return services.TournamentInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid scoring_format", err.Error())
		}
		in.Format = &format
	}
	for _, raw := range r.Field {
		id, err := uuid.Parse(raw)
		if err != nil {
			return services.TournamentInput{}, utils.NewAppError(utils.ErrCodeValidation, "Invalid golfer id in field", raw)
		}
		in.Field = append(in.Field, id)
	}
	return in, nil
}

// List handles GET /tournaments?season_id=&status=
func (h *TournamentHandler) List(c *gin.Context) {
	var filter services.TournamentFilter
	if raw := c.Query("season_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid season_id", raw)
			return
		}
		filter.SeasonID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseTournamentStatus(raw)
		if !ok {
			utils.SendValidationError(c, "Invalid status", raw)
			return
		}
		filter.Status = &status
	}

	tournaments, err := h.tournaments.List(c.Request.Context(), filter)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, tournaments, &utils.Meta{Total: int64(len(tournaments))})
}

func (h *TournamentHandler) Get(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	tournament, err := h.tournaments.Get(c.Request.Context(), id)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, tournament)
}

func (h *TournamentHandler) Create(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	in, err := h.input(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	tournament, err := h.tournaments.Create(c.Request.Context(), in)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendCreated(c, tournament)
}

func (h *TournamentHandler) Update(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	in, err := h.input(req)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}

	tournament, err := h.tournaments.Update(c.Request.Context(), id, in)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, tournament)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetStatus handles POST /tournaments/:id/status
func (h *TournamentHandler) SetStatus(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	status, valid := models.ParseTournamentStatus(req.Status)
	if !valid {
		utils.SendValidationError(c, "Invalid status", req.Status)
		return
	}

	tournament, err := h.tournaments.SetStatus(c.Request.Context(), id, status)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, tournament)
}

func (h *TournamentHandler) GetScores(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	scores, err := h.scores.ListScores(c.Request.Context(), id)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, scores)
}

type resultsRequest struct {
	Results []scoring.Result `json:"results" binding:"required"`
}

// SubmitResults handles PUT /tournaments/:id/results. The whole result set is
// replaced or nothing is.
func (h *TournamentHandler) SubmitResults(c *gin.Context) {
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	var req resultsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	scores, err := h.scores.SubmitResults(c.Request.Context(), id, req.Results)
	if err != nil {
		h.logger.WithError(err).WithField("tournament_id", id).Warn("Results rejected")
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, scores)
}
