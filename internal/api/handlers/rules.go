package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

type tournamentTypeView struct {
	Type rules.TournamentType `json:"type"`
	rules.TypeConfig
	Bonus rules.Thresholds `json:"bonus_thresholds"`
}

// TournamentTypes handles GET /rules/tournament-types
func TournamentTypes(c *gin.Context) {
	types := rules.Types()
	views := make([]tournamentTypeView, 0, len(types))
	for _, t := range types {
		cfg, _ := rules.Lookup(t)
		views = append(views, tournamentTypeView{
			Type:       t,
			TypeConfig: cfg,
			Bonus:      rules.BonusThresholds(cfg.DefaultFormat, cfg.DefaultMultiDay),
		})
	}

	podium := map[int]int{}
	for pos := 1; pos <= 3; pos++ {
		p := pos
		podium[pos] = rules.PositionPoints(&p)
	}

	utils.SendSuccess(c, gin.H{
		"tournament_types": views,
		"position_points":  podium,
		"bonus_points":     gin.H{"full": rules.FullBonus, "partial": rules.PartialBonus},
	})
}
