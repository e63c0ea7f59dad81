package api

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/api/handlers"
	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
)

// Services bundles everything the routes call into
type Services struct {
	DB          *database.DB
	Cache       services.Cache
	Limiter     services.RateLimiter
	Seasons     *services.SeasonService
	Tournaments *services.TournamentService
	Scores      *services.ScoreService
	Teams       *services.TeamService
	Golfers     *services.GolferService
	Pricing     *services.PricingService
	Leaderboard *services.LeaderboardService
	Scheduler   *services.Scheduler
	Hub         *services.WebSocketHub
}

// NewRouter builds the gin engine with middleware, /health, /ws and the
// /api/v1 routes
func NewRouter(svc Services, cfg *config.Config, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.CorsOrigins))

	healthHandler := handlers.NewHealthHandler(svc.DB, svc.Cache, svc.Scheduler, svc.Hub)
	router.GET("/health", healthHandler.GetHealth)

	if svc.Hub != nil {
		wsHandler := handlers.NewWebSocketHandler(svc.Hub, cfg.CorsOrigins, logger)
		router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), wsHandler.HandleWebSocket)
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.OptionalAuth(cfg.JWTSecret))
	if svc.Limiter != nil {
		apiV1.Use(middleware.RateLimit(svc.Limiter, logger))
	}
	SetupRoutes(apiV1, svc, cfg, logger)

	return router
}

// SetupRoutes configures all API routes on the given router group
func SetupRoutes(group *gin.RouterGroup, svc Services, cfg *config.Config, logger *logrus.Logger) {
	loc := cfg.Location()

	leaderboardHandler := handlers.NewLeaderboardHandler(svc.Leaderboard, loc, logger)
	seasonHandler := handlers.NewSeasonHandler(svc.Seasons)
	tournamentHandler := handlers.NewTournamentHandler(svc.Tournaments, svc.Scores, loc, logger)
	golferHandler := handlers.NewGolferHandler(svc.Golfers)
	teamHandler := handlers.NewTeamHandler(svc.Teams)
	pricingHandler := handlers.NewPricingHandler(svc.Pricing, logger)

	// Public routes
	group.GET("/leaderboard", leaderboardHandler.GetLeaderboard)
	group.GET("/calendar/weeks", leaderboardHandler.WeekOptions)
	group.GET("/calendar/months", leaderboardHandler.MonthOptions)
	group.GET("/seasons", seasonHandler.List)
	group.GET("/seasons/active", seasonHandler.GetActive)
	group.GET("/golfers", golferHandler.List)
	group.GET("/tournaments", tournamentHandler.List)
	group.GET("/tournaments/:id", tournamentHandler.Get)
	group.GET("/tournaments/:id/scores", tournamentHandler.GetScores)
	group.GET("/rules/tournament-types", handlers.TournamentTypes)

	// Authenticated routes
	auth := group.Group("")
	auth.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		auth.GET("/teams/me", teamHandler.GetMine)
		auth.PUT("/teams/me", teamHandler.SaveMine)
	}

	// Admin routes
	admin := group.Group("")
	admin.Use(middleware.AuthRequired(cfg.JWTSecret), middleware.AdminRequired())
	{
		admin.POST("/seasons", seasonHandler.Create)
		admin.PUT("/seasons/:id", seasonHandler.Update)
		admin.DELETE("/seasons/:id", seasonHandler.Delete)
		admin.POST("/seasons/:id/activate", seasonHandler.Activate)

		admin.POST("/golfers", golferHandler.Create)

		admin.POST("/tournaments", tournamentHandler.Create)
		admin.PUT("/tournaments/:id", tournamentHandler.Update)
		admin.POST("/tournaments/:id/status", tournamentHandler.SetStatus)
		admin.PUT("/tournaments/:id/results", tournamentHandler.SubmitResults)

		admin.POST("/pricing/reprice", pricingHandler.Reprice)
		admin.GET("/pricing/preview", pricingHandler.Preview)
	}
}
