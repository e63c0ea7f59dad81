package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/api"
	"github.com/stitts-dev/fantasy-golf/internal/leaderboard"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Setup logging
	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	entry := logger.WithService("server")
	loc := cfg.Location()

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		entry.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis. Without it the process runs on an in-memory cache and
	// a per-process rate limiter.
	cache, limiter, closeRedis := connectRedis(ctx, cfg, log)
	defer closeRedis()

	// Initialize services
	hub := services.NewWebSocketHub(log)
	go hub.Run(ctx)

	seasonService := services.NewSeasonService(db, cache, cfg.ActiveSeasonCacheTTL, loc, log)
	tournamentService := services.NewTournamentService(db, cache, hub, log)
	scoreService := services.NewScoreService(db, cache, hub, log)
	teamService := services.NewTeamService(db, seasonService, cache, cfg.BudgetCap, cfg.SquadSize, log)
	golferService := services.NewGolferService(db, log)
	pricingService := services.NewPricingService(db, cfg.PricingSeasons, log)

	clock := func() time.Time { return time.Now().In(loc) }
	store := services.NewLeaderboardStore(db, seasonService)
	engine := leaderboard.NewEngine(leaderboard.Deps{
		Seasons:     seasonService,
		Tournaments: store,
		Scores:      store,
		Teams:       store,
		Snapshots:   store,
		Clock:       clock,
	}, log)
	leaderboardService := services.NewLeaderboardService(engine, seasonService, cache, cfg.LeaderboardCacheTTL, clock, log)

	scheduler := services.NewScheduler(leaderboardService, pricingService, cfg.SnapshotSchedule, cfg.RepriceSchedule, loc, log)
	if cfg.EnableBackgroundJobs {
		if err := scheduler.Start(); err != nil {
			entry.Errorf("Failed to start scheduler: %v", err)
		} else {
			defer scheduler.Stop()
		}
	}

	router := api.NewRouter(api.Services{
		DB:          db,
		Cache:       cache,
		Limiter:     limiter,
		Seasons:     seasonService,
		Tournaments: tournamentService,
		Scores:      scoreService,
		Teams:       teamService,
		Golfers:     golferService,
		Pricing:     pricingService,
		Leaderboard: leaderboardService,
		Scheduler:   scheduler,
		Hub:         hub,
	}, cfg, log)

	if cfg.IsDevelopment() {
		for _, route := range router.Routes() {
			entry.Debugf("%s %s", route.Method, route.Path)
		}
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		entry.WithField("timezone", loc.String()).Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			entry.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	entry.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		entry.Errorf("Server forced to shutdown: %v", err)
	}

	entry.Info("Server exited")
}

func connectRedis(ctx context.Context, cfg *config.Config, log *logrus.Logger) (services.Cache, services.RateLimiter, func()) {
	local := services.NewLocalRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	fallback := func() (services.Cache, services.RateLimiter, func()) {
		return services.NewMemoryCache(), local, func() {}
	}

	if cfg.RedisURL == "" {
		log.Info("REDIS_URL not set, using in-memory cache")
		return fallback()
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Invalid REDIS_URL, using in-memory cache")
		return fallback()
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, using in-memory cache")
		client.Close()
		return fallback()
	}

	cache := services.NewCacheService(client, cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, log)
	shared := services.NewRedisRateLimiter(client, cfg.RateLimitPerMinute, time.Minute)
	limiter := services.NewFallbackRateLimiter(shared, local, log)

	return cache, limiter, func() { client.Close() }
}
