package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/api/middleware"
	"github.com/stitts-dev/fantasy-golf/internal/models"
	"github.com/stitts-dev/fantasy-golf/internal/rules"
	"github.com/stitts-dev/fantasy-golf/internal/scoring"
	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/config"
	"github.com/stitts-dev/fantasy-golf/pkg/database"
	"github.com/stitts-dev/fantasy-golf/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down|seed|token]")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	entry := logger.WithService("migrate")

	command := os.Args[1]
	if command == "token" {
		if err := printAdminToken(cfg); err != nil {
			entry.Fatalf("Failed to issue token: %v", err)
		}
		return
	}

	// Connect to database
	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		entry.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch command {
	case "up":
		if err := runMigrations(db); err != nil {
			entry.Fatalf("Failed to run migrations: %v", err)
		}
		entry.Info("Migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			entry.Fatalf("Failed to drop tables: %v", err)
		}
		entry.Info("Tables dropped successfully")

	case "seed":
		if err := seedData(context.Background(), db, cfg); err != nil {
			entry.Fatalf("Failed to seed data: %v", err)
		}
		entry.Info("Data seeded successfully")

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}

func runMigrations(db *database.DB) error {
	if err := models.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_scores_participated ON scores(golfer_id) WHERE participated",
		"CREATE INDEX IF NOT EXISTS idx_teams_active_season ON teams(season_id) WHERE is_active",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	// Drop tables in reverse order to handle foreign key constraints
	tables := []string{
		"leaderboard_snapshots",
		"teams",
		"scores",
		"tournaments",
		"golfers",
		"seasons",
		"users",
	}

	for _, table := range tables {
		if err := db.Exec("DROP TABLE IF EXISTS " + pq.QuoteIdentifier(table) + " CASCADE").Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	return nil
}

var demoGolfers = []struct {
	Name  string
	Price int64
}{
	{"Scottie Scheffler", 14_500_000},
	{"Rory McIlroy", 14_000_000},
	{"Jon Rahm", 13_500_000},
	{"Viktor Hovland", 11_500_000},
	{"Tommy Fleetwood", 10_000_000},
	{"Shane Lowry", 9_500_000},
	{"Matt Fitzpatrick", 9_000_000},
	{"Tyrrell Hatton", 8_500_000},
	{"Justin Rose", 7_000_000},
	{"Padraig Harrington", 6_000_000},
	{"Lee Westwood", 5_500_000},
	{"Ian Poulter", 5_000_000},
}

// seedData creates a demo season that started a month ago, a priced field and
// two scored tournaments, then reprices the field from the results
func seedData(ctx context.Context, db *database.DB, cfg *config.Config) error {
	if err := runMigrations(db); err != nil {
		return err
	}

	log := logger.GetLogger()
	loc := cfg.Location()
	cache := services.NewMemoryCache()

	seasonService := services.NewSeasonService(db, cache, 0, loc, log)
	golferService := services.NewGolferService(db, log)
	tournamentService := services.NewTournamentService(db, cache, nil, log)
	scoreService := services.NewScoreService(db, cache, nil, log)
	pricingService := services.NewPricingService(db, cfg.PricingSeasons, log)

	today := time.Now().In(loc)
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	season, err := seasonService.Create(ctx, services.SeasonInput{
		Name:      fmt.Sprintf("Season %d", start.Year()),
		StartDate: start,
		EndDate:   start.AddDate(1, 0, 0),
		IsActive:  true,
	})
	if err != nil {
		return fmt.Errorf("failed to create season: %w", err)
	}

	field := make([]uuid.UUID, 0, len(demoGolfers))
	for _, g := range demoGolfers {
		golfer, err := golferService.Create(ctx, services.GolferInput{Name: g.Name, Price: g.Price})
		if err != nil {
			return fmt.Errorf("failed to create golfer %s: %w", g.Name, err)
		}
		field = append(field, golfer.ID)
	}

	events := []struct {
		name   string
		kind   rules.TournamentType
		offset int
		raw    func(i int) float64
	}{
		{"Spring Rollup", rules.TypeRollupStableford, 7, func(i int) float64 { return float64(40 - i) }},
		{"Weekend Medal", rules.TypeWeekendMedal, 14, func(i int) float64 { return float64(i - 4) }},
	}

	for _, ev := range events {
		t, err := tournamentService.Create(ctx, services.TournamentInput{
			SeasonID:  season.ID,
			Name:      ev.name,
			Type:      ev.kind,
			StartDate: time.Date(start.Year(), start.Month(), start.Day()+ev.offset, 9, 0, 0, 0, loc),
			Field:     field,
		})
		if err != nil {
			return fmt.Errorf("failed to create tournament %s: %w", ev.name, err)
		}

		results := make([]scoring.Result, 0, len(field))
		for i, id := range field {
			raw := ev.raw(i)
			r := scoring.Result{GolferID: id.String(), Participated: i < 10, RawScore: &raw}
			if i < 3 {
				pos := i + 1
				r.Position = &pos
			}
			results = append(results, r)
		}
		if _, err := scoreService.SubmitResults(ctx, t.ID, results); err != nil {
			return fmt.Errorf("failed to score %s: %w", ev.name, err)
		}
		if _, err := tournamentService.SetStatus(ctx, t.ID, models.TournamentPublished); err != nil {
			return fmt.Errorf("failed to publish %s: %w", ev.name, err)
		}
		logger.WithTournamentContext(t.ID.String(), string(t.Type)).Info("Demo tournament published")
	}

	changes, err := pricingService.RepriceAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to reprice golfers: %w", err)
	}

	log.WithFields(logrus.Fields{
		"season":        season.Name,
		"golfers":       len(field),
		"price_changes": len(changes),
	}).Info("Demo league seeded")

	return nil
}

// printAdminToken prints a day-long admin token for local use
func printAdminToken(cfg *config.Config) error {
	if cfg.IsProduction() {
		return fmt.Errorf("refusing to issue a token in production")
	}
	token, err := middleware.IssueToken(cfg.JWTSecret, middleware.AuthUser{
		ID:       uuid.New(),
		Username: "admin",
		Role:     models.RoleAdmin,
	}, 24*time.Hour)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
