package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/matchday/internal/config"
	"github.com/riskibarqy/matchday/internal/domain/game"
	"github.com/riskibarqy/matchday/internal/domain/membership"
	"github.com/riskibarqy/matchday/internal/domain/player"
	"github.com/riskibarqy/matchday/internal/domain/roster"
	"github.com/riskibarqy/matchday/internal/infrastructure/account/anubis"
	"github.com/riskibarqy/matchday/internal/infrastructure/notify"
	cacherepo "github.com/riskibarqy/matchday/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/matchday/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/matchday/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/matchday/internal/platform/cache"
	idgen "github.com/riskibarqy/matchday/internal/platform/id"
	"github.com/riskibarqy/matchday/internal/platform/lock"
	"github.com/riskibarqy/matchday/internal/platform/resilience"
	"github.com/riskibarqy/matchday/internal/usecase"
)

// App owns the HTTP server and the storage handle behind it.
type App struct {
	Server *http.Server
	db     *sqlx.DB
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	limits := roster.Limits{
		MaxParticipants: cfg.RosterMaxParticipants,
		MaxReserves:     cfg.RosterMaxReserves,
	}
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("roster limits: %w", err)
	}

	var (
		playerRepo     player.Repository
		gameRepo       game.Repository
		membershipRepo membership.Repository
		db             *sqlx.DB
	)

	if cfg.UseMemoryStore {
		players := memory.NewPlayerRepository(memory.SeedPlayers())
		games := memory.NewGameRepository(players)
		for _, g := range memory.SeedGames() {
			if err := games.Create(ctx, g); err != nil {
				return nil, fmt.Errorf("seed game %s: %w", g.ID, err)
			}
		}
		playerRepo = players
		gameRepo = games
		membershipRepo = memory.NewMembershipRepository()
		logger.InfoContext(ctx, "storage configured", "driver", "memory")
	} else {
		var err error
		db, err = otelsqlx.Connect("postgres",
			normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("bootstrap seed: %w", err)
		}
		playerRepo = postgres.NewPlayerRepository(db)
		gameRepo = postgres.NewGameRepository(db)
		membershipRepo = postgres.NewMembershipRepository(db)
		logger.InfoContext(ctx, "storage configured", "driver", "postgres", "db", dbNameFromURL(cfg.DBURL))
	}

	if cfg.CacheEnabled {
		store := basecache.NewStore(cfg.CacheTTL)
		playerRepo = cacherepo.NewPlayerRepository(playerRepo, store)
		gameRepo = cacherepo.NewGameRepository(gameRepo, store)
		logger.InfoContext(ctx, "repository cache enabled", "ttl", cfg.CacheTTL.String())
	}

	var publisher usecase.EventPublisher = usecase.NopPublisher{}
	if cfg.WebhookEnabled {
		publisher = notify.NewWebhookPublisher(notify.WebhookPublisherConfig{
			URL:     cfg.WebhookURL,
			Token:   cfg.WebhookToken,
			Timeout: cfg.WebhookTimeout,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMaxReq,
			},
		}, logger)
	}

	anubisClient := anubis.NewClient(
		&http.Client{Timeout: cfg.AnubisTimeout},
		cfg.AnubisBaseURL,
		cfg.AnubisIntrospectPath,
		cfg.AnubisProvisionPath,
		cfg.AnubisAdminKey,
		resilience.CircuitBreakerConfig{
			Enabled:          cfg.AnubisCircuitEnabled,
			FailureThreshold: cfg.AnubisCircuitFailureCount,
			OpenTimeout:      cfg.AnubisCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AnubisCircuitHalfOpenMaxReq,
		},
		logger,
	)

	idGen := idgen.NewRandomGenerator()
	locks := lock.NewKeyed()

	playerSvc := usecase.NewPlayerService(playerRepo, membershipRepo, gameRepo, anubisClient, logger)
	gameSvc := usecase.NewGameService(gameRepo, membershipRepo, playerRepo, idGen, logger)
	rosterSvc := usecase.NewRosterService(gameRepo, membershipRepo, limits, locks, publisher, idGen, logger)
	teamSvc := usecase.NewTeamService(gameRepo, membershipRepo, playerRepo, limits, locks, publisher, idGen, logger)
	ratingSvc := usecase.NewRatingService(gameRepo, membershipRepo, playerRepo, logger)
	recomputeSvc := usecase.NewRecomputeService(playerRepo, membershipRepo, gameRepo, logger)

	handler := httpapi.NewHandler(playerSvc, gameSvc, rosterSvc, teamSvc, ratingSvc, recomputeSvc, logger)
	router := httpapi.NewRouter(handler, anubisClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return &App{Server: server, db: db}, nil
}

// Close releases the storage handle. The HTTP server is shut down by the
// caller before Close.
func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
