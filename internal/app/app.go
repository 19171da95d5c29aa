package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/survivor-fantasy/internal/config"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/castaway"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/draft"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/jobscheduler"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/league"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/pick"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/roster"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/scoring"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/season"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/signal"
	"github.com/riskibarqy/survivor-fantasy/internal/domain/waiver"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/jobqueue"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/notify"
	cacherepo "github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-fantasy/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/survivor-fantasy/internal/interfaces/httpapi"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/cache"
	idgen "github.com/riskibarqy/survivor-fantasy/internal/platform/id"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/logging"
	"github.com/riskibarqy/survivor-fantasy/internal/platform/random"
	"github.com/riskibarqy/survivor-fantasy/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

type repositories struct {
	season   season.Repository
	league   league.Repository
	castaway castaway.Repository
	roster   roster.Repository
	draft    draft.Repository
	pick     pick.Repository
	scoring  scoring.Repository
	waiver   waiver.Repository
	dispatch jobscheduler.Repository
}

// NewHTTPServer wires storage, job queue and services behind the HTTP router. The returned
// cleanup releases the database handle and must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, cleanup, err := newRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var queue usecase.JobQueue
	var publisher signal.Publisher = notify.NewLogPublisher(logger)
	if cfg.QStashEnabled {
		qstash := jobqueue.NewQStashPublisher(jobqueue.QStashPublisherConfig{
			BaseURL:          cfg.QStashBaseURL,
			Token:            cfg.QStashToken,
			TargetBaseURL:    cfg.QStashTargetBaseURL,
			Retries:          cfg.QStashRetries,
			InternalJobToken: cfg.InternalJobToken,
			Timeout:          cfg.QStashTimeout,
			CircuitBreaker:   cfg.QStashCircuitBreaker(),
		}, logger)
		queue = qstash
		if cfg.NotifyEnabled {
			publisher = notify.NewQueuePublisher(qstash, cfg.NotifyTargetPath, logger)
		}
	} else {
		logger.Info("qstash disabled", "reason", "QSTASH_ENABLED=false")
	}

	game := cfg.Game()
	ids := idgen.NewUUIDGenerator()
	seasons := season.NewProvider(repos.season)
	rankings := usecase.NewRankingService(seasons, repos.season, repos.league, repos.scoring, cache.NewStore(cfg.CacheTTL), logger)

	jobs := usecase.NewJobOrchestratorService(repos.season, queue, repos.dispatch, usecase.JobOrchestratorConfig{
		DedupBucket: cfg.JobDedupBucket,
	}, logger)

	services := httpapi.Services{
		League:   usecase.NewLeagueService(seasons, repos.league, repos.roster, repos.castaway),
		Draft:    usecase.NewDraftService(repos.season, repos.league, repos.castaway, repos.roster, repos.draft, publisher, ids, random.CryptoSeeded, game, logger),
		Pick:     usecase.NewPickService(repos.season, repos.league, repos.castaway, repos.roster, repos.pick, publisher, ids, game, logger),
		Scoring:  usecase.NewScoringService(repos.season, repos.league, repos.castaway, repos.pick, repos.scoring, publisher, rankings, ids, game, logger),
		Waiver:   usecase.NewWaiverService(repos.season, repos.league, repos.castaway, repos.roster, repos.scoring, repos.waiver, publisher, ids, game, logger),
		Ranking:  rankings,
		Episode:  usecase.NewEpisodeService(repos.season, logger),
		JobQueue: jobs,
	}

	handler := httpapi.NewHandler(services, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled != nil && *cfg.SwaggerEnabled, cfg.CORSOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func newRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, func() error, error) {
	cleanup := func() error { return nil }

	var repos repositories
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		mem := memory.NewStore(memory.SeedDemo(time.Now())).Repositories()
		repos = repositories{
			season:   mem.Season,
			league:   mem.League,
			castaway: mem.Castaway,
			roster:   mem.Roster,
			draft:    mem.Draft,
			pick:     mem.Pick,
			scoring:  mem.Scoring,
			waiver:   mem.Waiver,
			dispatch: mem.Dispatch,
		}
		logger.Info("storage ready", "driver", cfg.StorageDriver)
	case config.StorageDriverPostgres:
		db, err := openPostgres(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := postgres.BootstrapSeed(ctx, db, time.Now()); err != nil {
			_ = db.Close()
			return repositories{}, nil, fmt.Errorf("bootstrap seed: %w", err)
		}
		repos = repositories{
			season:   postgres.NewSeasonRepository(db),
			league:   postgres.NewLeagueRepository(db),
			castaway: postgres.NewCastawayRepository(db),
			roster:   postgres.NewRosterRepository(db),
			draft:    postgres.NewDraftRepository(db),
			pick:     postgres.NewPickRepository(db),
			scoring:  postgres.NewScoringRepository(db),
			waiver:   postgres.NewWaiverRepository(db),
			dispatch: postgres.NewJobDispatchRepository(db),
		}
		cleanup = db.Close
		logger.Info("storage ready", "driver", cfg.StorageDriver, "db_name", dbNameFromURL(cfg.DBURL))
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.season = cacherepo.NewSeasonRepository(repos.season, store)
		repos.castaway = cacherepo.NewCastawayRepository(repos.castaway, store)
	}

	return repos, cleanup, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinaryResult),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}
