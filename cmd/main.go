package main

import (
	"context"
	"expvar"
	"log"
	"runtime"

	"github.com/hilthontt/trafficguard/internal/domain"
	"github.com/hilthontt/trafficguard/internal/infrastructure/configs"
	"github.com/hilthontt/trafficguard/internal/infrastructure/logging"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ratelimiter"
	"github.com/hilthontt/trafficguard/internal/infrastructure/tracing"
	"github.com/hilthontt/trafficguard/internal/infrastructure/ws"
	"github.com/hilthontt/trafficguard/internal/persistence/db"
	"github.com/hilthontt/trafficguard/internal/persistence/repository"
	"github.com/hilthontt/trafficguard/internal/presentation/api"
	auditHandler "github.com/hilthontt/trafficguard/internal/presentation/handler/audit"
	"github.com/hilthontt/trafficguard/internal/presentation/handler/health"
	violationsHandler "github.com/hilthontt/trafficguard/internal/presentation/handler/violations"
	"github.com/hilthontt/trafficguard/internal/service"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	serviceName = "trafficguard-api"
)

// mongoPinger adapts the driver's ping to the health handler.
type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

func main() {
	tracerCfg := tracing.NewDefaultConfig(serviceName)

	sh, err := tracing.InitTracer(tracerCfg)
	if err != nil {
		log.Fatalf("Failed to initialize the tracer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer sh(ctx)

	logger := logging.NewLogger(logging.NewDefaultConfig())
	logger.Init()

	configPath := configs.DetermineConfigPath()
	cfg, err := configs.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	var (
		violationRepository domain.ViolationRepository
		auditRepository     domain.AuditRepository
		pinger              health.Pinger
	)

	switch cfg.Storage.Driver {
	case "mongo":
		mongoCfg := &db.MongoConfig{
			URI:               cfg.Storage.Mongo.URI,
			Database:          cfg.Storage.Mongo.Database,
			ConnectionTimeout: cfg.Storage.Mongo.ConnectionTimeout,
		}

		client, err := db.NewMongoClient(ctx, mongoCfg)
		if err != nil {
			log.Fatal(err)
		}
		defer func() {
			if err := db.DisconnectMongo(context.Background(), client); err != nil {
				log.Printf("Failed to disconnect mongodb: %v", err)
			}
		}()

		database := db.GetDatabase(client, mongoCfg)
		violationRepository = repository.NewViolationRepository(database)
		auditRepository = repository.NewAuditLogRepository(database)
		pinger = mongoPinger{client: client}

		if err := violationRepository.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure violation indexes: %v", err)
		}
		if err := auditRepository.EnsureIndexes(ctx); err != nil {
			log.Fatalf("Failed to ensure audit indexes: %v", err)
		}

		logger.Info(logging.Mongo, logging.Startup, "mongodb storage ready", map[logging.ExtraKey]any{
			"database": cfg.Storage.Mongo.Database,
		})

	case "memory":
		violationRepository = repository.NewMemoryViolationRepository()
		auditRepository = repository.NewMemoryAuditLogRepository()

		logger.Info(logging.General, logging.Startup, "in-memory storage ready", nil)

	default:
		log.Fatalf("Unknown storage driver %q (supported: memory, mongo)", cfg.Storage.Driver)
	}

	wsCore := ws.NewCore()
	go wsCore.Run()

	ledger := service.NewLedger(violationRepository, auditRepository, wsCore, logger)
	trail := service.NewAuditTrail(auditRepository, wsCore, logger)
	reporting := service.NewReporting(violationRepository, logger)

	rl := ratelimiter.New(ratelimiter.Options{
		MaxRatePerSecond: cfg.RateLimiter.MaxRatePerSecond,
		MaxBurst:         cfg.RateLimiter.MaxBurst,
		CacheTTL:         cfg.RateLimiter.CacheTTL,
		SourceHeaderKey:  cfg.RateLimiter.SourceHeaderKey,
	})

	app := api.NewApplication(
		*cfg,
		violationsHandler.NewHandler(ledger, reporting),
		auditHandler.NewHandler(trail, wsCore),
		health.NewHandler(cfg.Storage.Driver, pinger),
		logger,
		rl,
	)

	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.Mount()
	if err := app.Run(mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
