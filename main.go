package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JeerTeles/ROMARIO-MERCADINHO/config"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/controllers"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/logger"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/metrics"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/repository"
	"github.com/JeerTeles/ROMARIO-MERCADINHO/services"

	"github.com/rs/zerolog"
)

func main() {
	// Load config.yml and LEDGER_* environment overrides
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog := logger.New("info", logger.OutputJSON)
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logger.New(cfg.Log.Level, logger.OutputType(cfg.Log.Output))

	if cfg.UsesDefaultAdminPassword() {
		log.Warn().Msg("admin password is the built-in default, set LEDGER_ADMIN_PASSWORD")
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	log.Info().Msg("running database migrations")
	if err := repository.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// Repository layer
	customerRepo := repository.NewCustomerRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	stockRepo := repository.NewStockRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	adminSvc := services.NewAdminService(adminRepo, log)
	if err := adminSvc.Seed(context.Background(), cfg.Admin.Password, cfg.Admin.PasswordHash); err != nil {
		log.Fatal().Err(err).Msg("failed to seed admin credential")
	}

	publisher := newPublisher(cfg, log)
	m := metrics.New()

	// Service layer
	customerSvc := services.NewCustomerService(customerRepo, publisher, log, services.PaginationOptions{
		DefaultLimit: cfg.Pagination.DefaultLimit,
		MaxLimit:     cfg.Pagination.MaxLimit,
	})
	ledgerSvc := services.NewLedgerService(ledgerRepo, publisher, m, log, services.LedgerOptions{
		DecrementStock: cfg.Ledger.DecrementStock,
		Pagination: services.PaginationOptions{
			DefaultLimit: cfg.Pagination.DefaultLimit,
			MaxLimit:     cfg.Pagination.MaxLimit,
		},
	})
	stockSvc := services.NewStockService(stockRepo, log)

	app := controllers.NewApp(log, m)
	controllers.RegisterOpsRoutes(app, m)
	controllers.RegisterRoutes(app, controllers.Controllers{
		Customers: controllers.NewCustomerController(customerSvc),
		Ledger:    controllers.NewLedgerController(ledgerSvc),
		Stock:     controllers.NewStockController(stockSvc),
		Admin:     controllers.NewAdminController(adminSvc),
	}, controllers.RequireAdmin(adminSvc))

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("server is starting")
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := publisher.Close(); err != nil {
		log.Error().Err(err).Msg("failed to close kafka producer")
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}
	log.Info().Msg("bye")
}

// newPublisher connects to Kafka when enabled. A broker that cannot be reached
// at startup degrades to dropping events rather than refusing to serve.
func newPublisher(cfg *config.Config, log zerolog.Logger) services.IEventPublisher {
	if !cfg.Kafka.Enabled {
		log.Info().Msg("kafka disabled, ledger events are not published")
		return services.NoopPublisher{}
	}
	kafkaSvc, err := services.NewKafkaService(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize Kafka service, ledger events are not published")
		return services.NoopPublisher{}
	}
	return kafkaSvc
}
