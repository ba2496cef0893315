package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	// IANA zone data for hosts without a system zoneinfo database.
	_ "time/tzdata"

	"weather_session/internal/config"
	"weather_session/internal/handlers"
	"weather_session/internal/logger"
	"weather_session/internal/repository"
	"weather_session/internal/repository/db"
	"weather_session/internal/server"
	"weather_session/internal/service"
	"weather_session/internal/weather"
)

const (
	storageOpenTimeout = 10 * time.Second
	shutdownTimeout    = 10 * time.Second
)

// @title        Weather Session API
// @version      1.0
// @description  Current weather search with per-account city statistics and a live clock in the searched city's zone.
// @host         localhost:8080
// @BasePath     /
func main() {
	configDir := flag.String("config", "configs", "directory holding config.yml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}

	log := logger.Get(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	// open storage
	kv, closeStorage, err := openStorage(cfg.Storage, log)
	if err != nil {
		log.Fatalw("failed to open storage", "driver", cfg.Storage.Driver, "err", err)
	}
	defer func() {
		if cerr := closeStorage(); cerr != nil {
			log.Errorw("failed to close storage", "err", cerr)
		}
	}()

	// wire dependencies
	client := weather.NewClient(cfg.Weather.GeocodingURL, cfg.Weather.ForecastURL, cfg.Weather.UserAgent, cfg.Weather.Timeout)
	repos := repository.NewRepository(kv)
	services := service.NewService(repos, service.Deps{
		Resolver:     client,
		Fetcher:      client,
		FallbackZone: cfg.Clock.FallbackZone,
		TopLimit:     cfg.Stats.TopLimit,
		Log:          log,
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go services.Clock.Run(ctx, cfg.Clock.Tick)

	view, err := services.Startup(ctx)
	if err != nil {
		log.Errorw("session_startup_failed", "err", err)
	} else {
		log.Infow("session_ready",
			"signed_in", view.SignedIn,
			"username", view.Username,
			"top_cities", view.TopCities,
			"last_city_pending", view.LastCity != nil && view.LastCity.Loading,
		)
	}

	// start HTTP server
	srv := &server.Server{}
	if err := srv.Listen(cfg.Port, apiHandler.InitRoutes()); err != nil {
		log.Fatalw("error starting server", "port", cfg.Port, "err", err)
	}
	go func() {
		log.Infow("http_listening", "addr", srv.Addr())
		if err := srv.Serve(); err != nil {
			log.Fatalw("error serving http", "err", err)
		}
	}()

	waitForShutdown(cancel, srv, services, log)
}

// openStorage returns the key-value backend named by cfg.Driver and a func
// that releases it.
func openStorage(cfg config.StorageConfig, log *logger.Logger) (repository.KeyValue, func() error, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storageOpenTimeout)
	defer cancel()

	switch cfg.Driver {
	case config.DriverSQLite:
		sqlDB, err := db.InitDB(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("storage_opened", "driver", cfg.Driver, "path", cfg.SQLitePath)
		return repository.NewSQLiteKV(sqlDB), sqlDB.Close, nil
	case config.DriverRedis:
		client, err := repository.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Infow("storage_opened", "driver", cfg.Driver, "prefix", cfg.RedisPrefix)
		return repository.NewRedisKV(client, cfg.RedisPrefix), client.Close, nil
	case config.DriverMemory:
		log.Warnw("storage_opened", "driver", cfg.Driver, "note", "accounts are lost on exit")
		return repository.NewMemoryKV(), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, services *service.Service, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}

	// abandon a last-city search still waiting on the weather service
	services.Close()
}
