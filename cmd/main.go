package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roastlog/internal/handlers"
	"roastlog/internal/logger"
	"roastlog/internal/repository"
	"roastlog/internal/server"
	"roastlog/internal/service"
	"roastlog/internal/weather"

	"github.com/spf13/viper"
)

const defaultClockTick = 1 * time.Second

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(repos, weatherProvider(), log)
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// resume an in-progress roast after a restart, if one was checkpointed
	if err := services.Roasting.RestoreCheckpoint(ctx); err != nil {
		log.Warnw("checkpoint restore failed", "err", err)
	}

	// start the roast clock and the durable-write worker
	go services.Ticker.Run(ctx, defaultClockTick)
	go services.Finalizer.Run(ctx)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "roastlog.db")
		dbPath = "roastlog.db"
	}
	return repository.InitDB(dbPath)
}

// weatherProvider picks the configured weather source; Open-Meteo needs no
// key, the KMA village forecast does.
func weatherProvider() weather.Provider {
	switch viper.GetString("weather.provider") {
	case "kma":
		return weather.NewKMA(viper.GetString("weather.kma.url"), viper.GetString("weather.kma.service_key"))
	default:
		return weather.NewOpenMeteo(viper.GetString("weather.open_meteo.url"))
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
