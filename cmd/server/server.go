package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/KirkDiggler/campaign-api/internal/config"
	"github.com/KirkDiggler/campaign-api/internal/events"
	"github.com/KirkDiggler/campaign-api/internal/handlers/ws"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/massbattle"
	"github.com/KirkDiggler/campaign-api/internal/orchestrators/skirmish"
	"github.com/KirkDiggler/campaign-api/internal/pkg/clock"
	"github.com/KirkDiggler/campaign-api/internal/pkg/dice"
	"github.com/KirkDiggler/campaign-api/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/campaign-api/internal/redis"
	"github.com/KirkDiggler/campaign-api/internal/repositories/armies"
	"github.com/KirkDiggler/campaign-api/internal/repositories/battles"
)

var configDir string

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the websocket server",
	Long:  `Start the campaign companion server with all configured services.`,
	RunE:  runServer,
}

func init() {
	serverCmd.Flags().StringVar(&configDir, "config-dir", ".", "directory searched for the config file")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Load(configDir); err != nil {
		return err
	}
	setupLogging(config.GetString("logLevel"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Received shutdown signal, gracefully stopping...")
		cancel()
	}()

	redis, err := redisclient.NewClient(config.GetString("redis.addr"), &redisclient.Options{
		PoolSize: config.GetInt("redis.poolSize"),
	})
	if err != nil {
		return err
	}
	defer func() { _ = redis.Close() }()

	db, err := gorm.Open(sqlite.Open(config.GetString("sqlite.path")), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return err
	}
	if err := armies.Migrate(db); err != nil {
		return err
	}

	realClock := clock.New()
	bus := events.NewBus()
	roller := dice.NewToolkitRoller()

	battleRepo, err := battles.NewRedisRepository(&battles.Config{
		Client: redis,
		Clock:  realClock,
	})
	if err != nil {
		return err
	}
	armyStore, err := armies.NewGormStore(&armies.Config{DB: db})
	if err != nil {
		return err
	}

	skirmishOrch, err := skirmish.NewOrchestrator(&skirmish.Config{
		Roller:      roller,
		EventBus:    bus,
		IDGenerator: idgen.NewUUID("combatant"),
	})
	if err != nil {
		return err
	}
	battleOrch, err := massbattle.NewOrchestrator(&massbattle.Config{
		Repository:  battleRepo,
		ArmyStore:   armyStore,
		Roller:      roller,
		EventBus:    bus,
		IDGenerator: idgen.NewUUID("mb"),
		Clock:       realClock,
	})
	if err != nil {
		return err
	}

	wsHandler, err := ws.NewHandler(&ws.Config{
		Skirmish:   skirmishOrch,
		MassBattle: battleOrch,
		EventBus:   bus,
	})
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              config.GetString("server.addr"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutting down server...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("Graceful shutdown timeout exceeded, forcing stop", "error", err)
			return srv.Close()
		}
		slog.Info("Server stopped gracefully")
		return nil
	case err := <-errChan:
		return err
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}
