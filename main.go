package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"hotel-rooms-backend/config"
	"hotel-rooms-backend/controllers"
	"hotel-rooms-backend/logging"
	"hotel-rooms-backend/routes"
	"hotel-rooms-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger, err := logging.NewLogger(cfg.LogLevel, "json", "hotel-rooms-backend")
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	// Event sink: console always, Elasticsearch when configured.
	backends := []logging.Backend{logging.NewConsoleBackend(logger)}
	if cfg.ElasticURL != "" {
		backends = append(backends,
			logging.NewElasticBackend(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPass, cfg.ElasticIndex, logger))
		logger.Info("elastic log backend enabled", zap.String("url", cfg.ElasticURL), zap.String("index", cfg.ElasticIndex))
	}
	sink := logging.NewEventSink(logger, backends...)
	defer sink.Close()

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logger.Fatal("database connect failed", zap.Error(err))
	}
	logger.Info("database connection established")

	roomService := services.NewRoomService(db, sink, logger)
	roomController := controllers.NewRoomController(roomService, logger)
	router := routes.SetupRouter(roomController, cfg.CorsOrigins, logger)

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
