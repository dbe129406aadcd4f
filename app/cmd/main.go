package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"aibuilder/app/config"
	"aibuilder/app/usecase"
	"aibuilder/internal/domain/repository"
	"aibuilder/internal/infrastructure/metrics"
	mongostore "aibuilder/internal/infrastructure/store/mongodb"
	"aibuilder/internal/infrastructure/transport"
)

func main() {
	// logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// load config
	cfg := config.Load()

	// Connect to MongoDB. The API must stay up without it: the planner
	// falls back to a sentinel id and /test reports the store as down.
	var (
		mongoClient *mongo.Client
		gateway     *mongostore.Gateway
		genRepo     repository.GenerationRepository
	)
	mongoCtx, mongoCancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongo.Connect(mongoCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err == nil {
		err = client.Ping(mongoCtx, nil)
	}
	mongoCancel()
	if err != nil {
		logger.Warn("mongo unavailable, running without persistence", "err", err)
	} else {
		logger.Info("connected to mongo", "uri", cfg.Mongo.URI, "db", cfg.Mongo.Database)
		mongoClient = client
		db := client.Database(cfg.Mongo.Database)
		gateway = mongostore.NewGateway(db)
		genRepo = mongostore.NewMongoGenerationRepo(db)
	}

	// Usecases / services
	chatSvc := usecase.NewChatService()
	planSvc := usecase.NewPlanService(genRepo, logger)

	// Transport (HTTP handlers)
	handler := transport.NewBuilderHandler(
		chatSvc,
		planSvc,
		storeOrNil(gateway),
		logger,
	)

	// Router and server
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	corsHandler := withCORS(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting metrics server on :2112")
		metrics.StartMetricsServer()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start HTTP server
	go func() {
		logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			cancel()
		}
	}()

	// OS signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	// Shutdown sequence
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	logger.Info("shutting down http server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	if mongoClient != nil {
		logger.Info("disconnecting mongo")
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Error("mongo disconnect error", "err", err)
		}
	}

	logger.Info("service stopped")
}

// withCORS permits any origin, method, and header. The CORS matcher
// compares methods and headers literally ("*" is a wildcard only for
// origins), so the full sets are spelled out.
func withCORS(h http.Handler) http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Requested-With"}),
		handlers.AllowCredentials(),
	)(h)
}

// storeOrNil avoids handing the handler a typed-nil interface value.
func storeOrNil(g *mongostore.Gateway) transport.StoreGateway {
	if g == nil {
		return nil
	}
	return g
}
