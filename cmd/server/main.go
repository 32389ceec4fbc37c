/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the punch engine server. Handles configuration,
  dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load optional .env, parse command-line flags
  2. Build the structured logger
  3. Open the SQLite store
  4. Wire the attendance engine and HTTP router
  5. Serve with graceful shutdown

COMMAND-LINE FLAGS (env fallback in parentheses):
  -port       HTTP server port (PORT, default 8080)
  -db         SQLite database path (DB_PATH, default punches.db);
              use ":memory:" for an in-memory database
  -log-level  debug|info|warn|error (LOG_LEVEL, default info)
  -log-path   rolling log file path (LOG_PATH, empty = stdout only)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  in-flight requests, close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/warp/punch-engine/anomaly"
	"github.com/warp/punch-engine/api"
	"github.com/warp/punch-engine/attendance"
	"github.com/warp/punch-engine/logging"
	"github.com/warp/punch-engine/punch"
	"github.com/warp/punch-engine/store/sqlite"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "punches.db"), "SQLite database path")
	logLevel := flag.String("log-level", envStr("LOG_LEVEL", "info"), "log level")
	logPath := flag.String("log-path", envStr("LOG_PATH", ""), "rolling log file path")
	flag.Parse()

	logger, err := logging.New(logging.Options{Level: *logLevel, Path: *logPath})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer store.Close()

	cfg := punch.DefaultConfig()
	baselines := anomaly.NewCachedBaselines(store, 1024)
	engine := attendance.New(cfg, store, baselines, anomaly.NopEmitter{}, logger)

	handler := api.NewHandler(engine, cfg, logger)
	router := api.NewRouter(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", *port), zap.String("db", *dbPath))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
