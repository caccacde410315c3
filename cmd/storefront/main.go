package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/matst80/slask-storefront/pkg/common"
	"github.com/matst80/slask-storefront/pkg/config"
	"github.com/matst80/slask-storefront/pkg/logging"
	"github.com/matst80/slask-storefront/pkg/server"
	"go.uber.org/zap"
)

var configPath = flag.String("config", "", "directory holding config.yaml")

func main() {
	flag.Parse()
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format)
	os.Exit(exitCode(logger, run(context.Background(), cfg, logger)))
}

// exitCode logs err and flushes the logger before the process exits.
func exitCode(logger *zap.Logger, err error) int {
	if err != nil {
		logger.Error("storefront stopped", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		return 1
	}
	return 0
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	a := &app{cfg: cfg, logger: logger}
	if err := a.connectCatalog(); err != nil {
		return err
	}
	a.connectTracking()
	if err := a.connectCatalogChanges(); err != nil {
		logger.Warn("not listening for catalog changes", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sessions := server.NewSessionStore(cfg.Sessions.TTL)
	go sessions.Run(ctx, cfg.Sessions.SweepInterval)

	ws := server.NewWebServer(a.source, sessions, a.tracker, logger)
	ws.CookieMaxAge = int(cfg.Sessions.TTL.Seconds())
	srv := common.NewServerWithTimeouts(&http.Server{
		Addr:    cfg.Listen,
		Handler: ws.Handler(cfg.CORS.AllowedOrigins),
	}, cfg.Server)

	return common.RunServerWithShutdown(ctx, srv, logger, "storefront", cfg.Server, a.close)
}
