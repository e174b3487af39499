package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/RaghavSood/swapdesk/bot"
	"github.com/RaghavSood/swapdesk/config"
	"github.com/RaghavSood/swapdesk/desk"
	"github.com/RaghavSood/swapdesk/logging"
	"github.com/RaghavSood/swapdesk/server"
	"github.com/RaghavSood/swapdesk/tracker"
)

func main() {
	_ = godotenv.Load()

	configPath := flag.String("config", "config.json", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := desk.Open(ctx, cfg, nil, logger)
	if err != nil {
		logger.Fatal("failed to open desk", zap.Error(err))
	}
	defer d.Close()

	g, ctx := errgroup.WithContext(ctx)

	var notifier tracker.Notifier
	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg, d.Balances, d.Store, logger.Named("bot"))
		if err != nil {
			logger.Fatal("failed to create bot", zap.Error(err))
		}
		notifier = b
		g.Go(func() error { return b.Run(ctx) })
	} else {
		logger.Info("telegram disabled")
	}

	trk := tracker.New(cfg, d.Store, d.Client, notifier, logger.Named("tracker"))
	g.Go(func() error {
		trk.Run(ctx)
		return nil
	})

	srv := server.New(cfg, d.Store, d.Balances, logger.Named("server"))
	g.Go(func() error { return srv.Start(ctx) })

	logger.Info("starting swapdesk", zap.Stringer("account", d.Signer.Address()))
	if err := g.Wait(); err != nil {
		logger.Error("swapdesk stopped", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("shutting down")
}
