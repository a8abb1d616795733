package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/iudanet/shortshare/internal/auth"
	"github.com/iudanet/shortshare/internal/config"
	"github.com/iudanet/shortshare/internal/server"
	"github.com/iudanet/shortshare/internal/server/storage/sqlite"
	"github.com/iudanet/shortshare/internal/shares"
	"github.com/iudanet/shortshare/internal/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := config.SetupLogger(cfg)
	logger.Info("shortshare starting",
		slog.String("version", Version),
		slog.String("addr", cfg.Addr),
		slog.String("db_path", cfg.DBPath),
	)

	ctx := context.Background()
	store, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	codec, err := token.NewCodec(token.DefaultAlphabet)
	if err != nil {
		return fmt.Errorf("build codec: %w", err)
	}
	generator, err := token.NewGenerator(codec, cfg.TokenMinLength, token.DefaultDelim,
		rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if err != nil {
		return fmt.Errorf("build token generator: %w", err)
	}

	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return fmt.Errorf("build sessions: %w", err)
	}
	resolver := auth.NewResolver(sessions, store, logger)

	service := shares.NewService(store, generator, cfg.BaseURL, cfg.StoreTimeout, logger)

	srv := server.New(cfg, logger, service, resolver, sessions, Version)
	return srv.Run()
}

func printVersion() {
	fmt.Printf("shortshare server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
