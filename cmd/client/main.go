package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/iudanet/teachconnect/internal/client/app"
	"github.com/iudanet/teachconnect/internal/client/auth"
	"github.com/iudanet/teachconnect/internal/client/cli"
	"github.com/iudanet/teachconnect/internal/client/contacts"
	"github.com/iudanet/teachconnect/internal/client/dispatch"
	"github.com/iudanet/teachconnect/internal/client/iocli"
	"github.com/iudanet/teachconnect/internal/client/storage"
	"github.com/iudanet/teachconnect/internal/client/storage/boltdb"
	"github.com/iudanet/teachconnect/internal/client/storage/jsonfile"
	"github.com/iudanet/teachconnect/internal/client/storage/sqlite"
	"github.com/iudanet/teachconnect/internal/config"
	"github.com/iudanet/teachconnect/internal/logging"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	start := time.Now()

	cfg, args, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if len(args) > 0 && args[0] == "version" {
		printVersion()
		return 0
	}

	logger := logging.New(os.Stderr, cfg.Debug)

	// Создаем каталоги данных при первом запуске
	if err := cfg.EnsureDirs(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	audit, logFile, err := logging.OpenRunLog(cfg.LogDir(), start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			logger.Error("failed to close run log", slog.Any("error", err))
		}
	}()

	ctx := context.Background()

	records, err := openStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		return 1
	}
	defer func() {
		if err := records.Close(); err != nil {
			logger.Error("failed to close storage", slog.Any("error", err))
		}
	}()

	logger.Debug("client started",
		slog.String("data_dir", cfg.DataDir),
		slog.String("storage", cfg.Storage),
		slog.Int("port", cfg.Port),
		slog.Duration("timeout", cfg.SendTimeout))

	svc := app.NewService(
		auth.NewStore(records, logger),
		contacts.NewCache(ctx, records, logger),
		dispatch.New(logger, dispatch.WithPort(cfg.Port), dispatch.WithTimeout(cfg.SendTimeout)),
		audit,
		logger,
	)

	err = cli.New(svc, iocli.NewStdio()).Run(ctx)
	switch {
	case err == nil, errors.Is(err, cli.ErrDeclined):
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.RecordStorage, error) {
	switch cfg.Storage {
	case config.StorageJSON:
		return jsonfile.New(cfg.DataDir), nil
	case config.StorageSQLite:
		return sqlite.New(ctx, cfg.SQLitePath())
	default:
		return boltdb.New(ctx, cfg.DBPath())
	}
}

func printVersion() {
	fmt.Printf("TeachConnect Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
