package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/de-tools/stock-reports/pkg/server"
	"github.com/de-tools/stock-reports/pkg/services/config"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/de-tools/stock-reports/pkg/services/series/yahoo"
	"github.com/de-tools/stock-reports/pkg/store/sqlite"
	reportstore "github.com/de-tools/stock-reports/pkg/store/sqlite/report"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for stock reports",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a config file (YAML, TOML or JSON); environment only when empty")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	db, err := sqlite.NewDB(ctx, sqlite.Settings{
		DbPath: cfg.DB,
	})
	if err != nil {
		return fmt.Errorf("failed to create SQLite instance: %w", err)
	}
	defer db.Close()

	store, err := reportstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}
	if err := store.Initialize(ctx); err != nil {
		return fmt.Errorf("failed to initialize report store: %w", err)
	}

	fetcher := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Provider.BaseURL),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithUserAgent(cfg.Provider.UserAgent),
	)
	reports, err := report.NewService(fetcher, store)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	logger.Info().Msgf("Reports stored at `%s`, fetching from `%s` provider.", cfg.DB, fetcher.Name())

	api := server.NewWebAPI(server.Config{
		Addr:            cfg.Addr(),
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Dependencies: server.Dependencies{
			Reports: reports,
			Logger:  logger,
		},
	})

	return api.Start(ctx)
}
