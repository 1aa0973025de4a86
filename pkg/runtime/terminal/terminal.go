package terminal

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/stock-reports/pkg/runtime/terminal/commands"
	"github.com/de-tools/stock-reports/pkg/runtime/terminal/export"
	"github.com/de-tools/stock-reports/pkg/services/config"
	"github.com/de-tools/stock-reports/pkg/services/report"
	"github.com/de-tools/stock-reports/pkg/services/series/yahoo"
	"github.com/de-tools/stock-reports/pkg/store/sqlite"
	reportstore "github.com/de-tools/stock-reports/pkg/store/sqlite/report"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	reports  report.Service
	db       *sql.DB
	reporter *export.Reporter
	logs     io.Writer
	rootCmd  *cobra.Command

	cfgPath string
	format  string
}

// Options contain configuration for the CLI
type Options struct {
	// Reports is opened from the configuration when nil.
	Reports report.Service
	Output  io.Writer
	Logs    io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Logs == nil {
		opts.Logs = os.Stderr
	}

	cli := &CLI{
		reports:  opts.Reports,
		reporter: export.NewReporter(opts.Output),
		logs:     opts.Logs,
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	defer cli.close()
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "reports",
		Short:             "Create and inspect stored stock reports",
		SilenceUsage:      true,
		PersistentPreRunE: cli.setup,
	}

	cmd.PersistentFlags().StringVarP(&cli.cfgPath, "config", "c", "", "Path to a config file (YAML, TOML or JSON)")
	cmd.PersistentFlags().StringVar(&cli.format, "format", string(export.FormatTable), "Output format: table or json")

	service := func() report.Service { return cli.reports }
	cmd.AddCommand(commands.NewCreateCmd(service, cli.reporter))
	cmd.AddCommand(commands.NewListCmd(service, cli.reporter))
	cmd.AddCommand(commands.NewShowCmd(service, cli.reporter))

	return cmd
}

func (cli *CLI) setup(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(cli.format)
	if err != nil {
		return err
	}
	cli.reporter.SetFormat(format)

	cfg, err := config.Load(cli.cfgPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := zerolog.New(cli.logs).Level(cfg.LogLevel()).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	if cli.reports != nil {
		return nil
	}

	db, err := sqlite.NewDB(ctx, sqlite.Settings{DbPath: cfg.DB})
	if err != nil {
		return err
	}
	cli.db = db

	store, err := reportstore.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}
	if err := store.Initialize(ctx); err != nil {
		return err
	}

	fetcher := yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Provider.BaseURL),
		yahoo.WithTimeout(cfg.Provider.Timeout),
		yahoo.WithUserAgent(cfg.Provider.UserAgent),
	)
	cli.reports, err = report.NewService(fetcher, store)
	if err != nil {
		return fmt.Errorf("failed to create report service: %w", err)
	}

	logger.Debug().Str("db", cfg.DB).Msg("report service ready")
	return nil
}

func (cli *CLI) close() {
	if cli.db != nil {
		_ = cli.db.Close()
	}
}
