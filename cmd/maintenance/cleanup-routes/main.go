package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/northstar/dispatch-backend/internal/config"
	"github.com/northstar/dispatch-backend/internal/database"
	"github.com/northstar/dispatch-backend/internal/models"
	"github.com/northstar/dispatch-backend/internal/services"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	databaseDriver string
	databaseURL    string
	logDir         string
	dryRun         bool
	verbose        bool
}

func main() {
	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.New(color.FgRed).Sprint("Error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	dbCfg := config.LoadDatabase()
	cleanupCfg := config.LoadCleanup()
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "cleanup-routes",
		Short: "Delete routes whose expiration has passed",
		Long: `Delete every route whose expiration is at or before now, together with
its orders and stops, in a single transaction. The cleanup log is printed and
appended to <log-dir>/cleanup_YYYY-MM-DD.log.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbCfg.Driver = opts.databaseDriver
			dbCfg.URL = opts.databaseURL
			// one-shot job, keep the pool small
			dbCfg.MaxConnections = 2
			dbCfg.MaxIdleConnections = 1
			return run(cmd.Context(), dbCfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.databaseDriver, "database-driver", dbCfg.Driver, "database driver, sqlite3 or postgres (overrides DATABASE_DRIVER)")
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", dbCfg.URL, "database file or connection string (overrides DATABASE_URL)")
	cmd.Flags().StringVar(&opts.logDir, "log-dir", cleanupCfg.LogDir, "directory for the daily cleanup log")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "list expired routes without deleting them")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

func run(ctx context.Context, dbCfg config.DatabaseConfig, opts *options, out io.Writer) error {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	if opts.verbose {
		logger.SetLevel(logrus.InfoLevel)
	}

	db, err := database.NewConnection(dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	sweeper := services.NewExpirySweeper(database.NewRouteRepository(db), logger)

	var report *models.SweepReport
	if opts.dryRun {
		report, err = sweeper.DryRun(ctx)
	} else {
		report, err = sweeper.Sweep(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(out, report.String())

	if !opts.dryRun {
		sweepLog := services.NewSweepLog(opts.logDir)
		if err := sweepLog.Append(report); err != nil {
			return err
		}
		fmt.Fprintf(out, "Log appended to %s\n", sweepLog.Path(report))
	}

	summary := color.New(color.FgGreen).Sprintf("%d expired route(s) deleted", report.Count())
	if opts.dryRun {
		summary = color.New(color.FgYellow).Sprintf("Dry run: %d expired route(s) would be deleted", report.Count())
	}
	fmt.Fprintln(out, summary)

	return nil
}
