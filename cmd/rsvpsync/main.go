// Package main provides the rsvpsync command, which reconciles form RSVP
// submissions against an invite list.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/AlexTLDR/rsvpsync/internal/config"
	"github.com/AlexTLDR/rsvpsync/internal/database"
	"github.com/AlexTLDR/rsvpsync/internal/logging"
	"github.com/AlexTLDR/rsvpsync/internal/pipeline"
	"github.com/AlexTLDR/rsvpsync/internal/sheet"
	"github.com/AlexTLDR/rsvpsync/internal/sheet/csvstore"
	"github.com/AlexTLDR/rsvpsync/internal/sheet/gsheets"
)

type options struct {
	configFile string
	envFile    string
	dryRun     bool
	limit      int
	runID      int64
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "rsvpsync",
		Short: "Reconcile RSVP form submissions with the invite list",
		Long: `rsvpsync reads RSVP form submissions, keeps the latest submission per
person, expands household answers into one response per guest, writes the
responses and totals to the export sheet and marks every matched guest on
the invite list as Yes or No.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (yaml, toml or json)")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the planned writes as YAML without changing any sheet")

	history := &cobra.Command{
		Use:   "history",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listHistory(cmd, opts)
		},
	}
	history.Flags().IntVar(&opts.limit, "limit", 10, "number of runs to show")
	history.Flags().Int64Var(&opts.runID, "run", 0, "show the per-guest outcomes of one run")
	root.AddCommand(history)

	return root
}

// setup loads the environment and configuration and builds the logger.
func setup(cmd *cobra.Command, opts *options) (*config.Config, zerolog.Logger, error) {
	// Overload so the file wins over variables already set in the shell
	envErr := godotenv.Overload(opts.envFile)

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = opts.dryRun
	}

	log := logging.New(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		NoColor: os.Getenv("NO_COLOR") != "",
	}, os.Stderr)

	if envErr != nil {
		log.Warn().Err(envErr).Str("file", opts.envFile).Msg("could not load env file")
	} else {
		log.Debug().Str("file", opts.envFile).Msg("env file loaded")
	}
	return cfg, log, nil
}

func run(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	cfg, log, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}

	var archive pipeline.Archiver
	if cfg.ArchiveURL != "" {
		db, err := openArchive(cfg.ArchiveURL)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close archive")
			}
		}()
		archive = db
	}

	report, err := pipeline.New(cfg, store, store, archive, log).Run(ctx)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		return report.WriteYAML(cmd.OutOrStdout())
	}
	return nil
}

func listHistory(cmd *cobra.Command, opts *options) error {
	cfg, _, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	if cfg.ArchiveURL == "" {
		return fmt.Errorf("ARCHIVE_DATABASE_URL is not set")
	}

	db, err := openArchive(cfg.ArchiveURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.runID != 0 {
		return showRun(cmd, db, opts.runID)
	}

	runs, err := db.ListRuns(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, r := range runs {
		mode := ""
		if r.DryRun {
			mode = " (dry run)"
		}
		fmt.Fprintf(out, "#%d %s yes=%d no=%d matched=%d unmatched=%d ambiguous=%d unparseable=%d%s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.TotalYes, r.TotalNo,
			r.Matched, r.Unmatched, r.Ambiguous, r.Unparseable, mode)
	}
	return nil
}

func showRun(cmd *cobra.Command, db *database.DB, runID int64) error {
	responses, err := db.RunResponses(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(responses) == 0 {
		return fmt.Errorf("run %d has no archived responses", runID)
	}

	out := cmd.OutOrStdout()
	for _, r := range responses {
		answer := "no"
		if r.Attending {
			answer = "yes"
		}
		cell := "-"
		if r.RosterCell.Valid {
			cell = r.RosterCell.String
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%s\n", r.Name, answer, r.MatchStatus, cell)
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (sheet.Store, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		return csvstore.New(cfg.CSVDir), nil
	default:
		store, err := gsheets.New(ctx, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create sheets client: %w", err)
		}
		return store, nil
	}
}

func openArchive(url string) (*database.DB, error) {
	db, err := database.New(url)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}
