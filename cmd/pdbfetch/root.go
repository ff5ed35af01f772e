package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pdbfetch/internal/config"
	"pdbfetch/internal/fetcher"
	"pdbfetch/internal/logging"
)

type rootOptions struct {
	directory   string
	configPath  string
	failOnError bool
	summary     bool
	logLevel    string
	logFormat   string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	rootCmd := &cobra.Command{
		Use:   "pdbfetch [-d DIRECTORY] PDBID [PDBID ...]",
		Short: "Download and decompress PDB entries into a local cache",
		Long: `pdbfetch downloads <id>.pdb.gz for each PDB identifier from the RCSB archive
and stores it decompressed as <id>.pdb in the cache directory. Identifiers
already cached (as .pdb or .pdb.gz) are skipped. Failures are reported per
identifier and do not stop the batch.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          requireIdentifiers,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, &opts, args)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.directory, "directory", "d", "", "Cache directory (default: current directory)")
	flags.StringVarP(&opts.configPath, "config", "c", "", "Configuration file path")
	flags.BoolVar(&opts.failOnError, "fail-on-error", false, "Exit non-zero when any identifier fails")
	flags.BoolVar(&opts.summary, "summary", false, "Print a summary table after the run")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err, usage: cmd.UsageString()}
	})

	return rootCmd
}

func requireIdentifiers(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fetcher.ErrNoIdentifiers
	}
	return nil
}

func runFetch(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := opts.apply(cmd, cfg); err != nil {
		return err
	}

	logger, closeLog, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = closeLog() }()
	ctx := logging.WithRunID(cmd.Context(), uuid.NewString())

	archive, err := fetcher.NewArchive(fetcher.ArchiveConfig{
		BaseURL:   cfg.Archive.BaseURL,
		UserAgent: cfg.Archive.UserAgent,
		Timeout:   cfg.RequestTimeout(),
	})
	if err != nil {
		return err
	}

	fetchOpts := []fetcher.Option{
		fetcher.WithArchive(archive),
		fetcher.WithLogger(logger),
		fetcher.WithReporter(newStatusReporter(cmd.OutOrStdout())),
	}
	if cfg.Cache.Lock {
		fetchOpts = append(fetchOpts, fetcher.WithLock(cfg.LockTimeout()))
	}

	f, err := fetcher.New(fetcher.Request{CacheDir: cfg.Cache.Dir, Identifiers: args}, fetchOpts...)
	if err != nil {
		return err
	}

	results, runErr := f.Run(ctx)
	if cfg.Run.Summary && len(results) > 0 {
		fmt.Fprintln(cmd.OutOrStdout(), renderSummaryTable(results))
	}
	if runErr != nil {
		return runErr
	}

	if summary := fetcher.Summarize(results); cfg.Run.FailOnError && summary.HasFailures() {
		return fmt.Errorf("%d of %d identifiers failed", summary.Failed, summary.Total)
	}
	return nil
}

// apply layers explicitly set flags over the loaded configuration.
func (o *rootOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("directory") {
		if err := cfg.SetCacheDir(o.directory); err != nil {
			return err
		}
	}
	if flags.Changed("fail-on-error") {
		cfg.Run.FailOnError = o.failOnError
	}
	if flags.Changed("summary") {
		cfg.Run.Summary = o.summary
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(o.logLevel))
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = strings.ToLower(strings.TrimSpace(o.logFormat))
	}
	return cfg.Validate()
}
