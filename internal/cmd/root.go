package cmd

import (
	"fmt"
	"time"

	"github.com/dendrascience/hashall/hashall"
	"github.com/dendrascience/hashall/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCmd creates and returns the root cobra command for the hashall CLI.
// Running it with input paths hashes them; subcommands inspect a run without
// hashing anything.
func NewRootCmd() *cobra.Command {
	cfg := defaultConfig()

	rootCmd := &cobra.Command{
		Use:   "hashall [flags] INPUT...",
		Short: "hashall - compute checksums for files, directory trees and archive contents",
		Long: `hashall prints one checksum line per file for every INPUT.

INPUT may be a file or a directory. Directories are listed one level deep
unless --recursive is given, and hidden entries (names starting with ".")
are skipped unless --all is given. With --archive, zip and tar archives
(optionally compressed with gzip, zstd, bzip2 or xz) are opened and every
file stored inside is hashed as ARCHIVE/ENTRY.

Files are hashed concurrently, so lines from different files may appear in
any order. Entries of one archive always appear in stored order.`,
		Version:      version.Get().String(),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.loadFile(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHash(cmd, &cfg, args)
		},
	}

	bindPolicyFlags(rootCmd.PersistentFlags(), &cfg)
	bindHashFlags(rootCmd.Flags(), &cfg)

	groupUtilities := "utilities"
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	listCmd := NewListCmd(&cfg)
	algorithmsCmd := NewAlgorithmsCmd()
	listCmd.GroupID = groupUtilities
	algorithmsCmd.GroupID = groupUtilities

	rootCmd.AddCommand(listCmd, algorithmsCmd)

	return rootCmd
}

// bindPolicyFlags registers the flags shared by every subcommand.
func bindPolicyFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.StringVar(&cfg.ConfigPath, "config", "", "TOML file with defaults for any flag not given")
	flags.BoolVarP(&cfg.All, "all", "a", cfg.All, "Include hidden files and directories")
	flags.BoolVarP(&cfg.Recursive, "recursive", "r", cfg.Recursive, "Descend into subdirectories")
	flags.BoolVarP(&cfg.Archive, "archive", "A", cfg.Archive, "Hash the files inside zip and tar archives")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn or error")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: auto, text or json")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Enable debug logging")
}

func bindHashFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.VarP(&cfg.Algorithm, "hash", "H", "Hash algorithm (see 'hashall algorithms')")
	flags.VarP(&cfg.Format, "format", "f", "Output format: sum or csv")
	flags.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of hashing workers (0 = one per CPU)")
	flags.StringVarP(&cfg.Buffer, "buffer", "b", cfg.Buffer, "Read buffer size per worker (example: 1M, 1MiB, 64k)")
	flags.BoolVar(&cfg.Summary, "summary", cfg.Summary, "Print run statistics to stderr when done")
}

func runHash(cmd *cobra.Command, cfg *Config, inputs []string) error {
	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	opts, err := cfg.RunOptions(inputs)
	if err != nil {
		return err
	}
	opts.Output = cmd.OutOrStdout()
	opts.Logger = logger

	logger.Debug("starting run",
		"inputs", len(inputs),
		"algorithm", opts.Algorithm.String(),
		"workers", opts.Workers,
		"buffer", opts.BufferSize,
		"archive", opts.Archives,
	)

	start := time.Now()
	summary, err := hashall.Run(opts)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		logger.Warn("some inputs could not be hashed", "failed", summary.Failed)
	}
	if cfg.Summary {
		fmt.Fprintln(cmd.ErrOrStderr(), renderSummary(summary, time.Since(start)))
	}
	return nil
}
