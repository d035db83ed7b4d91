package cmd

import (
	"fmt"

	"github.com/dendrascience/hashall/hashall"
	"github.com/spf13/cobra"
)

// NewListCmd creates and returns the list subcommand for the hashall CLI.
// It shows the jobs a run would dispatch without hashing anything.
func NewListCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "list INPUT...",
		Short: "List the files a run would hash",
		Long: `List every job a hashall run with the same flags would dispatch.

Each line shows the job kind ("file", or the archive format when --archive
is set) and the path. The total is printed to stderr. Useful for checking
the effect of --all, --recursive and --archive before hashing large trees.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, cfg, args)
		},
	}
}

func runList(cmd *cobra.Command, cfg *Config, inputs []string) error {
	out := cmd.OutOrStdout()
	count := 0
	for job, err := range hashall.Enumerate(inputs, cfg.EnumerateOptions()) {
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%s\n", job.Kind, job.Path)
		count++
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Total jobs: %d\n", count)
	return nil
}
