package cmd

import (
	"fmt"
	"strconv"

	"github.com/dendrascience/hashall/util"
	"github.com/spf13/cobra"
)

// NewAlgorithmsCmd creates and returns the algorithms subcommand, which
// lists the accepted --hash values.
func NewAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List supported hash algorithms",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			algos := util.Algorithms()
			rows := make([][]string, 0, len(algos))
			for _, algo := range algos {
				rows = append(rows, []string{
					algo.String(),
					strconv.Itoa(algo.Size() * 8),
					strconv.Itoa(algo.Size() * 2),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Algorithm", "Bits", "Hex digits"}, rows, 2, 3))
		},
	}
}
