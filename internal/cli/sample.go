package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/pipeline"
)

// sampleCommand creates the sample command.
func (c *CLI) sampleCommand() *cobra.Command {
	var (
		colors  int
		pattern int
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Pick four color sets of pattern size",
		Long: `Sample picks up to four color sets of pattern size from the colors 0..N-1:
two disjoint ones, one overlapping both, and one sharing all but one color
with the first. A non-zero seed shuffles the colors first.`,
		Example: `  beavr sample --colors 10 --pattern 3
  beavr sample --colors 10 --pattern 3 --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := pipeline.NewRunner(nil, nil, c.Logger)
			sets, err := runner.Sample(color.Range(colors), pattern, seed)
			if err != nil {
				return err
			}
			for i, s := range sets {
				fmt.Printf("%s %s\n", StyleDim.Render(fmt.Sprintf("%d.", i+1)), renderSet(s))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&colors, "colors", "n", 0, "number of colors (required)")
	cmd.Flags().IntVarP(&pattern, "pattern", "p", 0, "pattern size (required)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "shuffle seed, 0 keeps the colors sorted")
	_ = cmd.MarkFlagRequired("colors")
	_ = cmd.MarkFlagRequired("pattern")

	return cmd
}
