package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/layout"
	"github.com/matzehuels/beavr/pkg/pipeline"
)

type decomposeOpts struct {
	colors     string
	step       int
	engine     string
	margin     float64
	seed       uint64
	iterations int
	output     string
	noCache    bool
}

// decomposeCommand creates the decompose command.
func (c *CLI) decomposeCommand() *cobra.Command {
	var opts decomposeOpts

	cmd := &cobra.Command{
		Use:   "decompose <dataset.json>",
		Short: "Extract, rebuild and lay out the components of a color set",
		Long: `Decompose extracts the connected components induced by a color set under the
coloring of one step, merges isomorphic copies, rebuilds each component's
treedepth tree from its colors and lays the trees out in a grid.`,
		Example: `  beavr decompose data.json --colors 0,1,2
  beavr decompose data.json --colors 0,1,2 --step 3 --engine twopi -o step3.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDecompose(cmd, args[0], opts)
		},
	}

	engines := make([]string, len(layout.Engines))
	for i, e := range layout.Engines {
		engines[i] = string(e)
	}

	cmd.Flags().StringVarP(&opts.colors, "colors", "c", "", "color set, e.g. 0,1,2 (required)")
	cmd.Flags().IntVar(&opts.step, "step", 0, "coloring step")
	cmd.Flags().StringVar(&opts.engine, "engine", "", "layout engine: "+strings.Join(engines, ", "))
	cmd.Flags().Float64Var(&opts.margin, "margin", 0, "cell margin in [0, 0.5)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "seed for the spring engine")
	cmd.Flags().IntVar(&opts.iterations, "iterations", 0, "spring iterations")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the decomposition JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	_ = cmd.MarkFlagRequired("colors")
	_ = cmd.RegisterFlagCompletionFunc("engine", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return engines, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// layoutOptions merges the [layout] config with the flags that were set.
func (c *CLI) layoutOptions(cmd *cobra.Command, opts decomposeOpts) layout.Options {
	o := c.Config.LayoutOptions()
	o.Logger = c.Logger
	if cmd.Flags().Changed("engine") {
		o.Engine = layout.Engine(opts.engine)
	}
	if cmd.Flags().Changed("margin") {
		o.Margin = opts.margin
	}
	if cmd.Flags().Changed("seed") {
		o.Seed = opts.seed
	}
	if cmd.Flags().Changed("iterations") {
		o.Iterations = opts.iterations
	}
	return o
}

func (c *CLI) runDecompose(cmd *cobra.Command, path string, opts decomposeOpts) error {
	ctx := cmd.Context()
	colors, err := parseColors(opts.colors)
	if err != nil {
		return err
	}
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	dec, err := runner.Decompose(ctx, ds, pipeline.DecomposeRequest{
		Step:   opts.step,
		Colors: colors,
		Layout: c.layoutOptions(cmd, opts),
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Decomposed step %d", opts.step))

	printDecomposition(dec)
	if dec.Oversized {
		printWarning("%d colors exceed the pattern size %d", dec.ColorSet.Len(), ds.PatternSize)
	}

	if opts.output != "" {
		if err := writeJSONFile(opts.output, dec); err != nil {
			return err
		}
		printFile(opts.output)
	} else {
		printNextStep("Explore interactively", fmt.Sprintf("beavr explore %s --step %d", path, opts.step))
	}
	return nil
}

func printDecomposition(dec *pipeline.Decomposition) {
	printSuccess("%s %s", StyleTitle.Render("Colors"), renderSet(dec.ColorSet))
	fmt.Println(statsLine([]string{
		fmt.Sprintf("%d components", dec.Stats.Components),
		fmt.Sprintf("%d occurrences", dec.Stats.Occurrences),
		fmt.Sprintf("%d vertices", dec.Stats.Vertices),
	}, dec.Stats.CacheHit))
	for i, comp := range dec.Components {
		tree := dec.Trees[i]
		printDetail("#%d  occ %d  root %d  height %d  vertices %v", i+1, comp.Occ, tree.Root, tree.Height, comp.Vertices)
	}
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
