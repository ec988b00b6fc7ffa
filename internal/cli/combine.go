package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/pipeline"
)

type combineOpts struct {
	patternSize int
	minSize     int
	output      string
	noCache     bool
}

// combineCommand creates the combine command.
func (c *CLI) combineCommand() *cobra.Command {
	var opts combineOpts

	cmd := &cobra.Command{
		Use:   "combine <dataset.json>",
		Short: "Expand the inclusion-exclusion terms of the pattern colorings",
		Long: `Combine lists, for every pattern coloring of the dataset, the color sets of
each size between min size and pattern size that contain it, with their
signed coefficients and the resulting total. When the dataset carries
observed counts, a totals page applies the same coefficients to them.`,
		Example: `  beavr combine data.json
  beavr combine data.json --pattern-size 4 --min-size 2 -o combine.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCombine(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.patternSize, "pattern-size", "p", pipeline.FromDataset, "pattern size (default from config or dataset)")
	cmd.Flags().IntVarP(&opts.minSize, "min-size", "m", pipeline.FromDataset, "smallest color set size (default from config or dataset)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the combination JSON to this file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runCombine(cmd *cobra.Command, path string, opts combineOpts) error {
	ctx := cmd.Context()
	ds, err := loadDataset(ctx, path)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	req := pipeline.CombineRequest{PatternSize: c.Config.Combine.PatternSize, MinSize: c.Config.Combine.MinSize}
	if cmd.Flags().Changed("pattern-size") {
		req.PatternSize = opts.patternSize
	}
	if cmd.Flags().Changed("min-size") {
		req.MinSize = opts.minSize
	}

	spinner := newSpinner(ctx, fmt.Sprintf("Expanding %d pages...", len(ds.PatternColorings)))
	spinner.Start()
	comb, err := runner.Combine(ctx, ds, req)
	if err != nil {
		spinner.StopWithError("Combine failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("%s pattern size %d, min size %d, %d colors",
		StyleTitle.Render("Combine"), comb.PatternSize, comb.MinSize, comb.Colors))
	fmt.Println(statsLine([]string{fmt.Sprintf("%d pages", len(comb.Pages))}, comb.CacheHit))
	for _, page := range comb.Pages {
		fmt.Println()
		fmt.Println(renderPage(page))
	}
	if comb.Totals != nil {
		fmt.Println()
		fmt.Println(renderPage(*comb.Totals))
	}
	if len(comb.Pages) == 0 && comb.Totals == nil {
		printInfo("Dataset has neither pattern colorings nor counts")
	}

	if opts.output != "" {
		if err := writeJSONFile(opts.output, comb); err != nil {
			return err
		}
		printFile(opts.output)
	}
	return nil
}

// renderPage renders one page as a table followed by its total.
func renderPage(page pipeline.Page) string {
	rows := make([][]string, 0, len(page.Terms))
	for _, t := range page.Terms {
		rows = append(rows, []string{
			fmt.Sprint(t.Size),
			fmt.Sprint(t.Coefficient),
			fmt.Sprint(t.Count),
			fmt.Sprint(t.Product),
			sampleSets(t),
		})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Size", "Coefficient", "Count", "Term", "Sets").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			if row == -1 {
				return styleHeader.Padding(0, 1)
			}
			if col >= 1 && col <= 3 && strings.HasPrefix(rows[row][col], "-") {
				return base.Foreground(colorRed)
			}
			if col == 4 {
				return base.Foreground(colorGray)
			}
			return base
		})

	var b strings.Builder
	b.WriteString(StyleTitle.Render(page.Title))
	b.WriteString("\n")
	b.WriteString(tbl.Render())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("Total ") + renderSigned(page.Result.Total))
	return b.String()
}

// sampleSets lists the first few sets of a term.
func sampleSets(t pipeline.TermView) string {
	const shown = 3
	parts := make([]string, 0, shown+1)
	for i, s := range t.Sets {
		if i == shown {
			break
		}
		parts = append(parts, s.String())
	}
	if rest := int64(len(t.Sets)-len(parts)) + t.Omitted; rest > 0 {
		parts = append(parts, fmt.Sprintf("+%d", rest))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, " ")
}
