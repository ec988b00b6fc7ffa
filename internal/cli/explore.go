package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/beavr/pkg/color"
	"github.com/matzehuels/beavr/pkg/errors"
	"github.com/matzehuels/beavr/pkg/layout"
	"github.com/matzehuels/beavr/pkg/pipeline"
	"github.com/matzehuels/beavr/pkg/source"
)

// maxToggleColors is the number of colors reachable with the 0-9 and a-z keys.
const maxToggleColors = 36

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	styleErrorText    = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreCommand creates the explore command.
func (c *CLI) exploreCommand() *cobra.Command {
	var step int

	cmd := &cobra.Command{
		Use:   "explore <dataset.json>",
		Short: "Toggle colors and watch the components change",
		Long: `Explore opens an interactive view of one coloring step. Keys 0-9 and a-z
toggle colors 0 to 35, [ and ] switch steps, the arrow keys move through the
components, backspace clears the selection and esc quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if step < 0 || step >= ds.Steps() {
				return errors.New(errors.ErrCodeInvalidInput, "step %d out of range, dataset has %d colorings", step, ds.Steps())
			}
			runner, err := c.newRunner(false)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Logging would tear the alternate screen.
			quiet := c.Config.LayoutOptions()
			quiet.Logger = log.NewWithOptions(io.Discard, log.Options{})
			runner.Logger = quiet.Logger

			m := newExploreModel(cmd.Context(), runner, ds, step, quiet)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().IntVar(&step, "step", 0, "coloring step to start with")
	return cmd
}

// =============================================================================
// exploreModel - Interactive decomposition
// =============================================================================

// decomposedMsg carries the result of a background decomposition.
type decomposedMsg struct {
	seq int
	dec *pipeline.Decomposition
	err error
}

type exploreModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	ds     *source.Dataset
	layout layout.Options

	step     int
	selected color.Set
	dec      *pipeline.Decomposition
	err      error
	seq      int // Sequence number of the newest request
	busy     bool

	cursor int
	offset int
	height int
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, ds *source.Dataset, step int, opts layout.Options) exploreModel {
	return exploreModel{
		ctx:      ctx,
		runner:   runner,
		ds:       ds,
		layout:   opts,
		step:     step,
		selected: color.Set{},
		height:   12,
	}
}

func (m exploreModel) Init() tea.Cmd {
	return nil
}

// keyColor maps 0-9 and a-z to colors 0 to 35.
func keyColor(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	switch k := key[0]; {
	case k >= '0' && k <= '9':
		return int(k - '0'), true
	case k >= 'a' && k <= 'z':
		return int(k-'a') + 10, true
	}
	return 0, false
}

// colorKey is the inverse of keyColor.
func colorKey(c int) string {
	if c < 10 {
		return fmt.Sprint(c)
	}
	return string(rune('a' + c - 10))
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
				m.offset = min(m.offset, m.cursor)
			}
		case "down":
			if m.dec != nil && m.cursor < len(m.dec.Components)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "[":
			if m.step > 0 {
				m.step--
				return m.refresh()
			}
		case "]":
			if m.step < m.ds.Steps()-1 {
				m.step++
				return m.refresh()
			}
		case "backspace":
			m.selected = color.Set{}
			return m.refresh()
		default:
			if c, ok := keyColor(key); ok && m.ds.Colors.Contains(c) {
				m.selected = m.selected.Toggle(c)
				return m.refresh()
			}
		}
	case decomposedMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		m.busy = false
		m.dec, m.err = msg.dec, msg.err
		m.cursor, m.offset = 0, 0
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-14, 3)
	}
	return m, nil
}

// refresh starts a decomposition for the current step and selection.
func (m exploreModel) refresh() (tea.Model, tea.Cmd) {
	m.seq++
	if m.selected.Len() == 0 {
		m.dec, m.err, m.busy = nil, nil, false
		return m, nil
	}
	m.busy = true
	seq, step, colors := m.seq, m.step, m.selected
	return m, func() tea.Msg {
		dec, err := m.runner.Decompose(m.ctx, m.ds, pipeline.DecomposeRequest{
			Step:   step,
			Colors: colors,
			Layout: m.layout,
		})
		return decomposedMsg{seq: seq, dec: dec, err: err}
	}
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Step %d/%d", m.step+1, m.ds.Steps())))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("0-9 a-z toggle colors  [ ] step  ↑/↓ navigate  ⌫ clear  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(m.colorBar())
	b.WriteString("\n\n")

	if m.selected.Len() > m.ds.PatternSize {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d colors exceed the pattern size %d", m.selected.Len(), m.ds.PatternSize)))
		b.WriteString("\n\n")
	}

	switch {
	case m.selected.Len() == 0:
		b.WriteString(listDimStyle.Render("Select colors to see their components."))
	case m.busy:
		b.WriteString(listDimStyle.Render("Decomposing..."))
	case m.err != nil:
		b.WriteString(styleErrorText.Render(errors.UserMessage(m.err)))
	case m.dec != nil:
		b.WriteString(m.componentTable())
	}
	return b.String()
}

// colorBar renders every toggleable color with its key, selected ones bold.
func (m exploreModel) colorBar() string {
	parts := make([]string, 0, m.ds.Colors.Len())
	for _, c := range m.ds.Colors {
		if c >= maxToggleColors {
			break
		}
		label := colorKey(c)
		style := listDimStyle
		if m.selected.Contains(c) {
			style = colorStyle(c).Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(label))
	}
	return strings.Join(parts, " ")
}

func (m exploreModel) componentTable() string {
	comps := m.dec.Components
	if len(comps) == 0 {
		return listDimStyle.Render("No vertex carries these colors.")
	}

	end := min(m.offset+m.height, len(comps))
	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		comp, tree := comps[i], m.dec.Trees[i]
		rows = append(rows, []string{
			cursor,
			fmt.Sprint(i + 1),
			fmt.Sprint(comp.Occ),
			fmt.Sprint(len(comp.Vertices)),
			fmt.Sprint(tree.Root),
			fmt.Sprint(tree.Height),
			truncate(fmt.Sprint(comp.Vertices), 40),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "Occ", "Size", "Root", "Height", "Vertices").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if m.offset+row == m.cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle()
		})

	var b strings.Builder
	b.WriteString(t.Render())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d occurrences", m.cursor+1, len(comps), m.dec.Stats.Occurrences)))
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
