package cli

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wellpos/pkg/distance"
	"github.com/matzehuels/wellpos/pkg/io"
	"github.com/matzehuels/wellpos/pkg/triangulate"
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "browse [solutions]",
		Short: "Inspect a solutions file interactively",
		Long: `Inspect a solutions file written by solve.

Each solution is shown as a table of well coordinates with the largest
deviation from the measured distances per well. Use ←/→ to switch between
solutions and q to quit. Without a terminal, or with --plain, every
solution is printed once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := io.ImportSolutions(args[0])
			if err != nil {
				return err
			}
			if plain || !isTerminal(os.Stdout) {
				fmt.Fprint(cmd.OutOrStdout(), renderAllSolutions(s))
				return nil
			}
			_, err = tea.NewProgram(NewSolutionsModel(s)).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "print all solutions without the interactive view")

	return cmd
}

// =============================================================================
// SolutionsModel - Interactive solution browser
// =============================================================================

// browseKeys are the key bindings of the solution browser.
type browseKeys struct {
	Prev  key.Binding
	Next  key.Binding
	First key.Binding
	Last  key.Binding
	Quit  key.Binding
}

func (k browseKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Quit}
}

func (k browseKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Prev, k.Next}, {k.First, k.Last, k.Quit}}
}

var defaultBrowseKeys = browseKeys{
	Prev:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
	Next:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
	First: key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "first")),
	Last:  key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "last")),
	Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// SolutionsModel is the bubbletea model for paging through solutions.
type SolutionsModel struct {
	Solutions io.Solutions
	Index     int

	keys browseKeys
	help help.Model
}

// NewSolutionsModel creates a browser positioned on the first solution.
func NewSolutionsModel(s io.Solutions) SolutionsModel {
	return SolutionsModel{Solutions: s, keys: defaultBrowseKeys, help: help.New()}
}

func (m SolutionsModel) count() int {
	if m.Solutions.Set == nil {
		return 0
	}
	return len(m.Solutions.Set.Solutions)
}

func (m SolutionsModel) Init() tea.Cmd {
	return nil
}

func (m SolutionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Prev):
			if m.Index > 0 {
				m.Index--
			}
		case key.Matches(msg, m.keys.Next):
			if m.Index < m.count()-1 {
				m.Index++
			}
		case key.Matches(msg, m.keys.First):
			m.Index = 0
		case key.Matches(msg, m.keys.Last):
			if n := m.count(); n > 0 {
				m.Index = n - 1
			}
		}
	}
	return m, nil
}

func (m SolutionsModel) View() string {
	var b strings.Builder

	n := m.count()
	if n == 0 {
		b.WriteString(StyleTitle.Render("No consistent constellation"))
		b.WriteString("\n\n")
		b.WriteString(m.help.View(m.keys))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Result %d of %d", m.Index+1, n)))
	b.WriteString("\n\n")
	b.WriteString(solutionTable(m.Solutions, m.Index))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

// renderAllSolutions prints every solution one after another.
func renderAllSolutions(s io.Solutions) string {
	m := NewSolutionsModel(s)
	n := m.count()
	if n == 0 {
		return "No consistent constellation\n"
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "Result %d of %d\n", i+1, n)
		b.WriteString(solutionTable(s, i))
		b.WriteString("\n\n")
	}
	return b.String()
}

// solutionTable renders solution i as a table of wells.
func solutionTable(s io.Solutions, i int) string {
	sol := s.Set.Solutions[i]
	rows := make([][]string, len(sol.Points))
	for j, p := range sol.Points {
		name := wellName(s.Names, j)
		if !p.Placed {
			rows[j] = []string{name, "absent", "", ""}
			continue
		}
		rows[j] = []string{name, formatCoord(p.X), formatCoord(p.Y), formatResidual(wellResidual(sol, s.Matrix, j))}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Well", "X", "Y", "Residual").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if row >= 0 && row < len(sol.Points) && !sol.Points[row].Placed {
				return styleAbsentWell
			}
			if col == 0 {
				return styleWellName
			}
			return StyleValue
		})
	return t.Render()
}

// wellResidual returns the largest deviation between a realized distance
// from well i and its known matrix entry, or NaN without a matrix.
func wellResidual(sol triangulate.Solution, m *distance.Matrix, i int) float64 {
	if m == nil {
		return math.NaN()
	}
	p := sol.Points[i]
	var worst float64
	for j, q := range sol.Points {
		if j == i || !q.Placed || !m.Known(i, j) {
			continue
		}
		worst = math.Max(worst, math.Abs(math.Hypot(p.X-q.X, p.Y-q.Y)-m.At(i, j)))
	}
	return worst
}

func formatCoord(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return fmt.Sprintf("%.4f", v)
}

func formatResidual(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2e", v)
}
