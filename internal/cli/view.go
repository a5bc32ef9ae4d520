package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/pivotpress/pkg/pivot"
	"github.com/matzehuels/pivotpress/pkg/render/sink"
)

var (
	viewTitleStyle = lipgloss.NewStyle().Bold(true)
	viewDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// newViewCmd creates the view command: an interactive terminal browser for
// a table's layers.
func newViewCmd() *cobra.Command {
	var lookPath string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Browse a table's layers interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pt, err := loadTableFile(args[0])
			if err != nil {
				return err
			}
			if lookPath != "" {
				look, err := pivot.LoadLookFile(lookPath)
				if err != nil {
					return err
				}
				pt.SetLook(look)
			}

			m := newViewModel(pt)
			_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	cmd.Flags().StringVar(&lookPath, "look", "", "look file overriding the table's look")
	return cmd
}

// viewModel is the bubbletea model for layer browsing. The left and right
// arrows step an odometer over the layer axis; tables without layer
// dimensions show their single view.
type viewModel struct {
	pt      *pivot.Table
	dims    []*pivot.Dimension
	indexes []int
	body    string
}

func newViewModel(pt *pivot.Table) viewModel {
	m := viewModel{pt: pt}
	m.dims = pt.Axes[pivot.AxisLayer].Dimensions
	m.indexes = make([]int, len(m.dims))
	copy(m.indexes, pt.CurrentLayer)
	m.rerender()
	return m
}

func (m *viewModel) rerender() {
	m.body = sink.RenderTerm(m.pt, sink.WithLayer(m.indexes))
}

// step advances the layer odometer by delta (+1 or -1), wrapping at the
// ends.
func (m *viewModel) step(delta int) {
	for i := range m.dims {
		n := m.dims[i].NLeaves()
		if n == 0 {
			continue
		}
		m.indexes[i] += delta
		if m.indexes[i] >= n {
			m.indexes[i] = 0
			continue // carry into the next dimension
		}
		if m.indexes[i] < 0 {
			m.indexes[i] = n - 1
			continue // borrow from the next dimension
		}
		break
	}
	m.rerender()
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			if len(m.dims) > 0 {
				m.step(1)
			}
		case "left", "h":
			if len(m.dims) > 0 {
				m.step(-1)
			}
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder

	title := "Table"
	if m.pt.Title != nil {
		title, _ = m.pt.Title.Format(m.pt)
	}
	b.WriteString(viewTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("←/→ switch layer  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.body)
	b.WriteString("\n")

	if len(m.dims) > 0 {
		var parts []string
		for i, d := range m.dims {
			label, _ := d.PresentationLeaves[m.indexes[i]].Name.Format(m.pt)
			parts = append(parts, label)
		}
		b.WriteString("\n")
		b.WriteString(viewDimStyle.Render(fmt.Sprintf("layer: %s", strings.Join(parts, " / "))))
		b.WriteString("\n")
	}
	return b.String()
}
