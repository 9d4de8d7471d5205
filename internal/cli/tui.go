package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/proaptus/tanklab/pkg/laminate"
	"github.com/proaptus/tanklab/pkg/vessel"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DesignListModel - Interactive design selection
// =============================================================================

// designEntry is one row of the design browser.
type designEntry struct {
	Design *vessel.Design
}

// DesignListModel is the bubbletea model for interactive design selection.
type DesignListModel struct {
	Designs  []designEntry
	Cursor   int
	Selected *designEntry
	Height   int
	Offset   int
}

// NewDesignListModel creates a new design list model.
func NewDesignListModel(designs []designEntry) DesignListModel {
	return DesignListModel{
		Designs: designs,
		Height:  15,
	}
}

func (m DesignListModel) Init() tea.Cmd {
	return nil
}

func (m DesignListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Designs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			entry := m.Designs[m.Cursor]
			m.Selected = &entry
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m DesignListModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Select a design") + "\n\n")

	var rows [][]string
	end := m.Offset + m.Height
	if end > len(m.Designs) {
		end = len(m.Designs)
	}
	for i := m.Offset; i < end; i++ {
		d := m.Designs[i].Design
		cursor := " "
		if i == m.Cursor {
			cursor = iconArrow
		}
		rows = append(rows, []string{
			cursor,
			d.ID,
			d.Name,
			fmt.Sprintf("%d", d.LayerCount()),
			fmt.Sprintf("%.0f", d.Pressures.TestBar),
			fmt.Sprintf("%.0f", d.Pressures.BurstBar),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Plies", "Test bar", "Burst bar").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] enter: inspect, q: quit", m.Cursor+1, len(m.Designs))))

	return b.String()
}

// runDesignBrowser runs the interactive list and returns the selection, or
// nil when the user quit without selecting.
func runDesignBrowser(entries []designEntry) (*designEntry, error) {
	p := tea.NewProgram(NewDesignListModel(entries))
	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("design browser: %w", err)
	}
	m, ok := finalModel.(DesignListModel)
	if !ok {
		return nil, nil
	}
	return m.Selected, nil
}

// printDesignDetails renders the key parameters of a design.
func printDesignDetails(d *vessel.Design) {
	printNewline()
	fmt.Println(StyleTitle.Render(d.Name))
	printKeyValue("ID", d.ID)
	printKeyValue("Inner radius", fmt.Sprintf("%.0f mm", d.Dimensions.InnerRadiusMM))
	printKeyValue("Wall", fmt.Sprintf("%.0f mm composite + %.0f mm liner",
		d.Dimensions.WallThicknessMM, d.Layup.LinerThicknessMM))
	printKeyValue("Length", fmt.Sprintf("%.0f mm cylinder, %.0f mm total",
		d.Dimensions.CylinderLengthMM, d.Dimensions.TotalLengthMM))
	printKeyValue("Dome", fmt.Sprintf("%s, winding %.1f°, boss bore %.0f mm",
		d.Dome.ProfileType, d.Dome.WindingAngleDeg, d.Dome.BossBoreMM))
	printKeyValue("Pressures", fmt.Sprintf("%.0f service / %.0f test / %.0f burst bar",
		d.Pressures.ServiceBar, d.Pressures.TestBar, d.Pressures.BurstBar))
	printKeyValue("Layup", fmt.Sprintf("%d plies", d.LayerCount()))
	printNewline()
}

// =============================================================================
// Layer Stress Table
// =============================================================================

// renderLayerTable formats per-ply results as a bordered table.
func renderLayerTable(layers []laminate.LayerStress) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var rows [][]string
	for _, ls := range layers {
		rows = append(rows, []string{
			fmt.Sprintf("%d", ls.Layer),
			ls.Type,
			fmt.Sprintf("%.0f°", ls.AngleDeg),
			fmt.Sprintf("%.1f", ls.Sigma1),
			fmt.Sprintf("%.3f", ls.TsaiWu),
			fmt.Sprintf("%.0f%%", ls.MarginPercent),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Ply", "Type", "Angle", "σ1 MPa", "Tsai-Wu", "Margin").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col >= 3 {
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})

	return t.Render()
}
