package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nodeglow/nodeglow/pkg/effects"
	"github.com/nodeglow/nodeglow/pkg/graph"
	"github.com/nodeglow/nodeglow/pkg/widget"
)

// =============================================================================
// explorerModel - Interactive state exploration
// =============================================================================

// explorerModel is the bubbletea model for the demo command. The cursor row
// is the hovered node; every keystroke replays an interaction into the
// widget and the table shows the composed state that falls out.
type explorerModel struct {
	widget *widget.Widget
	nodes  []*graph.Node

	cursor int
	offset int
	height int

	selected     string
	focusedLayer string
	audiences    []string
	audienceIdx  int

	state      *effects.EffectState
	placements map[string]widget.Placement
}

// newExplorerModel builds the model and hovers the first node so the
// initial view already shows an interaction state.
func newExplorerModel(w *widget.Widget) explorerModel {
	m := explorerModel{
		widget:      w,
		nodes:       w.Graph().Nodes(),
		height:      15,
		audienceIdx: -1,
	}

	for tag := range w.Stats().Audiences {
		m.audiences = append(m.audiences, tag)
	}
	sort.Strings(m.audiences)

	if len(m.nodes) > 0 {
		m.widget.Hover(m.nodes[0].ID, 0)
	}
	return m.refresh()
}

// refresh recomputes the composed state and label layout after an
// interaction.
func (m explorerModel) refresh() explorerModel {
	ctx := context.Background()
	m.state = m.widget.State(ctx)

	placed := m.widget.PlaceLabels(ctx)
	m.placements = make(map[string]widget.Placement, len(placed))
	for _, p := range placed {
		m.placements[p.NodeID] = p
	}
	return m
}

func (m explorerModel) Init() tea.Cmd {
	return nil
}

func (m explorerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
				m.widget.Hover(m.nodes[m.cursor].ID, 0)
				return m.refresh(), nil
			}

		case "down", "j":
			if m.cursor < len(m.nodes)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
				m.widget.Hover(m.nodes[m.cursor].ID, 0)
				return m.refresh(), nil
			}

		case "enter":
			if len(m.nodes) == 0 {
				return m, nil
			}
			id := m.nodes[m.cursor].ID
			if m.selected == id {
				m.widget.ClearSelection()
				m.selected = ""
			} else {
				m.widget.Select(id)
				m.selected = id
			}
			return m.refresh(), nil

		case "f":
			if len(m.nodes) == 0 {
				return m, nil
			}
			layer := m.nodes[m.cursor].Layer
			if layer == "" {
				return m, nil
			}
			if m.focusedLayer == layer {
				layer = ""
			}
			m.widget.FocusLayer(layer)
			m.focusedLayer = layer
			return m.refresh(), nil

		case "a":
			if len(m.audiences) == 0 {
				return m, nil
			}
			m.audienceIdx++
			if m.audienceIdx >= len(m.audiences) {
				m.audienceIdx = -1
				m.widget.SetAudience("")
			} else {
				m.widget.SetAudience(m.audiences[m.audienceIdx])
			}
			return m.refresh(), nil

		case "esc":
			m.widget.HoverEnd()
			m.widget.ClearSelection()
			m.widget.FocusLayer("")
			m.widget.SetAudience("")
			m.selected = ""
			m.focusedLayer = ""
			m.audienceIdx = -1
			return m.refresh(), nil
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m explorerModel) View() string {
	if len(m.nodes) == 0 {
		return StyleDim.Render("Graph has no nodes. Press q to quit.")
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Interaction Explorer"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ hover  ⏎ select  f layer  a audience  esc clear  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.nodes) {
		end = len(m.nodes)
	}

	rows := [][]string{}
	for i := m.offset; i < end; i++ {
		n := m.nodes[i]
		e := m.state.Nodes[n.ID]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		layer := n.Layer
		if layer == "" {
			layer = "-"
		}

		dir := "-"
		if p, ok := m.placements[n.ID]; ok {
			dir = string(p.Direction)
		}

		rows = append(rows, []string{
			cursor, n.Label, layer,
			fmt.Sprintf("%.2f", e.Scale),
			fmt.Sprintf("%.2f", e.Opacity),
			dir,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "Layer", "Scale", "Opacity", "Label").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			idx := m.offset + row
			if idx >= len(m.nodes) {
				return lipgloss.NewStyle()
			}
			n := m.nodes[idx]
			e := m.state.Nodes[n.ID]

			base := lipgloss.NewStyle()
			switch {
			case idx == m.cursor:
				return base.Foreground(colorCyan).Bold(true)
			case n.ID == m.selected:
				return base.Foreground(colorGreen)
			case e.Hidden:
				return base.Foreground(colorDim)
			case e.Blurred:
				return base.Foreground(colorGray)
			}
			return base.Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")

	footer := "  mode " + StyleHighlight.Render(m.state.Mode.String())
	if m.focusedLayer != "" {
		footer += StyleDim.Render("  layer ") + m.focusedLayer
	}
	if m.audienceIdx >= 0 {
		footer += StyleDim.Render("  audience ") + m.audiences[m.audienceIdx]
	}
	footer += StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.nodes)))
	b.WriteString(footer)

	return b.String()
}
