package cli

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// demoCommand creates the demo command for interactive state exploration.
func (c *CLI) demoCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "demo [graph.json]",
		Short: "Explore hover and selection states in the terminal",
		Long: `Explore hover and selection states in the terminal.

The demo command loads a graph file and drives its widget interactively:
moving the cursor hovers a node, enter selects it, f focuses its layer,
and a cycles through audience filters. The panel shows the visual state
each interaction produces: the active mode, per-node scale and opacity,
and where each label settled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.Context(), args[0], configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "widget options TOML file")

	return cmd
}

// runDemo loads the widget and hands it to the explorer TUI. The demo
// recomposes on every keystroke, so it runs without an artifact cache.
func (c *CLI) runDemo(ctx context.Context, input, configPath string) error {
	w, err := c.loadWidget(input, configPath, true)
	if err != nil {
		return err
	}

	prog := tea.NewProgram(newExplorerModel(w), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = prog.Run()
	return err
}
