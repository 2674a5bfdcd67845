package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/nodeglow/nodeglow/pkg/widget"
)

// inspectParams collects the inspect command's flag values.
type inspectParams struct {
	config     string
	noCache    bool
	showLabels bool
	source     string
	output     string
}

// inspectCommand creates the inspect command for examining graph files.
func (c *CLI) inspectCommand() *cobra.Command {
	var p inspectParams

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Load a graph file and report its interaction surface",
		Long: `Load a graph file and report its interaction surface.

The inspect command validates the graph, computes the resting visual
state and label layout, and prints a summary. Use --labels to list every
placed label with its direction and coordinates, and --distances-from to
print hop distances out of one node.

Computed layouts are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], p)
		},
	}

	cmd.Flags().StringVar(&p.config, "config", "", "widget options TOML file")
	cmd.Flags().BoolVar(&p.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&p.showLabels, "labels", false, "list the resolved label layout")
	cmd.Flags().StringVar(&p.source, "distances-from", "", "print hop distances from this node")
	cmd.Flags().StringVarP(&p.output, "output", "o", "", "write the full snapshot as JSON to this file")

	return cmd
}

// runInspect loads the widget, computes a snapshot, and prints it.
func (c *CLI) runInspect(ctx context.Context, input string, p inspectParams) error {
	sp := newSpinner(ctx, "Loading graph...")
	w, err := c.loadWidget(input, p.config, p.noCache)
	if err != nil {
		sp.fail("Load failed")
		return err
	}
	snap := w.Snapshot(ctx)
	sp.stop()

	stats := snap.Stats
	printSuccess("Loaded %s", input)
	printStats(stats.NodeCount, stats.LinkCount, len(snap.Labels), snap.CacheInfo.LayoutHit)
	printNewline()

	printKeyValue("Graph", snap.GraphID)
	printKeyValue("Hash", shortHash(snap.GraphHash))
	printKeyValue("Layers", strconv.Itoa(stats.LayerCount))
	printKeyValue("Subnodes", strconv.Itoa(stats.SubnodeCount))
	printKeyValue("Synthetic", strconv.Itoa(stats.SyntheticLinkCount))
	if len(stats.Audiences) > 0 {
		printKeyValue("Audiences", strconv.Itoa(len(stats.Audiences)))
	}
	if tr := stats.TimeRange; tr != nil {
		printKeyValue("Timespan", fmt.Sprintf("%d to %d", tr.Start, tr.End))
	}

	if p.showLabels {
		printNewline()
		printInfo("Label layout")
		for _, l := range snap.Labels {
			printDetail("%-24s %-7s (%7.1f, %7.1f)  %.0fx%.0f", l.Text, l.Direction, l.X, l.Y, l.Width, l.Height)
		}
	}

	if p.source != "" {
		if err := c.printDistances(ctx, w, p.source); err != nil {
			return err
		}
	}

	if p.output != "" {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return fmt.Errorf("encode snapshot: %w", err)
		}
		if err := os.WriteFile(p.output, data, 0o644); err != nil {
			return fmt.Errorf("write snapshot: %w", err)
		}
		printNewline()
		printFile(p.output)
	}

	printNewline()
	printNextStep("Serve it", "nodeglow serve")
	return nil
}

// printDistances prints hop counts from source, nearest first.
func (c *CLI) printDistances(ctx context.Context, w *widget.Widget, source string) error {
	dists, _ := w.Distances(ctx, source)
	if len(dists) <= 1 {
		printWarning("no nodes reachable from %q", source)
		return nil
	}

	ids := make([]string, 0, len(dists))
	for id := range dists {
		if id != source {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		if dists[ids[i]] != dists[ids[j]] {
			return dists[ids[i]] < dists[ids[j]]
		}
		return ids[i] < ids[j]
	})

	printNewline()
	printInfo("Distances from %s", source)
	for _, id := range ids {
		printDetail("%-24s %d", id, dists[id])
	}
	return nil
}

// shortHash truncates a content hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
