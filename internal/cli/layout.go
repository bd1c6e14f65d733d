package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// layoutCommand creates the layout command for computing radial layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		central string
		noCache bool
		flags   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "layout [map.json]",
		Short: "Compute a radial layout from a category map",
		Long: `Compute a radial layout from a category map.

The layout command takes a category map file ({"Category": ["term", ...]})
and places the central label, the categories and their terms. The output is a
layout.json file (same format as 'render -f json') that can be rendered to
SVG/PNG/PDF using the 'visualize' command.

The central label defaults to the input file name without extension.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderDefaults()
			flags.apply(cmd, &opts, nil)
			opts.Central = central
			if opts.Central == "" {
				opts.Central = centralFromPath(args[0])
			}
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&central, "central", "", "central label (default: input file name)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)

	return cmd
}

// runLayout loads the map, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	m, err := catmap.ReadFile(input)
	if err != nil {
		return err
	}
	opts.Map = m

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, cacheHit, err := runner.ComputeLayoutWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = artifactPath(basePath("", input), graph.FormatJSON)
	}
	data, err := graph.MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := writeOutput(outputPath, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(l.Nodes), len(l.Edges), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}
