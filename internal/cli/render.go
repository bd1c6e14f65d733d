package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command that are
// not shared with the other commands.
type renderOpts struct {
	output  string // output file path (or base path for multiple outputs)
	central string // central label, defaults to the input file stem
	show    bool   // print the map as a tree before rendering
	noCache bool
}

// renderCommand creates the render command, which runs the full
// map → layout → artifacts pipeline.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts  renderOpts
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "render [map.json]",
		Short: "Render a category map to SVG, PNG, PDF, DOT or layout JSON",
		Long: `Render a category map to SVG, PNG, PDF, DOT or layout JSON.

This is the 'layout' and 'visualize' commands in one step. The central label
defaults to the input file name, so json/Tree.json renders as a mind map of
"Tree".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po := c.renderDefaults()
			flags.apply(cmd, &po, c.Config.Render.Formats)
			po.Central = opts.central
			if po.Central == "" {
				po.Central = centralFromPath(args[0])
			}
			if err := po.ValidateAndSetDefaults(); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], po, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&opts.central, "central", "", "central label (default: input file name)")
	cmd.Flags().BoolVar(&opts.show, "show", false, "print the map as a tree")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)
	flags.bindRender(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, po pipeline.Options, opts renderOpts) error {
	m, err := catmap.ReadFile(input)
	if err != nil {
		return err
	}
	po.Map = m

	if opts.show {
		printMap(po.Central, m)
		printNewline()
	}

	runner, err := c.newRunner(ctx, opts.noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", po.Central))
	spinner.Start()

	result, err := runner.Execute(ctx, po)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d nodes", result.Stats.NodeCount))

	paths, err := writeArtifacts(result.Artifacts, po.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s", po.Central)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	return nil
}
