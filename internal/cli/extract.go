package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/store"
)

// extractOpts holds the flags of the extract command.
type extractOpts struct {
	output  string
	central string
	save    bool
	noCache bool
}

// extractCommand creates the extract command for recovering a category map
// from a saved model answer.
func (c *CLI) extractCommand() *cobra.Command {
	var opts extractOpts

	cmd := &cobra.Command{
		Use:   "extract [answer.txt|-]",
		Short: "Recover a category map from a model answer",
		Long: `Recover a category map from a model answer.

Models asked for JSON often wrap it in prose or a fenced code block. The
extract command finds the JSON object in the answer, checks that it is a
category map, and prints it (or writes it with -o).

With --save the map is also stored under its central label, so that 'browse'
and the HTTP API can find it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			if opts.central == "" && args[0] != "-" {
				opts.central = centralFromPath(args[0])
			}
			return c.runExtract(cmd.Context(), string(text), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&opts.central, "central", "", "central label (default: input file name)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the map under its central label")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runExtract(ctx context.Context, text string, opts extractOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, opts.save)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m, res, hit, err := runner.ExtractWithCacheInfo(ctx, text)
	if err != nil {
		return err
	}
	c.Logger.Debug("extracted map", "strategy", res.Strategy, "categories", m.Len(), "cached", hit)

	if opts.save && opts.central == "" {
		return fmt.Errorf("--save needs a central label (use --central)")
	}

	data, err := catmap.MarshalIndent(m)
	if err != nil {
		return err
	}
	toStdout := opts.output == "" || opts.output == "-"
	if toStdout {
		if _, err := stdout.Write(data); err != nil {
			return err
		}
	} else {
		if err := writeOutput(opts.output, data); err != nil {
			return err
		}
		printSuccess("Extracted %d categories, %d terms", m.Len(), m.LeafCount())
		printDetail("found via %s", res.Strategy)
		printFile(opts.output)
	}

	if opts.save {
		path, err := runner.Store.SaveMap(ctx, &store.Generation{Central: opts.central, Map: m})
		if err != nil {
			return err
		}
		if toStdout {
			c.Logger.Info("saved map", "path", path)
		} else {
			printFile(path)
		}
	}
	return nil
}
