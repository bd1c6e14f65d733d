package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

// generateOpts holds the flags of the generate command.
type generateOpts struct {
	model       string
	promptFile  string
	temperature float64
	maxTokens   int
	output      string
	show        bool
	noCache     bool
}

// generateCommand creates the generate command, which asks a model for a
// category map and renders it.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		opts  generateOpts
		flags renderFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [word]",
		Short: "Ask a language model for a mind map of a word",
		Long: `Ask a language model for a mind map of a word.

The prompt file (or the built-in prompt) is sent as the system message and
the word as the user message. The prompt is saved to prompts/ before the
model is called; the category map recovered from the answer is saved to
json/<word>.json and rendered next to it.

Models are given as provider/name, for example openai/gpt-4o-mini or
anthropic/claude-3-5-haiku-20241022. Run 'mindmap models' for the list.
API keys are read from OPENAI_API_KEY and ANTHROPIC_API_KEY, or from the
auth.env file.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			po := c.renderDefaults()
			flags.apply(cmd, &po, c.Config.Render.Formats)
			po.Central = strings.TrimSpace(args[0])

			gen := pipeline.GenerateOptions{
				Options:     po,
				Model:       c.Config.LLM.Model,
				Temperature: c.Config.LLM.Temperature,
				MaxTokens:   c.Config.LLM.MaxTokens,
			}
			if cmd.Flags().Changed("model") {
				gen.Model = opts.model
			}
			if cmd.Flags().Changed("temperature") {
				gen.Temperature = opts.temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				gen.MaxTokens = opts.maxTokens
			}

			promptFile := c.Config.LLM.PromptFile
			if opts.promptFile != "" {
				promptFile = opts.promptFile
			}
			if promptFile != "" {
				data, err := os.ReadFile(promptFile)
				if err != nil {
					return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "prompt file %s", promptFile)
				}
				gen.Prompt = strings.TrimSpace(string(data))
			}
			return c.runGenerate(cmd.Context(), gen, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "model as provider/name (default from config)")
	cmd.Flags().StringVarP(&opts.promptFile, "prompt-file", "p", "", "file with the system prompt (default: built-in prompt)")
	cmd.Flags().Float64Var(&opts.temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "maximum tokens in the answer")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (default: json/<word>)")
	cmd.Flags().BoolVar(&opts.show, "show", false, "print the map as a tree")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)
	flags.bindRender(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, gen pipeline.GenerateOptions, opts generateOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache, true)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Asking %s about %q...", gen.Model, gen.Central))
	spinner.Start()

	res, err := runner.Generate(ctx, gen)
	if err != nil {
		spinner.StopWithError("Generation failed")
		var ge *pipeline.GenerateError
		if errors.As(err, &ge) {
			printWarning("The model's answer did not contain a usable category map:")
			fmt.Fprintln(os.Stderr, ge.Raw)
		}
		return err
	}
	spinner.Stop()

	if opts.show {
		printMap(gen.Central, res.Map)
		printNewline()
	}

	// Artifacts go next to a saved map file, or into the working directory.
	input := gen.Central + ".json"
	if _, ok := runner.Store.(*store.FileStore); ok && res.MapPath != "" {
		input = res.MapPath
	}
	paths, err := writeArtifacts(res.Artifacts, gen.Formats, input, opts.output)
	if err != nil {
		return err
	}

	printSuccess("Generated %s with %s", gen.Central, res.Model)
	printDetail("%d categories, %d terms (found via %s)", res.Map.Len(), res.Map.LeafCount(), res.Strategy)
	if res.PromptPath != "" {
		printFile(res.PromptPath)
	}
	if res.MapPath != "" {
		printFile(res.MapPath)
	}
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, res.CacheInfo.ExtractHit)
	return nil
}
