package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/llm"
)

// modelsCommand lists the known models and whether they can be used.
func (c *CLI) modelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the known language models",
		Long: `List the models offered for generation. Any "provider/name" model accepted
by the provider works too; this is just the menu.

A model is ready when its provider's API key is configured (OPENAI_API_KEY,
ANTHROPIC_API_KEY) or, for Ollama, always.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), modelTable(c.Config.LLM))
			return nil
		},
	}
}

// modelTable renders llm.KnownModels as a table, marking the configured
// default model.
func modelTable(cfg config.LLMConfig) string {
	def := cfg.Model
	if def == "" {
		def = llm.DefaultModel
	}

	rows := make([][]string, 0, len(llm.KnownModels))
	for _, model := range llm.KnownModels {
		provider, name, err := llm.ParseModel(model)
		if err != nil {
			continue
		}
		marker := ""
		if model == def {
			marker = iconSuccess
		}
		ready := StyleDim.Render("no key")
		if providerReady(cfg, provider) {
			ready = StyleSuccess.Render("ready")
		}
		rows = append(rows, []string{marker, provider, name, ready})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Provider", "Model", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

func providerReady(cfg config.LLMConfig, provider string) bool {
	switch provider {
	case llm.ProviderOpenAI:
		return cfg.OpenAIKey != ""
	case llm.ProviderAnthropic:
		return cfg.AnthropicKey != ""
	default:
		return true
	}
}
