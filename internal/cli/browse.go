package cli

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/store"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MapListModel - Interactive map selection
// =============================================================================

// mapLoader loads the category map saved for a central label.
type mapLoader func(central string) (*catmap.Map, error)

// MapListModel is the bubbletea model for picking a saved map. The right
// pane previews the categories of the map under the cursor.
type MapListModel struct {
	Names    []string
	Cursor   int
	Offset   int
	Height   int
	Filter   string
	Selected string

	load    mapLoader
	preview map[string]*catmap.Map
	errs    map[string]error
}

// NewMapListModel creates a list over names. load is called lazily for the
// preview pane and may be nil.
func NewMapListModel(names []string, load mapLoader) MapListModel {
	m := MapListModel{
		Names:   names,
		Height:  15,
		load:    load,
		preview: make(map[string]*catmap.Map),
		errs:    make(map[string]error),
	}
	m.loadPreview()
	return m
}

// visible returns the names matching the filter.
func (m MapListModel) visible() []string {
	if m.Filter == "" {
		return m.Names
	}
	f := strings.ToLower(m.Filter)
	var out []string
	for _, n := range m.Names {
		if strings.Contains(strings.ToLower(n), f) {
			out = append(out, n)
		}
	}
	return out
}

func (m MapListModel) Init() tea.Cmd {
	return nil
}

func (m MapListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		names := m.visible()
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			m.moveCursor(-1, len(names))
		case tea.KeyDown:
			m.moveCursor(1, len(names))
		case tea.KeyEnter:
			if len(names) > 0 {
				m.Selected = names[m.Cursor]
				return m, tea.Quit
			}
		case tea.KeyBackspace:
			if m.Filter != "" {
				_, size := utf8.DecodeLastRuneInString(m.Filter)
				m.Filter = m.Filter[:len(m.Filter)-size]
				m.Cursor, m.Offset = 0, 0
			}
		case tea.KeyRunes, tea.KeySpace:
			m.Filter += string(msg.Runes)
			m.Cursor, m.Offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	m.loadPreview()
	return m, nil
}

func (m *MapListModel) moveCursor(delta, n int) {
	if n == 0 {
		return
	}
	m.Cursor = min(max(m.Cursor+delta, 0), n-1)
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m *MapListModel) loadPreview() {
	names := m.visible()
	if m.load == nil || len(names) == 0 {
		return
	}
	name := names[m.Cursor]
	if _, ok := m.preview[name]; ok {
		return
	}
	if _, ok := m.errs[name]; ok {
		return
	}
	cm, err := m.load(name)
	if err != nil {
		m.errs[name] = err
		return
	}
	m.preview[name] = cm
}

func (m MapListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Saved Mind Maps"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	if m.Filter != "" {
		b.WriteString(StyleHighlight.Render("filter: " + m.Filter))
	}
	b.WriteString("\n\n")

	names := m.visible()
	end := min(m.Offset+m.Height, len(names))

	var list strings.Builder
	for i := m.Offset; i < end; i++ {
		if i == m.Cursor {
			list.WriteString(listSelectedStyle.Render("▸ " + names[i]))
		} else {
			list.WriteString(listNormalStyle.Render("  " + names[i]))
		}
		list.WriteString("\n")
	}
	if len(names) == 0 {
		list.WriteString(listDimStyle.Render("  no matching maps"))
	}

	left := lipgloss.NewStyle().Width(32).Render(list.String())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, m.previewView(names)))
	return b.String()
}

func (m MapListModel) previewView(names []string) string {
	if len(names) == 0 {
		return ""
	}
	name := names[m.Cursor]
	if err, ok := m.errs[name]; ok {
		return styleIconError.Render(iconError + " " + err.Error())
	}
	cm, ok := m.preview[name]
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, e := range cm.Entries() {
		b.WriteString(listNormalStyle.Render(e.Key))
		b.WriteString(listDimStyle.Render(fmt.Sprintf(" (%d)", e.Value.Len())))
		b.WriteString("\n")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorDim).
		Padding(0, 1).
		Render(strings.TrimRight(b.String(), "\n"))
}

// =============================================================================
// browse command
// =============================================================================

// browseCommand creates the browse command, an interactive picker over the
// saved maps that renders the chosen one.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		flags   renderFlags
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a saved map and render it",
		Long: `Pick a saved map and render it.

Lists the maps saved by 'generate' (or 'extract --save'), previews the
categories of the map under the cursor, and renders the selected map like
'render' does.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.renderDefaults()
			flags.apply(cmd, &opts, c.Config.Render.Formats)
			return c.runBrowse(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (default: <central>)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)
	flags.bindRender(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	st, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	names, err := st.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		printInfo("No saved maps yet")
		printNextStep("Create one", appName+" generate <word>")
		return nil
	}

	central, err := pickMap(ctx, st, names)
	if err != nil || central == "" {
		return err
	}

	m, err := st.LoadMap(ctx, central)
	if err != nil {
		return err
	}
	opts.Central = central
	opts.Map = m
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache, false)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(result.Artifacts, opts.Formats, central+".json", output)
	if err != nil {
		return err
	}

	printMap(central, m)
	printNewline()
	printSuccess("Rendered %s", central)
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.RenderHit)
	return nil
}

// pickMap runs the interactive list and returns the chosen label, or "" when
// the user quit.
func pickMap(ctx context.Context, st store.Store, names []string) (string, error) {
	model := NewMapListModel(names, func(central string) (*catmap.Map, error) {
		return st.LoadMap(ctx, central)
	})
	final, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if err != nil {
		return "", fmt.Errorf("browse: %w", err)
	}
	return final.(MapListModel).Selected, nil
}
