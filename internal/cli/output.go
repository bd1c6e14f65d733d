package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// layoutSuffix is appended to the base name of layout JSON files.
const layoutSuffix = ".layout.json"

// renderFlags holds the layout and render flags shared by several commands.
// Flags left unset keep the values from the config file.
type renderFlags struct {
	categoryRadius float64
	leafRadius     float64
	leafSpan       float64

	formats string
	style   string
	zoom    float64
	noTitle bool
}

func (f *renderFlags) bindLayout(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.categoryRadius, "category-radius", 0, "distance of categories from the center (layout units)")
	cmd.Flags().Float64Var(&f.leafRadius, "leaf-radius", 0, "distance of terms from their category (layout units)")
	cmd.Flags().Float64Var(&f.leafSpan, "leaf-span", 0, "angular spread of each category's terms (radians)")
}

func (f *renderFlags) bindRender(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(graph.Formats, ", ")+" (comma-separated)")
	cmd.Flags().StringVar(&f.style, "style", "", "render style: "+strings.Join(graph.Styles, ", "))
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "pixels per layout unit multiplier (radial style)")
	cmd.Flags().BoolVar(&f.noTitle, "no-title", false, "omit the diagram title")
}

// apply copies the flags the user set onto opts, which already carries the
// config defaults.
func (f *renderFlags) apply(cmd *cobra.Command, opts *pipeline.Options, fallbackFormats []string) {
	changed := cmd.Flags().Changed
	if changed("category-radius") {
		opts.CategoryRadius = f.categoryRadius
	}
	if changed("leaf-radius") {
		opts.LeafRadius = f.leafRadius
	}
	if changed("leaf-span") {
		opts.LeafSpan = f.leafSpan
	}
	if changed("style") {
		opts.Style = f.style
	}
	if changed("zoom") {
		opts.Zoom = f.zoom
	}
	opts.NoTitle = f.noTitle
	opts.Formats = parseFormats(f.formats, fallbackFormats)
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (and a ".layout"
// infix). If output has a format extension, that extension is stripped.
func basePath(output, input string) string {
	if output == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		return strings.TrimSuffix(base, ".layout")
	}
	if base, ok := strings.CutSuffix(output, layoutSuffix); ok {
		return base
	}
	ext := filepath.Ext(output)
	if slices.Contains(graph.Formats, strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath returns the file an artifact of the given format is written to.
// Layout JSON gets a ".layout.json" suffix so it never overwrites a category
// map file of the same base name.
func artifactPath(base, format string) string {
	if format == graph.FormatJSON {
		return base + layoutSuffix
	}
	return base + "." + format
}

// writeArtifacts writes rendered outputs in the order of formats and returns
// the written paths. A single format with an explicit output path is written
// to exactly that path.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	if len(formats) == 1 && output != "" {
		data, ok := artifacts[formats[0]]
		if !ok {
			return nil, fmt.Errorf("no %s output produced", formats[0])
		}
		if err := writeOutput(output, data); err != nil {
			return nil, err
		}
		return []string{output}, nil
	}

	base := basePath(output, input)
	paths := make([]string, 0, len(formats))
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			return paths, fmt.Errorf("no %s output produced", format)
		}
		path := artifactPath(base, format)
		if err := writeOutput(path, data); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// writeOutput writes data to path, creating parent directories as needed.
// The path "-" writes to stdout.
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readInput reads a file, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
