package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in       string
		fallback []string
		want     []string
	}{
		{"", nil, []string{"svg"}},
		{"", []string{"png", "pdf"}, []string{"png", "pdf"}},
		{"svg", []string{"png"}, []string{"svg"}},
		{"svg, json ,dot", nil, []string{"svg", "json", "dot"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in, tt.fallback); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q, %v) = %v, want %v", tt.in, tt.fallback, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "json/Tree.json", "json/Tree"},
		{"", "Tree.layout.json", "Tree"},
		{"out/map.svg", "Tree.json", "out/map"},
		{"out/map.layout.json", "Tree.json", "out/map"},
		{"out/map", "Tree.json", "out/map"},
		{"out/map.v2", "Tree.json", "out/map.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	if got := artifactPath("out/Tree", "svg"); got != "out/Tree.svg" {
		t.Errorf("svg path = %q", got)
	}
	if got := artifactPath("out/Tree", "json"); got != "out/Tree.layout.json" {
		t.Errorf("json path = %q, want the .layout.json suffix", got)
	}
}

func TestCentralFromPath(t *testing.T) {
	tests := map[string]string{
		"json/Tree.json":           "Tree",
		"Tree.layout.json":         "Tree",
		"answers/Solar System.txt": "Solar System",
		"Tree":                     "Tree",
	}
	for in, want := range tests {
		if got := centralFromPath(in); got != want {
			t.Errorf("centralFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte(`{"central":"Tree"}`),
	}

	t.Run("multiple formats next to the input", func(t *testing.T) {
		dir := t.TempDir()
		input := filepath.Join(dir, "Tree.json")

		paths, err := writeArtifacts(artifacts, []string{"svg", "json"}, input, "")
		if err != nil {
			t.Fatalf("writeArtifacts: %v", err)
		}
		want := []string{filepath.Join(dir, "Tree.svg"), filepath.Join(dir, "Tree.layout.json")}
		if !slices.Equal(paths, want) {
			t.Errorf("paths = %v, want %v", paths, want)
		}
		for _, p := range want {
			if _, err := os.Stat(p); err != nil {
				t.Errorf("missing %s: %v", p, err)
			}
		}
	})

	t.Run("single format to explicit path", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "nested", "diagram.svg")

		paths, err := writeArtifacts(artifacts, []string{"svg"}, "Tree.json", out)
		if err != nil {
			t.Fatalf("writeArtifacts: %v", err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Errorf("paths = %v, want [%s]", paths, out)
		}
		data, err := os.ReadFile(out)
		if err != nil || string(data) != "<svg/>" {
			t.Errorf("content = %q, %v", data, err)
		}
	})

	t.Run("missing artifact", func(t *testing.T) {
		if _, err := writeArtifacts(artifacts, []string{"png"}, "Tree.json", filepath.Join(t.TempDir(), "x.png")); err == nil {
			t.Error("expected error for a format that was not rendered")
		}
	})
}

func TestRenderFlagsApply(t *testing.T) {
	var flags renderFlags
	cmd := &cobra.Command{Use: "test"}
	flags.bindLayout(cmd)
	flags.bindRender(cmd)
	if err := cmd.ParseFlags([]string{"--leaf-radius", "12", "-f", "png,dot", "--no-title"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	opts := pipeline.Options{CategoryRadius: 7, LeafRadius: 3, Style: "graphviz", Zoom: 2}
	flags.apply(cmd, &opts, []string{"svg"})

	if opts.CategoryRadius != 7 {
		t.Errorf("CategoryRadius = %v, want config value 7 kept", opts.CategoryRadius)
	}
	if opts.LeafRadius != 12 {
		t.Errorf("LeafRadius = %v, want 12 from flag", opts.LeafRadius)
	}
	if opts.Style != "graphviz" || opts.Zoom != 2 {
		t.Errorf("unset flags overrode config: style %q zoom %v", opts.Style, opts.Zoom)
	}
	if !slices.Equal(opts.Formats, []string{"png", "dot"}) {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if !opts.NoTitle {
		t.Error("NoTitle not applied")
	}
}
