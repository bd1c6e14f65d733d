package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/graph"
)

const treeMap = `{"Nature": ["Forest", "Leaf"], "Symbolism": "Life"}`

// runCLI runs the root command with a throwaway config: no cache and a file
// store under dir.
func runCLI(t *testing.T, dir string, stdin string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(dir, "mindmap.toml")
	cfg := "[cache]\nbackend = \"none\"\n\n[store]\ndir = " + `"` + filepath.ToSlash(filepath.Join(dir, "store")) + `"` + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	out := captureStdout(t)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(append([]string{"--config", cfgPath, "--env-file", filepath.Join(dir, "none.env")}, args...))
	root.SetIn(strings.NewReader(stdin))
	var cobraOut bytes.Buffer
	root.SetOut(&cobraOut)
	root.SetErr(io.Discard)

	err := root.ExecuteContext(t.Context())
	return out.String() + cobraOut.String(), err
}

func writeMap(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "Tree.json")
	if err := os.WriteFile(path, []byte(treeMap), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeMap(t, dir)

	out, err := runCLI(t, dir, "", "render", input, "-f", "json,dot")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Rendered Tree") {
		t.Errorf("output = %q", out)
	}

	l, err := graph.ReadLayoutFile(filepath.Join(dir, "Tree.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Central != "Tree" || len(l.Nodes) != 6 || len(l.Edges) != 5 {
		t.Errorf("layout: central %q, %d nodes, %d edges", l.Central, len(l.Nodes), len(l.Edges))
	}
	dot, err := os.ReadFile(filepath.Join(dir, "Tree.dot"))
	if err != nil || !strings.Contains(string(dot), `label="Tree"`) {
		t.Errorf("dot output: %v\n%s", err, dot)
	}

	// The input map is untouched.
	data, _ := os.ReadFile(input)
	if string(data) != treeMap {
		t.Error("render overwrote the input map")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	input := writeMap(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"render", input, "-f", "gif"}},
		{"missing file", []string{"render", filepath.Join(dir, "nope.json")}},
		{"bad radius", []string{"render", input, "--leaf-radius", "-3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, dir, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	dir := t.TempDir()
	input := writeMap(t, dir)

	if _, err := runCLI(t, dir, "", "layout", input, "--category-radius", "20"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	layoutPath := filepath.Join(dir, "Tree.layout.json")
	if _, err := os.Stat(layoutPath); err != nil {
		t.Fatalf("layout file: %v", err)
	}

	if _, err := runCLI(t, dir, "", "visualize", layoutPath, "-f", "dot"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Tree.dot")); err != nil {
		t.Errorf("dot file: %v", err)
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	answer := "Here is your map:\n```json\n" + treeMap + "\n```\n"

	t.Run("stdin to stdout", func(t *testing.T) {
		out, err := runCLI(t, dir, answer, "extract", "-")
		if err != nil {
			t.Fatalf("extract: %v", err)
		}
		m, err := catmap.Parse([]byte(out))
		if err != nil {
			t.Fatalf("output is not a map: %v\n%s", err, out)
		}
		if m.Len() != 2 || m.LeafCount() != 3 {
			t.Errorf("got %d categories, %d terms", m.Len(), m.LeafCount())
		}
	})

	t.Run("save under central", func(t *testing.T) {
		outPath := filepath.Join(dir, "out", "Tree.json")
		if _, err := runCLI(t, dir, answer, "extract", "-", "-o", outPath, "--central", "Tree", "--save"); err != nil {
			t.Fatalf("extract: %v", err)
		}
		if _, err := catmap.ReadFile(outPath); err != nil {
			t.Errorf("output file: %v", err)
		}
		if _, err := catmap.ReadFile(filepath.Join(dir, "store", "json", "Tree.json")); err != nil {
			t.Errorf("saved map: %v", err)
		}
	})

	t.Run("save without central", func(t *testing.T) {
		if _, err := runCLI(t, dir, answer, "extract", "-", "--save"); err == nil {
			t.Error("expected an error without a central label")
		}
	})

	t.Run("no json", func(t *testing.T) {
		if _, err := runCLI(t, dir, "I don't know.", "extract", "-"); err == nil {
			t.Error("expected extraction to fail")
		}
	})
}

func TestCachePathCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg"))

	out, err := runCLI(t, dir, "", "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "xdg", "mindmap") {
		t.Errorf("cache path = %q", out)
	}
}

func TestModelsCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "", "models")
	if err != nil {
		t.Fatalf("models: %v", err)
	}
	if !strings.Contains(out, "gpt-4o-mini") {
		t.Errorf("models output:\n%s", out)
	}
}
