package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/mindmap/pkg/catmap"
	"github.com/matzehuels/mindmap/pkg/config"
)

// captureStdout redirects the UI output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintMap(t *testing.T) {
	buf := captureStdout(t)
	m := catmap.New().
		Set("Nature", catmap.List("Forest", "Leaf")).
		Set("Symbolism", catmap.Single("Life"))

	printMap("Tree", m)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{"Tree", "Nature", "Forest", "Leaf", "Symbolism", "Life"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), buf)
	}
	for i, w := range want {
		if !strings.Contains(lines[i], w) {
			t.Errorf("line %d = %q, want it to contain %q", i, lines[i], w)
		}
	}
	if !strings.HasPrefix(lines[2], "    ") {
		t.Errorf("terms should be indented under their category: %q", lines[2])
	}
}

func TestPrintStats(t *testing.T) {
	buf := captureStdout(t)
	printStats(6, 5, true)
	out := buf.String()
	for _, s := range []string{"6 nodes", "5 edges", "cached"} {
		if !strings.Contains(out, s) {
			t.Errorf("stats line %q missing %q", out, s)
		}
	}
}

func TestModelTable(t *testing.T) {
	cfg := config.Default().LLM
	cfg.Model = "anthropic/claude-3-5-haiku-20241022"
	cfg.AnthropicKey = "sk-test"

	out := modelTable(cfg)
	for _, s := range []string{"Provider", "openai", "anthropic", "ollama", "ready", "no key"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, iconSuccess) && !strings.Contains(line, "claude-3-5-haiku") {
			t.Errorf("default marker on the wrong row: %q", line)
		}
	}
}

func TestProviderReady(t *testing.T) {
	cfg := config.LLMConfig{OpenAIKey: "k"}
	if !providerReady(cfg, "openai") || providerReady(cfg, "anthropic") || !providerReady(cfg, "ollama") {
		t.Error("providerReady does not follow the configured keys")
	}
}
