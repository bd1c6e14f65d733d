package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Layout - Positioned Mind Map
// =============================================================================

// Layout is the serialization format for a laid-out mind map. Renderers,
// caches, the HTTP API and saved layout files all use it.
//
// Nodes are in tree order: the central node first, then each category
// followed by its leaves. Edges come in the same order as their child nodes.
type Layout struct {
	Central  string   `json:"central"`
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	Viewport Viewport `json:"viewport"`
}

// Node returns the node with the given key.
func (l *Layout) Node(key string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.Key == key {
			return n, true
		}
	}
	return Node{}, false
}

// CentralNode returns the root node, or false for an empty layout.
func (l *Layout) CentralNode() (Node, bool) {
	for _, n := range l.Nodes {
		if n.IsCentral() {
			return n, true
		}
	}
	return Node{}, false
}

// Validate checks that the layout is a well-formed mind-map tree: one
// central node, known kinds, unique keys, and edges between known nodes.
func (l *Layout) Validate() error {
	if len(l.Nodes) == 0 {
		return fmt.Errorf("layout has no nodes")
	}
	keys := make(map[string]string, len(l.Nodes))
	centrals := 0
	for _, n := range l.Nodes {
		switch n.Kind {
		case KindCentral:
			centrals++
		case KindCategory, KindLeaf:
		default:
			return fmt.Errorf("node %q: unknown kind %q", n.Key, n.Kind)
		}
		if _, dup := keys[n.Key]; dup {
			return fmt.Errorf("duplicate node key %q", n.Key)
		}
		keys[n.Key] = n.Kind
	}
	if centrals != 1 {
		return fmt.Errorf("layout has %d central nodes, want 1", centrals)
	}
	for _, e := range l.Edges {
		if _, ok := keys[e.From]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.From)
		}
		if _, ok := keys[e.To]; !ok {
			return fmt.Errorf("edge references unknown node %q", e.To)
		}
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and validates it.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, fmt.Errorf("invalid layout: %w", err)
	}
	return l, nil
}

// WriteLayout writes a Layout as indented JSON to w.
func WriteLayout(l Layout, w io.Writer) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
