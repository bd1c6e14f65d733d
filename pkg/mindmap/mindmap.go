package mindmap

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/mindmap/pkg/catmap"
	apperrors "github.com/matzehuels/mindmap/pkg/errors"
)

// PaletteSize is the number of distinct category colors.
const PaletteSize = 8

// NoParent is the Parent of the central node.
const NoParent = -1

// KeySeparator joins a parent key and a label into a child key.
const KeySeparator = "\x00"

// Kind is the tier of a node.
type Kind int

const (
	Central Kind = iota
	Category
	Leaf
)

var kindNames = [...]string{"central", "category", "leaf"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// Node is one box of the mind map.
type Node struct {
	ID         int
	Key        string
	Label      string
	Kind       Kind
	ColorIndex int
	Parent     int   // NoParent for the central node
	Children   []int // child ids in insertion order
}

// Edge is a parent→child link between node ids.
type Edge struct {
	From, To int
}

// Model is an immutable mind map. Accessors return copies.
type Model struct {
	nodes []Node
	edges []Edge
	index map[string]int
}

// Build creates a model from a central label and a category map.
//
// A nil or empty map yields a model with only the central node. An empty
// central label, or any label containing a NUL byte, is rejected with
// MALFORMED_INPUT. Repeated leaf labels within one category collapse into a
// single leaf at the first position.
func Build(central string, cm *catmap.Map) (*Model, error) {
	if strings.TrimSpace(central) == "" {
		return nil, apperrors.New(apperrors.ErrCodeMalformedInput, "central label is empty")
	}
	if err := checkLabel("central label", central); err != nil {
		return nil, err
	}

	m := &Model{index: make(map[string]int)}
	root := m.add(central, central, Central, 0, NoParent)
	if cm == nil {
		return m, nil
	}

	for i, e := range cm.Entries() {
		color := i % PaletteSize
		if err := checkLabel("category", e.Key); err != nil {
			return nil, err
		}
		cat := m.add(childKey(central, e.Key), e.Key, Category, color, root)
		catKey := m.nodes[cat].Key
		for j, label := range e.Value.Labels() {
			if err := checkLabel(fmt.Sprintf("category %q item %d", e.Key, j), label); err != nil {
				return nil, err
			}
			key := childKey(catKey, label)
			if _, dup := m.index[key]; dup {
				continue
			}
			m.add(key, label, Leaf, color, cat)
		}
	}
	return m, nil
}

// BuildJSON parses raw as a category map and builds a model from it.
// Shape errors are reported as MALFORMED_INPUT naming the offending key.
func BuildJSON(central string, raw []byte) (*Model, error) {
	cm, err := catmap.Parse(raw)
	if err != nil {
		return nil, err
	}
	return Build(central, cm)
}

// checkLabel rejects labels that would make qualified keys ambiguous.
func checkLabel(what, label string) error {
	if strings.Contains(label, KeySeparator) {
		return apperrors.New(apperrors.ErrCodeMalformedInput, "%s %q contains a NUL byte", what, label)
	}
	return nil
}

func childKey(parent, label string) string {
	return parent + KeySeparator + label
}

func (m *Model) add(key, label string, kind Kind, color, parent int) int {
	id := len(m.nodes)
	m.nodes = append(m.nodes, Node{
		ID:         id,
		Key:        key,
		Label:      label,
		Kind:       kind,
		ColorIndex: color,
		Parent:     parent,
	})
	m.index[key] = id
	if parent != NoParent {
		m.nodes[parent].Children = append(m.nodes[parent].Children, id)
		m.edges = append(m.edges, Edge{From: parent, To: id})
	}
	return id
}

// Len returns the number of nodes.
func (m *Model) Len() int { return len(m.nodes) }

// Central returns the central node.
func (m *Model) Central() Node { return m.node(0) }

// Node returns the node with the given id.
func (m *Model) Node(id int) (Node, bool) {
	if id < 0 || id >= len(m.nodes) {
		return Node{}, false
	}
	return m.node(id), true
}

// Lookup returns the node with the given key.
func (m *Model) Lookup(key string) (Node, bool) {
	id, ok := m.index[key]
	if !ok {
		return Node{}, false
	}
	return m.node(id), true
}

// Nodes returns all nodes in id order.
func (m *Model) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i := range m.nodes {
		out[i] = m.node(i)
	}
	return out
}

// Edges returns all edges in insertion order.
func (m *Model) Edges() []Edge { return slices.Clone(m.edges) }

// Children returns the children of a node in order.
func (m *Model) Children(id int) []Node {
	if id < 0 || id >= len(m.nodes) {
		return nil
	}
	kids := m.nodes[id].Children
	out := make([]Node, len(kids))
	for i, c := range kids {
		out[i] = m.node(c)
	}
	return out
}

// Categories returns the central node's children in map order.
func (m *Model) Categories() []Node { return m.Children(0) }

// Count returns the number of nodes of the given kind.
func (m *Model) Count(kind Kind) int {
	n := 0
	for _, nd := range m.nodes {
		if nd.Kind == kind {
			n++
		}
	}
	return n
}

func (m *Model) node(id int) Node {
	n := m.nodes[id]
	n.Children = slices.Clone(n.Children)
	return n
}
