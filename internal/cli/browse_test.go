package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/mindmap/pkg/catmap"
)

func testLoader(calls *[]string) mapLoader {
	return func(central string) (*catmap.Map, error) {
		*calls = append(*calls, central)
		if central == "Broken" {
			return nil, errors.New("corrupt file")
		}
		return catmap.New().
			Set("Nature", catmap.List("Forest", "Leaf")).
			Set("Symbolism", catmap.Single("Life")), nil
	}
}

func press(m MapListModel, msgs ...tea.Msg) (MapListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(MapListModel)
	}
	return m, cmd
}

func TestMapListNavigation(t *testing.T) {
	var calls []string
	m := NewMapListModel([]string{"Ocean", "Tree", "Volcano"}, testLoader(&calls))

	if len(calls) != 1 || calls[0] != "Ocean" {
		t.Fatalf("initial preview loads = %v, want [Ocean]", calls)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.Cursor != 2 {
		t.Errorf("Cursor = %d, want 2 (clamped)", m.Cursor)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyUp})
	if m.Cursor != 1 {
		t.Errorf("Cursor = %d, want 1", m.Cursor)
	}

	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "Tree" {
		t.Errorf("Selected = %q, want Tree", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}

	// Each map is loaded at most once.
	if len(calls) != 3 {
		t.Errorf("preview loads = %v", calls)
	}
}

func TestMapListFilter(t *testing.T) {
	m := NewMapListModel([]string{"Ocean", "Tree", "Treasure"}, nil)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("tre")})
	if got := m.visible(); len(got) != 2 {
		t.Fatalf("visible = %v, want Tree and Treasure", got)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	if got := m.visible(); len(got) != 1 || got[0] != "Treasure" {
		t.Errorf("visible = %v, want [Treasure]", got)
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace})
	if m.Filter != "tr" {
		t.Errorf("Filter = %q, want tr", m.Filter)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Selected != "" || cmd != nil {
		t.Error("enter with no matches should do nothing")
	}
	if !strings.Contains(m.View(), "no matching maps") {
		t.Error("view should say nothing matches")
	}
}

func TestMapListQuit(t *testing.T) {
	m := NewMapListModel([]string{"Tree"}, nil)
	m, cmd := press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc should quit")
	}
	if m.Selected != "" {
		t.Errorf("Selected = %q, want none", m.Selected)
	}
}

func TestMapListScroll(t *testing.T) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}
	m := NewMapListModel(names, nil)
	m, _ = press(m, tea.WindowSizeMsg{Width: 80, Height: 11})
	if m.Height != 5 {
		t.Fatalf("Height = %d, want 5", m.Height)
	}
	for range 7 {
		m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	}
	if m.Cursor != 7 || m.Offset != 3 {
		t.Errorf("Cursor, Offset = %d, %d; want 7, 3", m.Cursor, m.Offset)
	}
	view := m.View()
	if strings.Contains(view, "▸ a") || !strings.Contains(view, "▸ h") {
		t.Errorf("view does not follow the cursor:\n%s", view)
	}
}

func TestMapListPreview(t *testing.T) {
	var calls []string
	m := NewMapListModel([]string{"Tree", "Broken"}, testLoader(&calls))

	view := m.View()
	if !strings.Contains(view, "Nature") || !strings.Contains(view, "(2)") {
		t.Errorf("preview missing categories:\n%s", view)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	if !strings.Contains(m.View(), "corrupt file") {
		t.Error("preview should show the load error")
	}
}
