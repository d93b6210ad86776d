package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vango-dev/sortable/pkg/sortable"
)

func press(m *playModel, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keySpace = tea.KeyMsg{Type: tea.KeySpace}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func liveNames(m *playModel) string {
	var b strings.Builder
	for _, it := range m.ranked() {
		b.WriteString(it.Element().Text())
	}
	return b.String()
}

func TestPlay_DragUpAndDrop(t *testing.T) {
	m, err := newPlayModel([]string{"A", "B", "C", "D"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// D above B.
	press(m, keyDown, keyDown, keyDown, keySpace, keyUp, keyUp, keyEnter)

	if got := liveNames(m); got != "ADBC" {
		t.Fatalf("order = %s, want ADBC", got)
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor)
	}
	if m.dragging != nil {
		t.Error("still dragging after drop")
	}
	last := m.log[len(m.log)-1]
	if last != "sorted {1:0 4:1 2:2 3:3}" {
		t.Errorf("log = %q", last)
	}
	for _, it := range m.container.Items() {
		if it.State() != sortable.StateIdle {
			t.Errorf("%s state = %s", it.Element().Text(), it.State())
		}
	}
}

func TestPlay_DragDown(t *testing.T) {
	m, err := newPlayModel([]string{"A", "B", "C", "D"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	// A below C.
	press(m, keySpace, keyDown, keyDown, keyEnter)
	if got := liveNames(m); got != "BCAD" {
		t.Fatalf("order = %s, want BCAD", got)
	}
}

func TestPlay_CancelKeepsMoveWithoutSorted(t *testing.T) {
	m, err := newPlayModel([]string{"A", "B", "C"}, nil)
	if err != nil {
		t.Fatal(err)
	}

	press(m, keySpace, keyDown, keyEsc)
	if got := liveNames(m); got != "BAC" {
		t.Fatalf("order = %s, want BAC", got)
	}
	for _, l := range m.log {
		if strings.HasPrefix(l, "sorted") {
			t.Fatalf("cancel announced sorted: %v", m.log)
		}
	}
}

func TestPlay_CursorBounds(t *testing.T) {
	m, err := newPlayModel([]string{"A", "B"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	press(m, keyUp, keyUp)
	if m.cursor != 0 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	press(m, keyDown, keyDown, keyDown)
	if m.cursor != 1 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	if !strings.Contains(m.View(), "→ 2. B") {
		t.Errorf("view does not mark the cursor:\n%s", m.View())
	}
}

func TestFormatOrders(t *testing.T) {
	if got := formatOrders(map[string]int{"b": 1, "a": 0}); got != "{a:0 b:1}" {
		t.Errorf("formatOrders = %q", got)
	}
}
