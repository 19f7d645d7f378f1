package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/colortrade/pkg/instance"
	"github.com/matzehuels/colortrade/pkg/pipeline"
)

func browseModel(t *testing.T, name string) ColoringListModel {
	t.Helper()
	in, ok := instance.Builtin(name)
	if !ok {
		t.Fatalf("no builtin %q", name)
	}
	res, err := pipeline.NewRunner(nil, nil, nil).Execute(context.Background(), in, pipeline.Options{Workers: 1})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return NewColoringListModel(res)
}

func press(m ColoringListModel, keys ...string) ColoringListModel {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ColoringListModel)
	}
	return m
}

func TestColoringListNavigation(t *testing.T) {
	m := browseModel(t, "k4")
	if len(m.Solutions) != 6 {
		t.Fatalf("len(Solutions) = %d, want 6", len(m.Solutions))
	}

	m = press(m, "up")
	if m.Cursor != 0 {
		t.Errorf("Cursor = %d after up at top, want 0", m.Cursor)
	}
	m = press(m, "down", "down", "j")
	if m.Cursor != 3 {
		t.Errorf("Cursor = %d, want 3", m.Cursor)
	}
	m = press(m, "G")
	if m.Cursor != 5 {
		t.Errorf("Cursor = %d after G, want 5", m.Cursor)
	}
	m = press(m, "down")
	if m.Cursor != 5 {
		t.Errorf("Cursor = %d after down at bottom, want 5", m.Cursor)
	}
}

func TestColoringListScroll(t *testing.T) {
	m := browseModel(t, "k4")
	m.Height = 2

	m = press(m, "down", "down", "down")
	if m.Offset != 2 {
		t.Errorf("Offset = %d, want 2", m.Offset)
	}
	m = press(m, "g")
	if m.Cursor != 0 || m.Offset != 0 {
		t.Errorf("Cursor, Offset = %d, %d after g, want 0, 0", m.Cursor, m.Offset)
	}
}

func TestColoringListJumpCyclesPartners(t *testing.T) {
	m := browseModel(t, "k4")
	start := m.Cursor
	partners := m.Partners[start]
	if len(partners) == 0 {
		t.Fatal("k4 coloring 0 has no trade partners")
	}

	var visited []int
	for range partners {
		m = press(m, "t")
		visited = append(visited, m.Cursor)
	}
	for i, p := range partners {
		if visited[i] != p {
			t.Errorf("jump %d went to %d, want %d", i, visited[i], p)
		}
	}

	m = press(m, "t")
	if m.Cursor != partners[0] {
		t.Errorf("jump after a full cycle went to %d, want %d", m.Cursor, partners[0])
	}
}

func TestColoringListSelect(t *testing.T) {
	m := browseModel(t, "hexagon")
	next, cmd := press(m, "down").Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(ColoringListModel)
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
	if cmd == nil {
		t.Error("enter did not quit")
	}
}

func TestColoringListView(t *testing.T) {
	m := browseModel(t, "hexagon")
	view := m.View()

	for _, want := range []string{"hexagon", "#0", "#1", "trades with", "[1/2]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestColoringListEmpty(t *testing.T) {
	m := ColoringListModel{Title: "empty", Selected: -1}
	if !strings.Contains(m.View(), "no colorings") {
		t.Error("empty view does not say so")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown}); cmd == nil {
		t.Error("key press on an empty list did not quit")
	}
}
