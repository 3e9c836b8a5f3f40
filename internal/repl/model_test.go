package repl

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/internal/history"
)

func newModel(t *testing.T, cfg Config) Model {
	t.Helper()
	if cfg.Grammar.Name == "" {
		cfg.Grammar = grammar.Default()
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

func send(m Model, msg tea.Msg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func submit(m Model, line string) (Model, tea.Cmd) {
	m, _ = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(line)})
	return send(m, tea.KeyMsg{Type: tea.KeyEnter})
}

func last(m Model) Entry {
	tr := m.Transcript()
	return tr[len(tr)-1]
}

func TestEvaluateAndToggleMode(t *testing.T) {
	m := newModel(t, Config{})

	m, _ = submit(m, "2+3*4")
	if got := last(m); got.Output != "14" || got.Failed {
		t.Errorf("eval entry = %+v, want output 14", got)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != ModeTree {
		t.Fatalf("Mode() after Tab = %q, want tree", m.Mode())
	}

	m, _ = submit(m, "-3+4")
	if got := last(m); !strings.HasPrefix(got.Output, "(+ (- 3) 4)\n") {
		t.Errorf("tree entry output = %q, want Lisp form first", got.Output)
	}

	m, _ = send(m, tea.KeyMsg{Type: tea.KeyTab})
	if m.Mode() != ModeEval {
		t.Errorf("Mode() after second Tab = %q, want eval", m.Mode())
	}
}

func TestErrorEntryCarriesCaret(t *testing.T) {
	m := newModel(t, Config{})

	m, _ = submit(m, "(1+2")
	got := last(m)
	if !got.Failed {
		t.Fatalf("entry = %+v, want failure", got)
	}
	if got.Caret != "(1+2\n    ^" {
		t.Errorf("Caret = %q, want caret at offset 4", got.Caret)
	}
	if got.Code != "UNEXPECTED_TOKEN" {
		t.Errorf("Code = %q, want UNEXPECTED_TOKEN", got.Code)
	}
	if !strings.Contains(m.View(), "^") {
		t.Error("View() does not render the caret")
	}
}

func TestInputHistoryNavigation(t *testing.T) {
	m := newModel(t, Config{})
	m, _ = submit(m, "1")
	m, _ = submit(m, "2")
	m, _ = submit(m, "2")

	steps := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "2"},
		{tea.KeyUp, "1"},
		{tea.KeyUp, "1"},
		{tea.KeyDown, "2"},
		{tea.KeyDown, ""},
	}
	for i, step := range steps {
		m, _ = send(m, tea.KeyMsg{Type: step.key})
		if got := m.input.Value(); got != step.want {
			t.Errorf("step %d: input = %q, want %q", i, got, step.want)
		}
	}
}

func TestCommands(t *testing.T) {
	m := newModel(t, Config{})

	m, _ = submit(m, ":tokens 1+2")
	if got := last(m).Output; got != "1@0 +@1 2@2" {
		t.Errorf(":tokens output = %q, want %q", got, "1@0 +@1 2@2")
	}

	m, _ = submit(m, ":tree 1+2*3")
	if got := last(m); got.Mode != ModeTree || !strings.HasPrefix(got.Output, "(+ 1 (* 2 3))") {
		t.Errorf(":tree entry = %+v", got)
	}
	if m.Mode() != ModeEval {
		t.Errorf(":tree EXPR changed the mode to %q", m.Mode())
	}

	m, _ = submit(m, ":tree")
	if m.Mode() != ModeTree {
		t.Errorf(":tree without argument left mode %q", m.Mode())
	}

	m, _ = submit(m, ":nope")
	if !last(m).Failed {
		t.Error("unknown command did not fail")
	}

	m, _ = submit(m, ":clear")
	if n := len(m.Transcript()); n != 0 {
		t.Errorf("transcript after :clear has %d entries", n)
	}

	_, cmd := submit(m, ":quit")
	if cmd == nil {
		t.Fatal(":quit returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error(":quit did not quit")
	}
}

func TestHistoryRecording(t *testing.T) {
	store, err := history.Open(history.Config{Path: filepath.Join(t.TempDir(), "history.db")})
	if err != nil {
		t.Fatalf("history.Open() error = %v", err)
	}
	defer store.Close()

	m := newModel(t, Config{History: store})

	m, cmd := submit(m, "1/0")
	if cmd == nil {
		t.Fatal("submit returned no record command")
	}
	msg, ok := cmd().(recordedMsg)
	if !ok || msg.err != nil {
		t.Fatalf("record command = %#v, want success", msg)
	}

	entries, err := store.Recent(context.Background(), 10)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Recent() = %v, %v, want one entry", entries, err)
	}
	if entries[0].ErrorCode != "DIVISION_BY_ZERO" {
		t.Errorf("ErrorCode = %q, want DIVISION_BY_ZERO", entries[0].ErrorCode)
	}

	// a new session picks the expression up as input history
	fresh := newModel(t, Config{History: store})
	loaded, ok := fresh.loadHistory().(historyLoadedMsg)
	if !ok || len(loaded.inputs) != 1 || loaded.inputs[0] != "1/0" {
		t.Fatalf("loadHistory() = %#v", loaded)
	}
	fresh, _ = send(fresh, loaded)
	fresh, _ = send(fresh, tea.KeyMsg{Type: tea.KeyUp})
	if got := fresh.input.Value(); got != "1/0" {
		t.Errorf("input after Up = %q, want 1/0", got)
	}
}
