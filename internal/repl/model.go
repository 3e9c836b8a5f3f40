// ============================================================================
// pratt - Operator Precedence Parsing Toolkit
// ============================================================================
//
// Package:     repl
// Description: Bubbletea model of the interactive expression REPL
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
	"github.com/msto63/pratt/foundation/pratt/ast"
	"github.com/msto63/pratt/foundation/pratt/calc"
	"github.com/msto63/pratt/foundation/pratt/grammar"
	"github.com/msto63/pratt/internal/history"
)

// Modes
const (
	ModeEval = "eval"
	ModeTree = "tree"
)

const maxInputHistory = 100

// Config holds REPL configuration
type Config struct {
	Grammar grammar.Definition
	Mode    string

	// History records every evaluation and seeds the input history
	// when set
	History history.Store
}

// Model is the Bubbletea model of the REPL
type Model struct {
	width  int
	height int
	ready  bool

	input    textinput.Model
	viewport viewport.Model

	evaluator *calc.Evaluator
	trees     *calc.TreeBuilder
	store     history.Store
	grammar   string
	mode      string

	transcript []Entry
	status     string

	// Input history; historyIndex -1 means a fresh line
	inputHistory []string
	historyIndex int
	currentInput string
}

// New creates a REPL model for cfg.Grammar
func New(cfg Config) (Model, error) {
	evaluator, err := calc.NewEvaluator(cfg.Grammar)
	if err != nil {
		return Model{}, err
	}
	trees, err := calc.NewTreeBuilder(cfg.Grammar)
	if err != nil {
		return Model{}, err
	}

	mode := cfg.Mode
	if mode != ModeTree {
		mode = ModeEval
	}

	ti := textinput.New()
	ti.Placeholder = "expression, :help for commands"
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 76
	ti.Focus()

	return Model{
		input:        ti,
		evaluator:    evaluator,
		trees:        trees,
		store:        cfg.History,
		grammar:      cfg.Grammar.Name,
		mode:         mode,
		historyIndex: -1,
	}, nil
}

// Run starts the REPL on the terminal
func Run(cfg Config) error {
	m, err := New(cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadHistory)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 5 // input box + status bar + help
		viewportHeight := max(msg.Height-headerHeight-footerHeight, 1)

		if !m.ready {
			m.viewport = viewport.New(msg.Width, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = viewportHeight
		}
		m.input.Width = max(msg.Width-6, 10)
		m.updateViewportContent()

	case historyLoadedMsg:
		if msg.err != nil {
			m.status = "history unavailable: " + msg.err.Error()
		} else if len(m.inputHistory) == 0 {
			m.inputHistory = msg.inputs
		}

	case recordedMsg:
		if msg.err != nil {
			m.status = "history not recorded: " + msg.err.Error()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlL:
		m.transcript = nil
		m.updateViewportContent()
		return m, nil

	case tea.KeyTab:
		m.toggleMode()
		return m, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		if line == "" {
			return m, nil
		}
		m.remember(line)
		m.input.Reset()

		if strings.HasPrefix(line, ":") {
			return m.command(line)
		}

		entry := m.evaluate(line, m.mode)
		m.append(entry)
		return m, m.record(entry)

	case tea.KeyUp:
		if len(m.inputHistory) > 0 {
			if m.historyIndex == -1 {
				m.currentInput = m.input.Value()
				m.historyIndex = len(m.inputHistory) - 1
			} else if m.historyIndex > 0 {
				m.historyIndex--
			}
			m.input.SetValue(m.inputHistory[m.historyIndex])
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyDown:
		if m.historyIndex != -1 {
			if m.historyIndex < len(m.inputHistory)-1 {
				m.historyIndex++
				m.input.SetValue(m.inputHistory[m.historyIndex])
			} else {
				m.historyIndex = -1
				m.input.SetValue(m.currentInput)
			}
			m.input.CursorEnd()
		}
		return m, nil

	case tea.KeyPgUp:
		m.viewport.ViewUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.ViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) toggleMode() {
	if m.mode == ModeEval {
		m.mode = ModeTree
	} else {
		m.mode = ModeEval
	}
}

// remember appends line to the input history, skipping repeats
func (m *Model) remember(line string) {
	if n := len(m.inputHistory); n == 0 || m.inputHistory[n-1] != line {
		m.inputHistory = append(m.inputHistory, line)
		if len(m.inputHistory) > maxInputHistory {
			m.inputHistory = m.inputHistory[len(m.inputHistory)-maxInputHistory:]
		}
	}
	m.historyIndex = -1
	m.currentInput = ""
}

func (m Model) command(line string) (tea.Model, tea.Cmd) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "q", "quit":
		return m, tea.Quit
	case "clear":
		m.transcript = nil
	case "eval", "tree":
		if arg == "" {
			m.mode = name
			m.note("mode: " + name)
			break
		}
		entry := m.evaluate(arg, name)
		m.append(entry)
		return m, m.record(entry)
	case "tokens":
		m.append(m.tokens(arg))
	case "help":
		m.note("Enter evaluate · Tab toggle eval/tree · ↑/↓ history · Ctrl+L clear · Esc quit\n" +
			":eval EXPR  :tree EXPR  :tokens EXPR  :clear  :quit")
	default:
		m.append(Entry{Input: line, Output: "unknown command :" + name, Failed: true})
	}
	m.updateViewportContent()
	return m, nil
}

// evaluate runs one expression in the given mode
func (m Model) evaluate(input, mode string) Entry {
	entry := Entry{Input: input, Mode: mode}
	start := time.Now()

	var err error
	if mode == ModeTree {
		var node ast.Node
		node, err = m.trees.Tree(input)
		if err == nil {
			entry.Output = node.String() + "\n" + node.Pretty("")
		}
	} else {
		var v calc.Value
		v, err = m.evaluator.Eval(input)
		if err == nil {
			entry.Output = v.String()
		}
	}
	entry.Duration = time.Since(start)

	if err != nil {
		entry.Failed = true
		entry.Code = string(mdwerror.GetCode(err))
		entry.Output = err.Error()
		var inputErr *calc.InputError
		if errors.As(err, &inputErr) {
			entry.Output = inputErr.Err.Error()
			entry.Caret = inputErr.Caret()
		}
	}
	return entry
}

func (m Model) tokens(input string) Entry {
	entry := Entry{Input: ":tokens " + input}
	lexemes, err := m.evaluator.Tokens(input)
	parts := make([]string, len(lexemes))
	for i, lx := range lexemes {
		parts[i] = fmt.Sprintf("%s@%d", lx.Text, lx.Offset)
	}
	entry.Output = strings.Join(parts, " ")
	if err != nil {
		entry.Failed = true
		entry.Output = strings.TrimSpace(entry.Output + "\n" + err.Error())
	}
	return entry
}

func (m *Model) append(entry Entry) {
	m.transcript = append(m.transcript, entry)
	m.updateViewportContent()
}

func (m *Model) note(text string) {
	m.transcript = append(m.transcript, Entry{Output: text, Note: true})
}

func (m Model) record(entry Entry) tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	return func() tea.Msg {
		e := &history.Entry{
			Expression: entry.Input,
			Mode:       entry.Mode,
			Duration:   entry.Duration,
		}
		if entry.Failed {
			e.ErrorCode = entry.Code
			e.Error = entry.Output
		} else {
			e.Result = entry.Output
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return recordedMsg{err: store.Record(ctx, e)}
	}
}

func (m Model) loadHistory() tea.Msg {
	if m.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	entries, err := m.store.Recent(ctx, maxInputHistory)
	if err != nil {
		return historyLoadedMsg{err: err}
	}
	inputs := make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		inputs = append(inputs, entries[i].Expression)
	}
	return historyLoadedMsg{inputs: inputs}
}

func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Starting pratt REPL..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(InputStyle.Width(max(m.width-2, 10)).Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Enter evaluate · Tab mode · ↑/↓ history · PgUp/PgDn scroll · Esc quit"))
	return b.String()
}

func (m Model) renderHeader() string {
	eval, tree := TabStyle, TabStyle
	if m.mode == ModeEval {
		eval = ActiveTabStyle
	} else {
		tree = ActiveTabStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		TitleStyle.Render("pratt"),
		eval.Render("eval"),
		tree.Render("tree"),
	)
}

func (m Model) renderStatusBar() string {
	status := fmt.Sprintf("grammar: %s │ mode: %s │ %d entries", m.grammar, m.mode, len(m.transcript))
	if m.status != "" {
		status += " │ " + m.status
	}
	return StatusBarStyle.Width(max(m.width, 10)).Render(status)
}

func (m Model) renderTranscript() string {
	var b strings.Builder
	for i, e := range m.transcript {
		if i > 0 {
			b.WriteString("\n")
		}
		if e.Note {
			b.WriteString(NoteStyle.Render(e.Output))
			b.WriteString("\n")
			continue
		}
		b.WriteString(InputLineStyle.Render("› " + e.Input))
		b.WriteString("\n")
		switch {
		case e.Failed:
			if e.Caret != "" {
				b.WriteString(ErrorStyle.Render(indentLines(e.Caret)))
				b.WriteString("\n")
			}
			b.WriteString(ErrorStyle.Render(indentLines(e.Output)))
		case e.Mode == ModeTree:
			b.WriteString(TreeStyle.Render(indentLines(e.Output)))
		default:
			b.WriteString(ResultStyle.Render("  = " + e.Output))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func indentLines(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// Transcript returns the entries shown so far
func (m Model) Transcript() []Entry {
	return m.transcript
}

// Mode returns the active mode
func (m Model) Mode() string {
	return m.mode
}
