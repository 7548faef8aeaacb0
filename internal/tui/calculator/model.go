// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     calculator
// Description: Main Bubbletea model for the interactive calculator
// Author:      Mike Stoffels
// Created:     2025-12-11
// License:     MIT
// ============================================================================

package calculator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

// opTimeout bounds history operations triggered from the UI
const opTimeout = 5 * time.Second

// Config holds calculator TUI configuration
type Config struct {
	Session *service.Session
	Version string
}

// Model is the main Bubbletea model for the calculator
type Model struct {
	// State
	width       int
	height      int
	ready       bool
	showHelp    bool
	showHistory bool
	err         error

	// Components
	input    textinput.Model
	viewport viewport.Model

	// Calculation state
	session    *service.Session
	lastExpr   string
	result     service.Result
	hasResult  bool
	entries    []store.Entry
	historyPos int // -1 while editing a fresh expression
	template   int

	version string
}

// New creates a new calculator model
func New(cfg Config) Model {
	session := cfg.Session
	if session == nil {
		session = service.NewSession(nil, nil, rewriter.Degrees)
	}

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()

	m := Model{
		input:      ti,
		session:    session,
		historyPos: -1,
		template:   -1,
		version:    cfg.Version,
	}
	m.updatePlaceholder()
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.loadHistory,
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		panelHeight := msg.Height - 14
		if panelHeight < 3 {
			panelHeight = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, panelHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = panelHeight
		}
		m.input.Width = msg.Width - 8
		m.updateViewportContent()

	case calculatedMsg:
		m.lastExpr = msg.expression
		m.result = msg.result
		m.hasResult = true
		m.err = msg.err
		if msg.result.OK {
			cmds = append(cmds, m.loadHistory)
		}

	case historyLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.entries = msg.entries
			m.historyPos = -1
		}
		m.updateViewportContent()

	case historyClearedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.entries = nil
			m.historyPos = -1
		}
		m.updateViewportContent()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "enter":
		expr := strings.TrimSpace(m.input.Value())
		if expr == "" {
			return m, nil
		}
		m.historyPos = -1
		return m, m.calculate(expr)

	case "ctrl+h":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		m.input.Reset()
		m.hasResult = false
		m.err = nil
		m.historyPos = -1
		return m, nil

	case "ctrl+t":
		m.showHistory = !m.showHistory
		return m, nil

	case "ctrl+l":
		return m, m.clearHistory

	case "ctrl+r":
		m.session.ToggleAngleMode()
		return m, nil

	case "tab":
		m.session.NextInputMode()
		m.template = -1
		m.updatePlaceholder()
		return m, nil

	case "ctrl+n":
		m.insertTemplate()
		return m, nil

	case "ctrl+p":
		m.insertAtCursor("PI")
		return m, nil

	case "up":
		m.recallOlder()
		return m, nil

	case "down":
		m.recallNewer()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// recallOlder replaces the input with the next older history expression
func (m *Model) recallOlder() {
	if m.historyPos+1 >= len(m.entries) {
		return
	}
	m.historyPos++
	m.input.SetValue(m.entries[m.historyPos].Expression)
	m.input.CursorEnd()
	m.updateViewportContent()
}

// recallNewer walks back toward the fresh input line
func (m *Model) recallNewer() {
	switch {
	case m.historyPos > 0:
		m.historyPos--
		m.input.SetValue(m.entries[m.historyPos].Expression)
		m.input.CursorEnd()
	case m.historyPos == 0:
		m.historyPos = -1
		m.input.Reset()
	}
	m.updateViewportContent()
}

// insertTemplate replaces the input with the next template of the current mode
func (m *Model) insertTemplate() {
	info, ok := service.LookupMode(m.session.InputMode())
	if !ok || len(info.Templates) == 0 {
		return
	}
	m.template = (m.template + 1) % len(info.Templates)
	m.input.SetValue(info.Templates[m.template])
	m.input.CursorEnd()
}

// insertAtCursor inserts s at the cursor position
func (m *Model) insertAtCursor(s string) {
	value := []rune(m.input.Value())
	pos := m.input.Position()
	if pos > len(value) {
		pos = len(value)
	}
	updated := string(value[:pos]) + s + string(value[pos:])
	m.input.SetValue(updated)
	m.input.SetCursor(pos + len([]rune(s)))
}

func (m *Model) updatePlaceholder() {
	if info, ok := service.LookupMode(m.session.InputMode()); ok {
		m.input.Placeholder = info.Placeholder
	}
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Loading calculator..."
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	b.WriteString(InputPanelStyle.Width(m.width - 2).Render(m.input.View()))
	b.WriteString("\n")

	b.WriteString(m.renderResult())
	b.WriteString("\n")

	if m.showHelp {
		b.WriteString(m.renderHelpPanel())
		b.WriteString("\n")
	} else if m.showHistory {
		b.WriteString(HistoryPanelStyle.Width(m.width - 2).Render(m.viewport.View()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the header with logo and modes
func (m Model) renderHeader() string {
	logo := LogoStyle.Render(Logo)
	angle := BadgeStyle.Render(strings.ToUpper(m.session.AngleMode().String()))
	mode := ModeStyle.Render("mode: " + string(m.session.InputMode()))

	parts := []string{logo, strings.Repeat(" ", 3), angle, strings.Repeat(" ", 3), mode}
	if m.version != "" {
		parts = append(parts, strings.Repeat(" ", 3), HelpDescStyle.Render("v"+m.version))
	}
	header := lipgloss.JoinHorizontal(lipgloss.Center, parts...)

	return TitlePanelStyle.Width(m.width - 4).Render(header)
}

// renderResult renders the last result or error
func (m Model) renderResult() string {
	var lines []string
	if m.hasResult {
		if m.result.OK {
			lines = append(lines, HistoryExprStyle.Render(m.lastExpr)+" "+ResultStyle.Render("= "+m.result.Result)+" "+DomainStyle.Render(m.result.Domain.String()))
		} else {
			lines = append(lines, ErrorStyle.Render(m.result.String()))
		}
	}
	if m.err != nil {
		lines = append(lines, ErrorStyle.Render("History: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

// renderHelpPanel renders the keyboard reference
func (m Model) renderHelpPanel() string {
	rows := [][2]string{
		{"Enter", "Calculate"},
		{"Ctrl+H", "Toggle this help"},
		{"Esc", "Close help / clear input"},
		{"Ctrl+T", "Toggle history panel"},
		{"Ctrl+L", "Clear history"},
		{"Ctrl+R", "Toggle degrees/radians"},
		{"Tab", "Next input mode"},
		{"Ctrl+N", "Insert next template"},
		{"Ctrl+P", "Insert π"},
		{"Up/Down", "Reuse history entries"},
		{"Ctrl+C", "Quit"},
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%-18s %s\n", HelpKeyStyle.Render(row[0]), HelpDescStyle.Render(row[1])))
	}
	return HelpPanelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	items := []string{
		RenderKeyHint("Enter", "Calc"),
		RenderKeyHint("Ctrl+R", "Deg/Rad"),
		RenderKeyHint("Tab", "Mode"),
		RenderKeyHint("Ctrl+T", "History"),
		RenderKeyHint("Ctrl+H", "Help"),
		RenderKeyHint("Ctrl+C", "Quit"),
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// updateViewportContent renders history entries, newest first
func (m *Model) updateViewportContent() {
	if !m.ready {
		return
	}
	if len(m.entries) == 0 {
		m.viewport.SetContent(HistoryTimeStyle.Render("No calculations yet"))
		return
	}

	var content strings.Builder
	for i, e := range m.entries {
		index := HistoryIndexStyle.Render(fmt.Sprintf("%3d", i+1))
		ts := HistoryTimeStyle.Render(e.Timestamp.Local().Format("15:04:05"))
		expr := HistoryExprStyle.Render(e.Expression)
		if i == m.historyPos {
			expr = SelectedHistoryStyle.Render(e.Expression)
		}
		result := HistoryResultStyle.Render(e.Result)
		content.WriteString(fmt.Sprintf("%s %s %s = %s\n", index, ts, expr, result))
	}
	m.viewport.SetContent(content.String())
}

// calculate evaluates expr through the session
func (m Model) calculate(expr string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		res, err := session.Calculate(ctx, expr)
		return calculatedMsg{expression: expr, result: res, err: err}
	}
}

// loadHistory loads the stored history
func (m Model) loadHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	entries, err := m.session.History(ctx, 0)
	return historyLoadedMsg{entries: entries, err: err}
}

// clearHistory removes all stored entries
func (m Model) clearHistory() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	n, err := m.session.ClearHistory(ctx)
	return historyClearedMsg{removed: n, err: err}
}

// Run starts the calculator TUI
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
