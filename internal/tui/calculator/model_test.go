package calculator

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/msto63/euler/internal/euler/rewriter"
	"github.com/msto63/euler/internal/euler/service"
	"github.com/msto63/euler/internal/euler/store"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	session := service.NewSession(nil, store.NewMemoryStore(0), rewriter.Degrees)
	m := New(Config{Session: session, Version: "test"})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

// press sends a key and runs the resulting command chain, which never
// batches for the keys used here.
func press(t *testing.T, m Model, key tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(key)
	m = next.(Model)
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			break
		}
		if _, ok := msg.(tea.BatchMsg); ok {
			break
		}
		next, cmd = m.Update(msg)
		m = next.(Model)
		cmd = firstCommand(cmd)
	}
	return m
}

// firstCommand unwraps a batch to its single non-nil command
func firstCommand(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return func() tea.Msg { return msg }
	}
	for _, c := range batch {
		if c != nil {
			return firstCommand(c)
		}
	}
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+h":
		return tea.KeyMsg{Type: tea.KeyCtrlH}
	case "ctrl+l":
		return tea.KeyMsg{Type: tea.KeyCtrlL}
	case "ctrl+n":
		return tea.KeyMsg{Type: tea.KeyCtrlN}
	case "ctrl+p":
		return tea.KeyMsg{Type: tea.KeyCtrlP}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func calculate(t *testing.T, m Model, expr string) Model {
	t.Helper()
	m.input.SetValue(expr)
	return press(t, m, key("enter"))
}

func TestModel_Calculate(t *testing.T) {
	m := newTestModel(t)

	m = calculate(t, m, "2 + 3 * 4")
	if !m.hasResult || !m.result.OK || m.result.Result != "14" {
		t.Fatalf("result = %+v", m.result)
	}
	if len(m.entries) != 1 || m.entries[0].Expression != "2 + 3 * 4" {
		t.Errorf("entries = %+v", m.entries)
	}
	if !strings.Contains(m.View(), "14") {
		t.Error("View() does not show the result")
	}

	m = calculate(t, m, "1/0")
	if m.result.OK || m.result.ErrorKind == "" {
		t.Errorf("expected failure, got %+v", m.result)
	}
	if len(m.entries) != 1 {
		t.Errorf("failed calculation recorded: %d entries", len(m.entries))
	}
	if !strings.Contains(m.View(), "Error: Invalid expression") {
		t.Error("View() does not show the error")
	}
}

func TestModel_EnterIgnoresBlankInput(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")
	_, cmd := m.Update(key("enter"))
	if cmd != nil {
		t.Error("blank input produced a command")
	}
}

func TestModel_AngleModeToggle(t *testing.T) {
	m := newTestModel(t)

	m = calculate(t, m, "sin(90)")
	if m.result.Result != "1" {
		t.Errorf("sin(90) in degrees = %q", m.result.Result)
	}

	m = press(t, m, key("ctrl+r"))
	if m.session.AngleMode() != rewriter.Radians {
		t.Fatalf("angle mode = %s", m.session.AngleMode())
	}
	if !strings.Contains(m.View(), "RADIANS") {
		t.Error("header does not show RADIANS")
	}

	m = calculate(t, m, "cos(0)")
	if m.result.Result != "1" {
		t.Errorf("cos(0) in radians = %q", m.result.Result)
	}
}

func TestModel_HistoryRecall(t *testing.T) {
	m := newTestModel(t)
	m = calculate(t, m, "1+1")
	m = calculate(t, m, "2+2")
	m.input.Reset()

	m = press(t, m, key("up"))
	if got := m.input.Value(); got != "2+2" {
		t.Errorf("first up = %q", got)
	}
	m = press(t, m, key("up"))
	if got := m.input.Value(); got != "1+1" {
		t.Errorf("second up = %q", got)
	}
	m = press(t, m, key("up"))
	if got := m.input.Value(); got != "1+1" {
		t.Errorf("up past oldest = %q", got)
	}
	m = press(t, m, key("down"))
	if got := m.input.Value(); got != "2+2" {
		t.Errorf("down = %q", got)
	}
	m = press(t, m, key("down"))
	if got := m.input.Value(); got != "" {
		t.Errorf("down to fresh line = %q", got)
	}
}

func TestModel_ClearHistory(t *testing.T) {
	m := newTestModel(t)
	m = calculate(t, m, "1+1")

	m = press(t, m, key("ctrl+t"))
	if !m.showHistory || !strings.Contains(m.View(), "1+1") {
		t.Fatal("history panel not shown")
	}

	m = press(t, m, key("ctrl+l"))
	if len(m.entries) != 0 {
		t.Errorf("entries after clear = %d", len(m.entries))
	}
	if !strings.Contains(m.View(), "No calculations yet") {
		t.Error("empty history not rendered")
	}
}

func TestModel_HelpAndEscape(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, key("ctrl+h"))
	if !m.showHelp || !strings.Contains(m.View(), "Toggle degrees/radians") {
		t.Fatal("help not shown")
	}
	m = press(t, m, key("esc"))
	if m.showHelp {
		t.Error("esc did not close help")
	}

	m = calculate(t, m, "1+1")
	m = press(t, m, key("esc"))
	if m.hasResult || m.input.Value() != "" {
		t.Error("esc did not clear input and result")
	}
}

func TestModel_InputModesAndTemplates(t *testing.T) {
	m := newTestModel(t)
	if m.input.Placeholder != service.Modes[0].Placeholder {
		t.Errorf("placeholder = %q", m.input.Placeholder)
	}

	m = press(t, m, key("tab"))
	if m.session.InputMode() != service.ModeScientific {
		t.Fatalf("mode = %s", m.session.InputMode())
	}
	if m.input.Placeholder != service.Modes[1].Placeholder {
		t.Errorf("placeholder = %q", m.input.Placeholder)
	}

	m = press(t, m, key("ctrl+n"))
	if got := m.input.Value(); got != service.Modes[1].Templates[0] {
		t.Errorf("template = %q", got)
	}
	m = press(t, m, key("ctrl+n"))
	if got := m.input.Value(); got != service.Modes[1].Templates[1] {
		t.Errorf("second template = %q", got)
	}
}

func TestModel_InsertPi(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("2")
	m.input.CursorEnd()

	m = press(t, m, key("ctrl+p"))
	if got := m.input.Value(); got != "2PI" {
		t.Fatalf("value = %q", got)
	}

	m = press(t, m, key("enter"))
	if m.result.Result != "6.2831853072" {
		t.Errorf("2PI = %q", m.result.Result)
	}
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := New(Config{})
	if m.View() != "Loading calculator..." {
		t.Errorf("View() = %q", m.View())
	}
}
