package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

func previewCalc(t *testing.T) *stack.Calculator {
	t.Helper()
	geo := stack.DefaultGeometry()
	calc, err := stack.New(geo, stack.NewVisibility(geo))
	if err != nil {
		t.Fatalf("stack.New error: %v", err)
	}
	return calc
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewStackModelAvoidsUndefinedCount(t *testing.T) {
	calc := previewCalc(t)

	// Group size 4 makes 5 the count with no defined spacing.
	m := NewStackModel(calc, 5)
	if m.Count == 5 {
		t.Errorf("Count = %d, should step over the undefined count", m.Count)
	}

	m = NewStackModel(calc, 0)
	if m.Count != 1 {
		t.Errorf("Count = %d, want minimum of 1", m.Count)
	}
}

func TestStackModelStepsOverUndefinedCount(t *testing.T) {
	calc := previewCalc(t)
	m := NewStackModel(calc, 4)

	// 4 -> up skips 5 -> 6
	next, _ := m.Update(keyMsg("k"))
	m = next.(StackModel)
	if m.Count != 6 {
		t.Errorf("Count after up = %d, want 6", m.Count)
	}

	// 6 -> down skips 5 -> 4
	next, _ = m.Update(keyMsg("j"))
	m = next.(StackModel)
	if m.Count != 4 {
		t.Errorf("Count after down = %d, want 4", m.Count)
	}
}

func TestStackModelCountFloor(t *testing.T) {
	calc := previewCalc(t)
	m := NewStackModel(calc, 1)

	next, _ := m.Update(keyMsg("j"))
	m = next.(StackModel)
	if m.Count != 1 {
		t.Errorf("Count = %d, should not drop below 1", m.Count)
	}
}

func TestStackModelFocusClamped(t *testing.T) {
	calc := previewCalc(t)
	m := NewStackModel(calc, 3)

	// Focus cannot go below zero.
	next, _ := m.Update(keyMsg("h"))
	m = next.(StackModel)
	if m.Focus != 0 {
		t.Errorf("Focus = %d, want 0", m.Focus)
	}

	// Walk to the bottom card and try to go past it.
	for i := 0; i < 5; i++ {
		next, _ = m.Update(keyMsg("l"))
		m = next.(StackModel)
	}
	if m.Focus != 2 {
		t.Errorf("Focus = %d, want 2 (bottom card)", m.Focus)
	}

	// Shrinking the stack pulls the focus back in range.
	next, _ = m.Update(keyMsg("j"))
	m = next.(StackModel)
	if m.Focus != m.Count-1 {
		t.Errorf("Focus = %d, want %d after shrink", m.Focus, m.Count-1)
	}
}

func TestStackModelView(t *testing.T) {
	calc := previewCalc(t)
	m := NewStackModel(calc, 12)

	view := m.View()
	if view == "" {
		t.Fatal("View() returned empty string")
	}
	if !strings.Contains(view, "12 cards") {
		t.Error("View() should mention the card count")
	}
	// Twelve cards overflow the default viewport, so the summary
	// should surface the compressed visibility.
	if !strings.Contains(view, "compressed") {
		t.Error("View() should mention compression for an overflowing stack")
	}
}

func TestStackModelQuit(t *testing.T) {
	calc := previewCalc(t)
	m := NewStackModel(calc, 7)

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("quit key should produce a command")
	}
	if msg := cmd(); msg == nil {
		t.Error("quit command should produce a message")
	}
}
