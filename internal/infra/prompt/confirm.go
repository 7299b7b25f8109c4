// Package prompt implements the operator yes/no question used before creating
// an isolated environment.
package prompt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ---------------------------------------------------------------------------
// Non-interactive
// ---------------------------------------------------------------------------

// Static answers every question with Answer. Used for --yes and tests.
type Static struct {
	Answer bool
}

func (s Static) Confirm(string, bool) (bool, error) { return s.Answer, nil }

// ---------------------------------------------------------------------------
// TUI
// ---------------------------------------------------------------------------

// Terminal asks through a bubbletea program. In and Out default to the
// process terminal when nil.
type Terminal struct {
	In  io.Reader
	Out io.Writer
}

func (t Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	var opts []tea.ProgramOption
	if t.In != nil {
		opts = append(opts, tea.WithInput(t.In))
	}
	if t.Out != nil {
		opts = append(opts, tea.WithOutput(t.Out))
	}
	p := tea.NewProgram(newConfirmModel(question, defaultYes), opts...)
	result, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("prompt: %w", err)
	}
	final, ok := result.(confirmModel)
	if !ok || !final.done {
		return false, fmt.Errorf("prompt cancelled")
	}
	return final.answer, nil
}

// confirmModel reads a single y/n answer. Enter on an empty line picks the
// default.
type confirmModel struct {
	question   string
	defaultYes bool
	input      textinput.Model
	answer     bool
	done       bool
	invalid    bool
}

func newConfirmModel(question string, defaultYes bool) confirmModel {
	ti := textinput.New()
	ti.Placeholder = "y/n"
	ti.CharLimit = 8
	ti.Focus()
	return confirmModel{question: question, defaultYes: defaultYes, input: ti}
}

func (m confirmModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			answer, ok := ParseAnswer(m.input.Value(), m.defaultYes)
			if !ok {
				m.invalid = true
				m.input.SetValue("")
				return m, nil
			}
			m.answer = answer
			m.done = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	hint := "[y/N]"
	if m.defaultYes {
		hint = "[Y/n]"
	}
	s := fmt.Sprintf("%s %s %s\n", m.question, hint, m.input.View())
	if m.invalid {
		s += "please answer y or n\n"
	}
	return s
}

// ParseAnswer maps free text to yes/no. ok is false for unrecognised input.
func ParseAnswer(s string, defaultYes bool) (answer bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return defaultYes, true
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	}
	return false, false
}
