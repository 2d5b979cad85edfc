package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputModel struct {
	label     string
	input     textinput.Model
	value     string
	cancelled bool
	done      bool
}

func newInputModel(label, placeholder string) inputModel {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.Width = 70
	ti.Focus()
	return inputModel{label: label, input: ti}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, selectKeys.Cancel):
			m.cancelled = true
			m.done = true
			return m, tea.Quit
		case key.Matches(keyMsg, selectKeys.Enter):
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	title := StyleTitle.Render("? " + m.label)
	if m.done {
		if m.cancelled {
			return ""
		}
		return title + " " + StyleCode.Render(m.value) + "\n"
	}
	return title + "\n" + m.input.View() + "\n" + CreateHelp("Enter submit • Esc cancel") + "\n"
}
