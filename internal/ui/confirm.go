package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	confirmYes = key.NewBinding(key.WithKeys("y", "Y"))
	confirmNo  = key.NewBinding(key.WithKeys("n", "N"))
	toggleKeys = key.NewBinding(key.WithKeys("left", "right", "tab", "h", "l"))
)

type confirmModel struct {
	question  string
	answer    bool
	cancelled bool
	done      bool
}

func newConfirmModel(question string, defaultYes bool) confirmModel {
	return confirmModel{question: question, answer: defaultYes}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, selectKeys.Cancel):
		m.cancelled = true
	case key.Matches(keyMsg, confirmYes):
		m.answer = true
	case key.Matches(keyMsg, confirmNo):
		m.answer = false
	case key.Matches(keyMsg, toggleKeys):
		m.answer = !m.answer
		return m, nil
	case key.Matches(keyMsg, selectKeys.Enter):
	default:
		return m, nil
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	title := StyleTitle.Render("? " + m.question)
	if m.done {
		if m.cancelled {
			return ""
		}
		answer := "No"
		if m.answer {
			answer = "Yes"
		}
		return title + " " + StyleCode.Render(answer) + "\n"
	}

	yes, no := StyleUnselected.Render("Yes"), StyleUnselected.Render("No")
	if m.answer {
		yes = StyleFocused.Render("Yes")
	} else {
		no = StyleFocused.Render("No")
	}
	return title + " " + yes + " / " + no + "\n" + CreateHelp("y/n • ←/→ toggle • Enter confirm • Esc cancel") + "\n"
}
