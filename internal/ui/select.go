package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
)

type selectKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Cancel key.Binding
	Clear  key.Binding
}

var selectKeys = selectKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "move up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "ctrl+n", "tab"),
		key.WithHelp("↓", "move down"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("Enter", "select"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("Esc", "cancel"),
	),
	Clear: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("Backspace", "edit filter"),
	),
}

// selectModel is a single-choice list. Typing narrows the list with a fuzzy
// filter; the chosen index always refers to the unfiltered options.
type selectModel struct {
	title   string
	options []string
	filter  string
	visible []fuzzy.Match
	cursor  int

	chosen    int
	cancelled bool
	done      bool
}

func newSelectModel(title string, options []string) selectModel {
	m := selectModel{title: title, options: options, chosen: -1}
	m.applyFilter()
	return m
}

func (m *selectModel) applyFilter() {
	if m.filter == "" {
		m.visible = make([]fuzzy.Match, len(m.options))
		for i, opt := range m.options {
			m.visible[i] = fuzzy.Match{Str: opt, Index: i}
		}
	} else {
		m.visible = fuzzy.Find(m.filter, m.options)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, selectKeys.Cancel):
		m.cancelled = true
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, selectKeys.Enter):
		if len(m.visible) == 0 {
			return m, nil
		}
		m.chosen = m.visible[m.cursor].Index
		m.done = true
		return m, tea.Quit

	case key.Matches(keyMsg, selectKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(keyMsg, selectKeys.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case key.Matches(keyMsg, selectKeys.Clear):
		if r := []rune(m.filter); len(r) > 0 {
			m.filter = string(r[:len(r)-1])
			m.applyFilter()
		}

	case keyMsg.Type == tea.KeyRunes || keyMsg.Type == tea.KeySpace:
		if keyMsg.Type == tea.KeySpace {
			m.filter += " "
		} else {
			m.filter += string(keyMsg.Runes)
		}
		m.cursor = 0
		m.applyFilter()
	}
	return m, nil
}

func (m selectModel) View() string {
	if m.done {
		if m.cancelled || m.chosen < 0 {
			return ""
		}
		return StyleTitle.Render("? "+m.title) + " " + StyleCode.Render(m.options[m.chosen]) + "\n"
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("? " + m.title))
	if m.filter != "" {
		b.WriteString(" " + StyleTextDim.Render("filter: ") + m.filter)
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(StyleTextDim.Render("  no matches") + "\n")
	}
	for i, match := range m.visible {
		b.WriteString(CreateOption(highlight(match), i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString(CreateHelp("↑/↓ move • type to filter • Enter select • Esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func highlight(match fuzzy.Match) string {
	if len(match.MatchedIndexes) == 0 {
		return match.Str
	}
	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, i := range match.MatchedIndexes {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(StyleMatch.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
