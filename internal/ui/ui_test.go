package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m tea.Model, msgs ...tea.Msg) tea.Model {
	for _, msg := range msgs {
		m, _ = m.Update(msg)
	}
	return m
}

func TestSelectModelNavigation(t *testing.T) {
	m := press(newSelectModel("Provider", []string{"gemini", "openai", "claude"}),
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyDown},
		tea.KeyMsg{Type: tea.KeyUp},
		tea.KeyMsg{Type: tea.KeyEnter},
	).(selectModel)

	assert.True(t, m.done)
	assert.False(t, m.cancelled)
	assert.Equal(t, 1, m.chosen)
}

func TestSelectModelFilterKeepsOriginalIndex(t *testing.T) {
	m := press(newSelectModel("Model", []string{"gpt-5", "claude-haiku-4-5", "gemini-2.5-pro"}),
		keyRunes("hai"),
		tea.KeyMsg{Type: tea.KeyEnter},
	).(selectModel)

	assert.Equal(t, "hai", m.filter)
	assert.Equal(t, 1, m.chosen)
}

func TestSelectModelBackspaceWidensFilter(t *testing.T) {
	m := press(newSelectModel("Model", []string{"abc", "xyz"}),
		keyRunes("zz"),
	).(selectModel)
	assert.Empty(t, m.visible)

	m = press(m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}).(selectModel)
	assert.Len(t, m.visible, 2)

	// Enter on an empty list does nothing.
	m = press(newSelectModel("Model", []string{"abc"}), keyRunes("q"), tea.KeyMsg{Type: tea.KeyEnter}).(selectModel)
	assert.False(t, m.done)
}

func TestSelectModelCancel(t *testing.T) {
	m := press(newSelectModel("Mode", []string{"a"}), tea.KeyMsg{Type: tea.KeyEsc}).(selectModel)
	assert.True(t, m.cancelled)
	assert.Equal(t, "", m.View())
}

func TestSelectModelView(t *testing.T) {
	view := newSelectModel("Pick one", []string{"first", "second"}).View()
	assert.Contains(t, view, "Pick one")
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "second")
}

func TestConfirmModel(t *testing.T) {
	m := press(newConfirmModel("Post?", false), tea.KeyMsg{Type: tea.KeyEnter}).(confirmModel)
	assert.True(t, m.done)
	assert.False(t, m.answer)

	m = press(newConfirmModel("Post?", false), keyRunes("y")).(confirmModel)
	assert.True(t, m.answer)

	m = press(newConfirmModel("Post?", true), tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyEnter}).(confirmModel)
	assert.False(t, m.answer)

	m = press(newConfirmModel("Post?", true), tea.KeyMsg{Type: tea.KeyCtrlC}).(confirmModel)
	assert.True(t, m.cancelled)
}

func TestInputModel(t *testing.T) {
	m := press(newInputModel("Model name", ""), keyRunes("  my-model "), tea.KeyMsg{Type: tea.KeyEnter}).(inputModel)
	assert.True(t, m.done)
	assert.Equal(t, "my-model", m.value)

	m = press(newInputModel("Model name", ""), keyRunes("x"), tea.KeyMsg{Type: tea.KeyEsc}).(inputModel)
	assert.True(t, m.cancelled)
}

func TestNonInteractivePrompterCancels(t *testing.T) {
	p := NewPrompterWithIO(strings.NewReader(""), &bytes.Buffer{}, false)
	assert.False(t, p.IsInteractive())

	_, err := p.Select(context.Background(), "x", []string{"a"})
	assert.ErrorIs(t, err, ErrCancelled)
	_, err = p.Confirm(context.Background(), "x", true)
	assert.ErrorIs(t, err, ErrCancelled)
	_, err = p.Text(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestScriptedPrompter(t *testing.T) {
	p := NewScriptedPrompter(Choose(1), ChooseYes(true), Type("hello"), Cancel())
	ctx := context.Background()

	idx, err := p.Select(ctx, "pick", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	yes, err := p.Confirm(ctx, "sure?", false)
	require.NoError(t, err)
	assert.True(t, yes)

	text, err := p.Text(ctx, "name", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = p.Select(ctx, "again", []string{"a"})
	assert.True(t, errors.Is(err, ErrCancelled))

	_, err = p.Text(ctx, "exhausted", "")
	assert.Error(t, err)

	asked := p.Asked()
	require.Len(t, asked, 5)
	assert.Equal(t, "select", asked[0].Kind)
	assert.Equal(t, []string{"a", "b"}, asked[0].Options)
	assert.Equal(t, 0, p.Remaining())
}

func TestConsoleWritesStatusToErrorStream(t *testing.T) {
	var out, errOut bytes.Buffer
	c := NewConsoleWithWriters(&out, &errOut)

	c.Println("result")
	c.Warn("careful %d", 1)
	c.Error("broken")

	assert.Equal(t, "result\n", out.String())
	assert.Contains(t, errOut.String(), "careful 1")
	assert.Contains(t, errOut.String(), "broken")
}
