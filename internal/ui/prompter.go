package ui

import (
	"context"
	"errors"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrCancelled is returned by a Prompter when the user presses Esc or
// Ctrl+C instead of answering.
var ErrCancelled = errors.New("cancelled by user")

// Prompter asks the user questions on the terminal.
type Prompter interface {
	// Select returns the index of the chosen option.
	Select(ctx context.Context, title string, options []string) (int, error)
	Confirm(ctx context.Context, question string, defaultYes bool) (bool, error)
	Text(ctx context.Context, label, placeholder string) (string, error)
	// IsInteractive reports whether questions can be asked at all.
	IsInteractive() bool
}

// TerminalPrompter runs one small bubbletea program per question.
type TerminalPrompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// NewTerminalPrompter creates a prompter on the process's terminal. It is
// interactive only when both stdin and stdout are terminals.
func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{
		in:          os.Stdin,
		out:         os.Stdout,
		interactive: IsTerminal(os.Stdin) && IsTerminal(os.Stdout),
	}
}

// NewPrompterWithIO creates a prompter reading keys from in. Used when stdin
// carries piped data and keys must come from /dev/tty instead.
func NewPrompterWithIO(in io.Reader, out io.Writer, interactive bool) *TerminalPrompter {
	return &TerminalPrompter{in: in, out: out, interactive: interactive}
}

// IsInteractive implements Prompter.
func (p *TerminalPrompter) IsInteractive() bool {
	return p.interactive
}

// Select implements Prompter.
func (p *TerminalPrompter) Select(ctx context.Context, title string, options []string) (int, error) {
	m, err := p.run(ctx, newSelectModel(title, options))
	if err != nil {
		return -1, err
	}
	sm := m.(selectModel)
	if sm.cancelled {
		return -1, ErrCancelled
	}
	return sm.chosen, nil
}

// Confirm implements Prompter.
func (p *TerminalPrompter) Confirm(ctx context.Context, question string, defaultYes bool) (bool, error) {
	m, err := p.run(ctx, newConfirmModel(question, defaultYes))
	if err != nil {
		return false, err
	}
	cm := m.(confirmModel)
	if cm.cancelled {
		return false, ErrCancelled
	}
	return cm.answer, nil
}

// Text implements Prompter.
func (p *TerminalPrompter) Text(ctx context.Context, label, placeholder string) (string, error) {
	m, err := p.run(ctx, newInputModel(label, placeholder))
	if err != nil {
		return "", err
	}
	im := m.(inputModel)
	if im.cancelled {
		return "", ErrCancelled
	}
	return im.value, nil
}

func (p *TerminalPrompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	if !p.interactive {
		return nil, ErrCancelled
	}
	prog := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
		return nil, ErrCancelled
	}
	if err != nil {
		return nil, err
	}
	return final, nil
}
