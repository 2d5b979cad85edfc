package ui

import (
	"fmt"
	"io"
	"os"
)

// Console prints user-facing lines. Status lines go to the error stream so
// stdout stays clean for AI output.
type Console struct {
	out io.Writer
	err io.Writer
}

// NewConsole creates a console on stdout and stderr.
func NewConsole() *Console {
	return &Console{out: os.Stdout, err: os.Stderr}
}

// NewConsoleWithWriters creates a console writing to the given streams.
func NewConsoleWithWriters(out, err io.Writer) *Console {
	return &Console{out: out, err: err}
}

// Out returns the stream AI output is written to.
func (c *Console) Out() io.Writer {
	return c.out
}

// Print writes text to the output stream unchanged.
func (c *Console) Print(text string) {
	fmt.Fprint(c.out, text)
}

// Println writes a line to the output stream.
func (c *Console) Println(text string) {
	fmt.Fprintln(c.out, text)
}

func (c *Console) Info(format string, args ...any) {
	fmt.Fprintln(c.err, StyleInfo.Render("ℹ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Success(format string, args ...any) {
	fmt.Fprintln(c.err, StyleSuccess.Render("✔ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Warn(format string, args ...any) {
	fmt.Fprintln(c.err, StyleWarning.Render("⚠ "+fmt.Sprintf(format, args...)))
}

func (c *Console) Error(format string, args ...any) {
	fmt.Fprintln(c.err, StyleError.Render("✖ "+fmt.Sprintf(format, args...)))
}

// Dim writes a muted status line, used for token usage summaries.
func (c *Console) Dim(format string, args ...any) {
	fmt.Fprintln(c.err, StyleTextDim.Render(fmt.Sprintf(format, args...)))
}
