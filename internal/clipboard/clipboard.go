package clipboard

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrUnavailable is returned when no clipboard utility exists on this host.
var ErrUnavailable = errors.New("no clipboard utility available")

// command is one clipboard utility invocation.
type command struct {
	name string
	args []string
}

// candidates lists the utilities tried for each OS, in order.
var candidates = map[string][]command{
	"darwin": {{name: "pbcopy"}},
	"linux": {
		{name: "wl-copy"},
		{name: "xclip", args: []string{"-selection", "clipboard"}},
		{name: "xsel", args: []string{"--clipboard", "--input"}},
	},
	"windows": {{name: "clip"}},
}

// Clipboard copies text through the first available system utility.
type Clipboard struct {
	goos     string
	lookPath func(string) (string, error)
	run      func(name string, args []string, stdin string) error
}

// New returns a clipboard for the running OS.
func New() *Clipboard {
	return &Clipboard{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

func runCommand(name string, args []string, stdin string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Run()
}

// Available reports whether any clipboard utility is installed.
func (c *Clipboard) Available() bool {
	for _, cand := range candidates[c.goos] {
		if _, err := c.lookPath(cand.name); err == nil {
			return true
		}
	}
	return false
}

// Copy copies text to the system clipboard. It returns ErrUnavailable when
// no utility is installed, and the last failure when all installed ones fail.
func (c *Clipboard) Copy(text string) error {
	var lastErr error
	for _, cand := range candidates[c.goos] {
		if _, err := c.lookPath(cand.name); err != nil {
			continue
		}
		if err := c.run(cand.name, cand.args, text); err != nil {
			lastErr = fmt.Errorf("%s failed: %w", cand.name, err)
			continue
		}
		return nil
	}
	if lastErr != nil {
		return lastErr
	}
	return ErrUnavailable
}

// InstallHint tells the user how to get a clipboard utility.
func (c *Clipboard) InstallHint() string {
	switch c.goos {
	case "linux":
		return "install wl-clipboard (Wayland) or xclip/xsel (X11)"
	case "darwin":
		return "pbcopy should be available by default on macOS"
	case "windows":
		return "clip should be available by default on Windows"
	default:
		return fmt.Sprintf("clipboard not supported on %s", c.goos)
	}
}
