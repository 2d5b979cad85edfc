package cli

import (
	"encoding/json"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/errors"
)

// detachedEnv marks the child process of a detached run.
const detachedEnv = "VF_DETACHED_MODE=true"

// childArgs rebuilds the command line of cmd from its parsed flags without
// the detach switch, so shorthand, bundled and "=value" forms are all
// dropped. Positional args follow "--".
func childArgs(cmd *cobra.Command, args []string) []string {
	var out []string
	for c := cmd; c.HasParent(); c = c.Parent() {
		out = append([]string{c.Name()}, out...)
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "detach" {
			return
		}
		out = append(out, "--"+f.Name+"="+f.Value.String())
	})
	out = append(out, "--")
	return append(out, args...)
}

// detach hands the resolved input to a background copy of vf.
func (a *app) detach(cmd *cobra.Command, args []string, in runInput) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return errors.InternalError(err.Error())
	}
	child := childArgs(cmd, args)
	a.logger.Debug("detaching", zap.Strings("args", child), zap.Int("input_bytes", len(in.Data)))
	if err := a.env.Spawn(child, payload); err != nil {
		return errors.InternalError("could not start background process: " + err.Error())
	}
	return nil
}

// spawnDetached starts vf again in its own session with payload on stdin.
// The payload goes through a temporary file so the parent can exit at once.
func spawnDetached(args []string, payload []byte) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	f, err := os.CreateTemp("", "vf-detach-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	defer f.Close()
	if _, err := f.Write(payload); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	cmd := exec.Command(exe, args...)
	cmd.Env = append(os.Environ(), detachedEnv)
	cmd.Stdin = f
	cmd.SysProcAttr = detachAttr()
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
