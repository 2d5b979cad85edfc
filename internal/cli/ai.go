package cli

import (
	"github.com/spf13/cobra"

	"github.com/dpshade/vaultforge/internal/engine"
	"github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/validation"
)

type aiFlags struct {
	preset      string
	instruction string
	detach      bool
	model       string
	file        string
	stream      bool
	normal      bool
	noAutoTag   bool
}

func (a *app) newAICmd() *cobra.Command {
	var f aiFlags
	cmd := &cobra.Command{
		Use:   "ai [input...]",
		Short: "Process input with the AI prompt of a mode",
		Example: `  vf ai "what is a monad"
  go test ./... 2>&1 | vf ai -p debug "why does this fail"
  vf ai -p xpost -f notes/launch.md`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAI(cmd, args, f)
		},
	}
	cmd.Flags().StringVarP(&f.preset, "preset", "p", string(models.ModeGeneral), "Mode to run: general, debug or xpost.")
	cmd.Flags().StringVarP(&f.instruction, "instruction", "i", "", "Extra instruction sent with the input.")
	cmd.Flags().BoolVarP(&f.detach, "detach", "d", false, "Run in the background (debug mode only).")
	cmd.Flags().StringVarP(&f.model, "model", "m", "", "Model to use instead of the prompt's.")
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Read the input from a file.")
	cmd.Flags().BoolVar(&f.stream, "stream", false, "Stream the response as it arrives.")
	cmd.Flags().BoolVar(&f.normal, "normal", false, "Print the response when it is complete.")
	cmd.Flags().BoolVar(&f.noAutoTag, "no-auto-tag", false, "Do not turn known tag words into #tags.")
	return cmd
}

func (a *app) runAI(cmd *cobra.Command, args []string, f aiFlags) error {
	err := a.validate(validation.SchemaAIOptions, map[string]string{
		"preset": f.preset,
		"model":  f.model,
		"stream": validation.Flag(f.stream),
		"normal": validation.Flag(f.normal),
		"detach": validation.Flag(f.detach),
	})
	if err != nil {
		return err
	}

	mode := models.Mode(f.preset)
	if f.detach && !engine.SupportsDetach(mode) {
		return errors.DetachNotSupportedError(string(mode))
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.RequireVault(); err != nil {
		return err
	}

	in, err := a.resolveInput(inputRequest{
		Positional:  args,
		Instruction: f.instruction,
		File:        f.file,
		AutoTag:     !f.noAutoTag,
		Known:       svc.Tags.Contains,
	})
	if err != nil {
		return err
	}

	autoDetach := !f.stream && !f.normal && !a.cfg.Detached && svc.WantsBackground(mode)
	if f.detach || autoDetach {
		if err := a.detach(cmd, args, in); err != nil {
			return err
		}
		svc.Console.Success("Running %s in the background; the result will be saved to the vault.", mode)
		return nil
	}

	res, err := svc.Run(cmd.Context(), models.RunConfig{
		InputData:   in.Data,
		Mode:        mode,
		Instruction: in.Instruction,
		Options: models.CLIOptions{
			Stream:  f.stream,
			Normal:  f.normal,
			Model:   f.model,
			IsPiped: in.Piped,
			Detach:  f.detach,
		},
	})
	if err != nil {
		return err
	}
	a.report(res)
	return nil
}

// report prints the closing line of a run.
func (a *app) report(res *engine.Result) {
	if res.Aborted {
		a.svc.Console.Info("Cancelled.")
		return
	}
	if res.NotePath != "" {
		a.svc.Console.Dim("Saved to %s", res.NotePath)
	}
}
