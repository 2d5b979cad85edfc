package cli

import (
	"github.com/spf13/cobra"

	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/prompts"
	"github.com/dpshade/vaultforge/internal/service"
	"github.com/dpshade/vaultforge/internal/validation"
)

func (a *app) newPromptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Show, reset or configure a mode's prompt",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <mode>",
		Short: "Print a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, mode, err := a.promptTarget(args[0])
			if err != nil {
				return err
			}
			// Load creates a missing prompt and rejects a broken one.
			if _, err := svc.Prompts.Load(mode); err != nil {
				return err
			}
			raw, err := svc.Prompts.Raw(mode)
			if err != nil {
				return err
			}
			svc.Console.Dim("%s", svc.Prompts.RelativePath(mode))
			svc.Console.Print(svc.Renderer.RenderOrPlain(raw))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset <mode>",
		Short: "Replace a prompt with the default, keeping a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, mode, err := a.promptTarget(args[0])
			if err != nil {
				return err
			}
			backup, err := svc.Prompts.Reset(mode)
			if err != nil {
				return err
			}
			if backup != "" {
				svc.Console.Info("Backed up the old prompt to %s", backup)
			}
			svc.Console.Success("Restored the default %s prompt", mode)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "configure <mode>",
		Short: "Choose the provider, model and output mode of a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, mode, err := a.promptTarget(args[0])
			if err != nil {
				return err
			}
			out, err := svc.Prompts.UpdateProviderConfig(cmd.Context(), mode)
			if err != nil {
				return err
			}
			if out.Status != prompts.Completed {
				svc.Console.Info("Cancelled.")
			}
			return nil
		},
	})
	return cmd
}

func (a *app) promptTarget(name string) (*service.Service, models.Mode, error) {
	if err := a.validate(validation.SchemaPromptMode, map[string]string{"mode": name}); err != nil {
		return nil, "", err
	}
	svc, err := a.service()
	if err != nil {
		return nil, "", err
	}
	if err := svc.RequireVault(); err != nil {
		return nil, "", err
	}
	return svc, models.Mode(name), nil
}
