package cli

import (
	"github.com/spf13/cobra"

	"github.com/dpshade/vaultforge/internal/validation"
)

func (a *app) newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage the model registry",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [provider]",
		Short: "List known models",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RequireVault(); err != nil {
				return err
			}

			providers, err := svc.Registry.Providers()
			if err != nil {
				return err
			}
			if len(args) == 1 {
				providers = args
			}
			for _, p := range providers {
				listed, err := svc.Registry.Models(p)
				if err != nil {
					return err
				}
				svc.Console.Println(p + ":")
				if len(listed) == 0 {
					svc.Console.Println("  (none)")
				}
				for _, m := range listed {
					svc.Console.Println("  - " + m)
				}
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "add <provider> <model>",
		Short:   "Add a model to the registry",
		Example: "  vf models add openai gpt-5.2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeModel(args[0], args[1], true)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <provider> <model>",
		Aliases: []string{"rm"},
		Short:   "Remove a model from the registry",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.changeModel(args[0], args[1], false)
		},
	})
	return cmd
}

func (a *app) changeModel(provider, model string, add bool) error {
	if err := a.validate(validation.SchemaModelChange, map[string]string{
		"provider": provider,
		"model":    model,
	}); err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	if err := svc.RequireVault(); err != nil {
		return err
	}

	if add {
		if err := svc.Registry.AddModel(provider, model); err != nil {
			return err
		}
		svc.Console.Success("Added %s to %s", model, provider)
		return nil
	}
	if err := svc.Registry.RemoveModel(provider, model); err != nil {
		return err
	}
	svc.Console.Success("Removed %s from %s", model, provider)
	return nil
}
