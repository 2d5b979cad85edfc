package cli

import (
	"github.com/spf13/cobra"

	"github.com/dpshade/vaultforge/internal/models"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Set up prompts, the model registry and the usage ledger in the vault",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			_, err = svc.Run(cmd.Context(), models.RunConfig{Mode: models.ModeInit})
			return err
		},
	}
}
