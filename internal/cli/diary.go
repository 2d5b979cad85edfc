package cli

import (
	"github.com/spf13/cobra"

	"github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
)

func (a *app) newDiaryCmd() *cobra.Command {
	var task, detach bool
	cmd := &cobra.Command{
		Use:     "diary [input...]",
		Aliases: []string{"d"},
		Short:   "Append an entry to today's daily note",
		Example: `  vf d "finished the #vaultforge release"
  vf diary -t "renew passport"
  vf d "#h2 Weekly review"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if detach {
				return errors.DetachNotSupportedError(string(models.ModeDiary))
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.RequireVault(); err != nil {
				return err
			}

			in, err := a.resolveInput(inputRequest{
				Positional: args,
				AutoTag:    true,
				Known:      svc.Tags.Contains,
			})
			if err != nil {
				return err
			}
			res, err := svc.Run(cmd.Context(), models.RunConfig{
				InputData: in.Data,
				Mode:      models.ModeDiary,
				Options:   models.CLIOptions{Task: task, IsPiped: in.Piped},
			})
			if err != nil {
				return err
			}
			if res.Aborted {
				svc.Console.Info("Cancelled.")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&task, "task", "t", false, "Write the entry as a task.")
	cmd.Flags().BoolVarP(&detach, "detach", "d", false, "Not supported for diary entries.")
	_ = cmd.Flags().MarkHidden("detach")
	return cmd
}
