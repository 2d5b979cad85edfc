package engine

import (
	"context"
	"errors"
	"os"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/prompts"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

type modeStep func(ctx context.Context, mode models.Mode) (prompts.Status, error)

// stepModes runs step for each prompt mode in order. Going back from a mode
// repeats the previous one; going back from the first aborts.
func stepModes(ctx context.Context, step modeStep) (bool, error) {
	for i := 0; i < len(models.PromptModes); {
		status, err := step(ctx, models.PromptModes[i])
		if err != nil {
			return false, err
		}
		switch status {
		case prompts.Aborted:
			return false, nil
		case prompts.WentBack:
			if i == 0 {
				return false, nil
			}
			i--
		default:
			i++
		}
	}
	return true, nil
}

func runSetupWizard(ctx context.Context, e *Engine, r *run) error {
	cfg := e.Config
	if cfg == nil || !cfg.HasVault() || e.Vault == nil {
		return apperrors.ConfigurationError("vault path is not set (OBSIDIAN_VAULT_PATH)")
	}
	providers := cfg.AvailableProviders()
	if len(providers) == 0 {
		return apperrors.ConfigurationError("no AI provider API key is set").
			WithDetails("set GEMINI_API_KEY, OPENAI_API_KEY, GROQ_API_KEY or CLAUDE_API_KEY")
	}

	e.Console.Info("Current settings:")
	e.Console.Println("  Vault:     " + cfg.VaultPath)
	e.Console.Println("  Language:  " + cfg.Language)
	e.Console.Println("  Providers: " + strings.Join(providers, ", "))

	abort := func() error {
		r.aborted = true
		r.message = "Setup cancelled."
		e.Console.Info("%s", r.message)
		return nil
	}

	proceed, err := e.confirm(ctx, "Continue setup with these settings?", true)
	if err != nil {
		return err
	}
	if !proceed.Done() || !proceed.Value {
		return abort()
	}

	regenerate, err := e.confirm(ctx, "Regenerate the prompt files from the defaults?", false)
	if err != nil {
		return err
	}
	if !regenerate.Done() {
		return abort()
	}

	var step modeStep
	if regenerate.Value {
		step = func(ctx context.Context, mode models.Mode) (prompts.Status, error) {
			e.Console.Info("Prompt for %s:", mode)
			out, err := e.Prompts.Create(ctx, mode, true)
			return out.Status, err
		}
	} else {
		update, err := e.confirm(ctx, "Update the AI settings of the existing prompts?", false)
		if err != nil {
			return err
		}
		if !update.Done() {
			return abort()
		}
		if update.Value {
			step = func(ctx context.Context, mode models.Mode) (prompts.Status, error) {
				e.Console.Info("AI settings for %s:", mode)
				out, err := e.Prompts.UpdateProviderConfig(ctx, mode)
				return out.Status, err
			}
		}
	}

	if step != nil {
		completed, err := stepModes(ctx, step)
		if err != nil {
			return err
		}
		if !completed {
			return abort()
		}
	}

	if err := os.MkdirAll(e.Vault.Path(storage.TokenUsageDir), 0755); err != nil {
		return apperrors.StorageError("create token usage directory", err)
	}
	if e.Registry != nil {
		created, err := e.Registry.Initialize()
		if err != nil {
			return err
		}
		if created {
			e.Console.Success("Created the model registry.")
		}
	}
	if e.Tags != nil {
		if _, err := e.Tags.Initialize(); err != nil {
			r.logger.Warn("failed to create tag index", zap.Error(err))
		}
	}

	r.message = "Setup complete."
	e.Console.Success("%s", r.message)
	return nil
}

// confirm asks a yes/no question. Cancelling it aborts rather than
// answering.
func (e *Engine) confirm(ctx context.Context, question string, defaultYes bool) (prompts.Outcome[bool], error) {
	ok, err := e.Prompter.Confirm(ctx, question, defaultYes)
	if errors.Is(err, ui.ErrCancelled) {
		return prompts.Abort[bool](), nil
	}
	if err != nil {
		return prompts.Outcome[bool]{}, err
	}
	return prompts.Complete(ok), nil
}
