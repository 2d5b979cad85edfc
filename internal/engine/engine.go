// Package engine runs one vf invocation through its mode's strategy.
//
// Every mode shares one lifecycle (save input, prepare context, load the
// prompt, resolve the model, analyze, handle the result) and differs only in
// the flags and hooks of its Variant. Diary and init replace the lifecycle
// entirely.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/config"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/prompts"
	"github.com/dpshade/vaultforge/internal/renderer"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
	"github.com/dpshade/vaultforge/internal/xpost"
)

// PromptStore is the prompt definition store.
type PromptStore interface {
	Load(mode models.Mode) (*models.PromptDocument, error)
	Create(ctx context.Context, mode models.Mode, interactive bool) (prompts.Outcome[string], error)
	UpdateProviderConfig(ctx context.Context, mode models.Mode) (prompts.Outcome[struct{}], error)
}

// ModelRegistry is the part of the model registry the engine writes to.
type ModelRegistry interface {
	AddModel(provider, model string) error
	Initialize() (bool, error)
}

// UsageRecorder appends to the token usage ledger.
type UsageRecorder interface {
	Record(now time.Time, mode, provider, model string, input, output, total int) error
}

// Copier copies text to the clipboard.
type Copier interface {
	Available() bool
	Copy(text string) error
}

// Deps are the collaborators an Engine needs.
type Deps struct {
	Config   *config.Config
	Vault    *storage.Vault
	Prompts  PromptStore
	Factory  ai.ServiceFactory
	Resolver ai.ProviderResolver
	Registry ModelRegistry
	Tags     *storage.TagIndex
	Usage    UsageRecorder
	Prompter ui.Prompter
	Console  *ui.Console
	Renderer *renderer.Renderer
	// NewPoster builds the X client on first use. Nil disables posting.
	NewPoster func() (xpost.Poster, error)
	Clipboard Copier
	Logger    *zap.Logger
	Now       func() time.Time
}

// Engine dispatches runs to mode variants.
type Engine struct {
	Deps
	logger *zap.Logger
}

// Result is what a run produced.
type Result struct {
	RunID    string
	Mode     models.Mode
	Response string
	// NotePath is the vault-relative path of the run's Inbox note, if any.
	NotePath string
	// Aborted is set when the user cancelled. It is not a failure.
	Aborted bool
	Message string
}

// New creates an engine.
func New(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Console == nil {
		deps.Console = ui.NewConsole()
	}
	if deps.Renderer == nil {
		deps.Renderer = renderer.NewRenderer(false)
	}
	return &Engine{Deps: deps, logger: deps.Logger.Named("engine")}
}

// Run executes rc and returns its result.
func (e *Engine) Run(ctx context.Context, rc models.RunConfig) (*Result, error) {
	if rc.Date.IsZero() {
		rc.Date = e.Now()
	}

	id := uuid.NewString()
	r := &run{
		id:      id,
		rc:      rc,
		variant: VariantFor(rc.Mode),
		logger:  e.logger.With(zap.String("run_id", id), zap.String("mode", string(rc.Mode))),
		state:   StateInit,
	}
	r.logger.Debug("run started", zap.Bool("piped", rc.Options.IsPiped), zap.Bool("detached", e.detached()))

	if err := e.execute(ctx, r); err != nil {
		if !IsTerminal(r.state) {
			_ = r.transition(StateFailed)
		}
		r.logger.Debug("run failed", zap.Error(err))
		return nil, err
	}

	r.logger.Debug("run finished", zap.Bool("aborted", r.aborted))
	return &Result{
		RunID:    r.id,
		Mode:     rc.Mode,
		Response: r.response,
		NotePath: r.file.RelativePath,
		Aborted:  r.aborted,
		Message:  r.message,
	}, nil
}

func (e *Engine) detached() bool {
	return e.Config != nil && e.Config.Detached
}

func (e *Engine) execute(ctx context.Context, r *run) error {
	v := r.variant
	if e.detached() && !v.SupportsDetach {
		return apperrors.DetachNotSupportedError(string(r.rc.Mode))
	}

	if v.Execute != nil {
		if err := v.Execute(ctx, e, r); err != nil {
			return err
		}
		return r.transition(StateDone)
	}

	if e.Vault == nil {
		return apperrors.ConfigurationError("vault path is not set (OBSIDIAN_VAULT_PATH)")
	}
	if v.SaveInput {
		if err := e.saveInput(r); err != nil {
			return err
		}
	}

	if err := r.transition(StatePrepareContext); err != nil {
		return err
	}
	r.context = r.rc.InputData
	if v.PrepareContext != nil {
		text, err := v.PrepareContext(ctx, e, r)
		if err != nil {
			return err
		}
		r.context = text
	}

	if err := e.loadPrompt(r); err != nil {
		return err
	}
	if err := e.resolveModel(r); err != nil {
		return err
	}

	if err := r.transition(StateAnalyze); err != nil {
		return err
	}
	response, err := e.analyze(ctx, r)
	if err != nil {
		return err
	}
	r.response = response

	if v.PersistResult && v.HandleResult != nil {
		if err := r.transition(StateHandleResult); err != nil {
			return err
		}
		if err := v.HandleResult(ctx, e, r); err != nil {
			return err
		}
	}

	if r.override {
		if err := e.Registry.AddModel(r.model.Provider, r.model.Model); err != nil {
			r.logger.Warn("failed to register override model", zap.Error(err))
		}
	}
	return r.transition(StateDone)
}

func (e *Engine) saveInput(r *run) error {
	if err := r.transition(StateSaveInput); err != nil {
		return err
	}
	r.file = e.Vault.RunFileInfo(r.rc.Mode, r.rc.Date)
	full, err := e.Vault.CreateInitialLog(r.rc.Date, r.rc.Mode, r.rc.InputData, r.file.RelativePath)
	if err != nil {
		return apperrors.StorageError("save input", err)
	}
	r.file.FullPath = full
	r.logger.Debug("input saved", zap.String("path", r.file.RelativePath))
	return nil
}

func (e *Engine) loadPrompt(r *run) error {
	if err := r.transition(StateLoadPrompt); err != nil {
		return err
	}
	doc, err := e.Prompts.Load(r.rc.Mode)
	if err != nil {
		e.Console.Warn("Could not load the %s prompt; aborting.", r.rc.Mode)
		return err
	}
	r.prompt = doc
	return nil
}

func (e *Engine) resolveModel(r *run) error {
	if err := r.transition(StateResolveModel); err != nil {
		return err
	}

	if name := r.rc.Options.Model; name != "" {
		provider, ok := e.Resolver.InferProvider(name)
		if !ok {
			return apperrors.ProviderInferenceError(name)
		}
		r.model = models.ResolvedModel{Provider: provider, Model: name}
		r.override = true
	} else {
		provider := r.prompt.AIProvider
		if provider == "" {
			provider = config.ProviderGemini
		}
		r.model = models.ResolvedModel{Provider: provider, Model: r.prompt.Model}
	}

	r.logger.Debug("model resolved",
		zap.String("provider", r.model.Provider),
		zap.String("model", r.model.Model),
		zap.Bool("override", r.override))
	return nil
}

// WantsBackground reports whether mode's prompt asks for background output
// and the mode can honour it by detaching.
func (e *Engine) WantsBackground(mode models.Mode) bool {
	if !SupportsDetach(mode) || e.Prompts == nil {
		return false
	}
	doc, err := e.Prompts.Load(mode)
	if err != nil {
		return false
	}
	out, ok := doc.PreferredOutput()
	return ok && out == models.OutputBackground
}
