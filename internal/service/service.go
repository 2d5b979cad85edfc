// Package service wires vf's components together from one Config.
package service

import (
	"context"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/clipboard"
	"github.com/dpshade/vaultforge/internal/config"
	"github.com/dpshade/vaultforge/internal/engine"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/prompts"
	"github.com/dpshade/vaultforge/internal/renderer"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
	"github.com/dpshade/vaultforge/internal/xpost"
)

// Options override parts of the wiring. Zero values select the terminal.
type Options struct {
	Prompter ui.Prompter
	Console  *ui.Console
	// Styled forces markdown styling on or off. Nil means "when stdout is a
	// terminal".
	Styled *bool
	// Factory replaces the provider client factory.
	Factory ai.ServiceFactory
}

// Service provides the components a command needs.
type Service struct {
	Config   *config.Config
	Vault    *storage.Vault // nil without a vault path
	Registry *ai.Registry
	Prompts  *prompts.Store
	Tags     *storage.TagIndex
	Usage    *storage.UsageLedger
	Prompter ui.Prompter
	Console  *ui.Console
	Renderer *renderer.Renderer
	Engine   *engine.Engine

	logger  *zap.Logger
	closers []io.Closer
}

// NewService creates a service for cfg.
func NewService(cfg *config.Config, logger *zap.Logger, opts Options) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{Config: cfg, logger: logger}

	s.Console = opts.Console
	if s.Console == nil {
		s.Console = ui.NewConsole()
	}
	s.Prompter = opts.Prompter
	if s.Prompter == nil {
		s.Prompter = s.terminalPrompter()
	}

	styled := ui.IsTerminal(os.Stdout)
	if opts.Styled != nil {
		styled = *opts.Styled
	}
	s.Renderer = renderer.NewRenderer(styled)

	if cfg.HasVault() {
		vault, err := storage.NewVault(cfg.VaultPath, logger)
		if err != nil {
			return nil, apperrors.ConfigurationError(err.Error())
		}
		s.Vault = vault
		s.Registry = ai.NewRegistry(vault.Root(), logger)
		s.Tags = storage.NewTagIndex(vault.Root())
		s.Usage = storage.NewUsageLedger(vault.Root())
		injector := prompts.NewInjector(cfg, s.Registry, s.Prompter, logger)
		s.Prompts = prompts.NewStore(vault, cfg.Language, injector, s.Console, logger)
	}

	deps := engine.Deps{
		Config:    cfg,
		Vault:     s.Vault,
		Tags:      s.Tags,
		Prompter:  s.Prompter,
		Console:   s.Console,
		Renderer:  s.Renderer,
		NewPoster: func() (xpost.Poster, error) { return xpost.NewClient(cfg.X) },
		Clipboard: clipboard.New(),
		Logger:    logger,
	}
	if s.Prompts != nil {
		deps.Prompts = s.Prompts
		deps.Registry = s.Registry
		deps.Usage = s.Usage
	}

	switch {
	case opts.Factory != nil:
		deps.Factory = opts.Factory
	case cfg.Sandbox:
		logger.Info("sandbox mode: AI calls are answered by the mock client")
		deps.Factory = ai.NewSandboxFactory()
	default:
		deps.Factory = ai.NewFactory(cfg, logger)
	}
	if cfg.Sandbox {
		deps.Resolver = ai.SandboxResolver{}
	} else if s.Registry != nil {
		deps.Resolver = ai.NewInferrer(s.Registry, logger)
	} else {
		deps.Resolver = ai.NewInferrer(emptyCatalog{}, logger)
	}

	s.Engine = engine.New(deps)
	return s, nil
}

// terminalPrompter reads keys from the terminal. With piped stdin the keys
// come from /dev/tty when it can be opened.
func (s *Service) terminalPrompter() ui.Prompter {
	if !ui.StdinIsPiped() {
		return ui.NewTerminalPrompter()
	}
	tty, err := ui.OpenTTY()
	if err != nil {
		s.logger.Debug("no controlling terminal for prompts", zap.Error(err))
		return ui.NewPrompterWithIO(os.Stdin, os.Stdout, false)
	}
	s.closers = append(s.closers, tty)
	return ui.NewPrompterWithIO(tty, os.Stdout, ui.IsTerminal(os.Stdout))
}

// RequireVault fails when no vault path is configured.
func (s *Service) RequireVault() error {
	return s.Config.RequireVault()
}

// Run executes one mode run.
func (s *Service) Run(ctx context.Context, rc models.RunConfig) (*engine.Result, error) {
	return s.Engine.Run(ctx, rc)
}

// WantsBackground reports whether a run of mode should detach on its own.
func (s *Service) WantsBackground(mode models.Mode) bool {
	return s.Engine.WantsBackground(mode)
}

// Close releases the terminal opened for prompts.
func (s *Service) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}

type emptyCatalog struct{}

func (emptyCatalog) LoadAll() (map[string][]string, error) {
	return map[string][]string{}, nil
}
