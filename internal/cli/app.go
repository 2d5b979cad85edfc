// Package cli implements the vf command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/config"
	"github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/logging"
	"github.com/dpshade/vaultforge/internal/service"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
	"github.com/dpshade/vaultforge/internal/validation"
)

// Version is set at build time.
var Version = "0.3.0"

// Env is the process environment a command runs in.
type Env struct {
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
	StdinPiped bool

	// Prompter and Factory replace the terminal prompter and the provider
	// client factory when set.
	Prompter ui.Prompter
	Factory  ai.ServiceFactory
	// Spawn starts the detached child process.
	Spawn func(args []string, payload []byte) error
}

// DefaultEnv is the environment of the running process.
func DefaultEnv() Env {
	return Env{
		Stdin:      os.Stdin,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		StdinPiped: ui.StdinIsPiped(),
		Spawn:      spawnDetached,
	}
}

type app struct {
	env       Env
	v         *viper.Viper
	cfg       *config.Config
	logger    *zap.Logger
	svc       *service.Service
	validator *validation.Validator
}

// Execute runs vf with args and returns the process exit code.
func Execute(ctx context.Context, args []string, env Env) int {
	a := &app{
		env:       env,
		v:         viper.New(),
		logger:    zap.NewNop(),
		validator: validation.NewValidator(),
	}
	defer a.close()

	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(env.Stdin)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	handler := errors.NewCLIErrorHandler(a.v.GetBool("verbose"), a.logger)
	fmt.Fprintln(env.Stderr, handler.HandleError(err))
	return errors.ExitCode(err)
}

func (a *app) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vf",
		Short: "Send notes, logs and ideas from the terminal through an AI into your Obsidian vault",
		Long: `vf pipes text through a per-mode AI prompt and files the result in an
Obsidian vault. Prompts live in the vault under _AI_Prompts and can be
edited like any other note.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error (overrides --verbose).")
	cmd.PersistentFlags().String("config", "", "Path of the .env file to read (default ./.env).")
	_ = a.v.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))
	_ = a.v.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.AddCommand(a.newAICmd())
	cmd.AddCommand(a.newDiaryCmd())
	cmd.AddCommand(a.newInitCmd())
	cmd.AddCommand(a.newModelsCmd())
	cmd.AddCommand(a.newPromptCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// setup loads the configuration and builds the logger before any command
// runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(config.LoadOptions{EnvFile: a.v.GetString("config")})
	if err != nil {
		return errors.ConfigurationError(err.Error())
	}
	a.cfg = cfg

	opts := logging.Options{
		Verbose: a.v.GetBool("verbose"),
		Level:   a.v.GetString("log_level"),
	}
	if cfg.Detached && cfg.HasVault() {
		// A detached run has no terminal; its log goes to the vault.
		dir := filepath.Join(cfg.VaultPath, storage.PromptsRoot, "logs")
		if err := os.MkdirAll(dir, 0755); err == nil {
			opts.OutputPaths = []string{filepath.Join(dir, "detached.log")}
			if opts.Level == "" && !opts.Verbose {
				opts.Level = "info"
			}
		}
	}
	logger, err := logging.New(opts)
	if err != nil {
		return errors.InvalidInputError(err.Error())
	}
	a.logger = logger
	a.logger.Debug("configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("env_file", cfg.EnvFile),
		zap.Bool("vault", cfg.HasVault()),
		zap.Bool("sandbox", cfg.Sandbox),
		zap.Bool("detached", cfg.Detached),
		zap.Strings("providers", cfg.AvailableProviders()))
	return nil
}

// service builds the component graph on first use.
func (a *app) service() (*service.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	styled := false
	if f, ok := a.env.Stdout.(*os.File); ok {
		styled = ui.IsTerminal(f)
	}
	svc, err := service.NewService(a.cfg, a.logger, service.Options{
		Prompter: a.env.Prompter,
		Console:  ui.NewConsoleWithWriters(a.env.Stdout, a.env.Stderr),
		Styled:   &styled,
		Factory:  a.env.Factory,
	})
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return svc, nil
}

func (a *app) validate(schema string, data map[string]string) error {
	if appErr := a.validator.Validate(schema, data).ToAppError(); appErr != nil {
		return appErr
	}
	return nil
}

func (a *app) close() {
	if a.svc != nil {
		_ = a.svc.Close()
	}
	_ = a.logger.Sync()
}
