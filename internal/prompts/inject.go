package prompts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

const (
	backOption        = "← Back"
	customModelOption = "Custom model…"
)

// ProviderSource lists the providers the user holds credentials for.
type ProviderSource interface {
	AvailableProviders() []string
}

// ModelSource is the model registry as seen by the injector.
type ModelSource interface {
	Models(provider string) ([]string, error)
	AddModel(provider, model string) error
}

type outputChoice struct {
	mode  models.OutputMode
	label string
}

var outputChoices = []outputChoice{
	{models.OutputNormal, "normal     wait for the full answer, then render it"},
	{models.OutputStream, "stream     print the answer as it arrives"},
	{models.OutputBackground, "background run detached and only write to the vault"},
}

// Injector asks the user which provider, model and output mode a prompt
// should use, and writes the answers into the prompt's frontmatter.
type Injector struct {
	providers ProviderSource
	models    ModelSource
	prompter  ui.Prompter
	logger    *zap.Logger
}

// NewInjector creates an injector.
func NewInjector(providers ProviderSource, registry ModelSource, prompter ui.Prompter, logger *zap.Logger) *Injector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Injector{
		providers: providers,
		models:    registry,
		prompter:  prompter,
		logger:    logger.Named("injector"),
	}
}

// Inject runs the provider/model/output questions for mode and returns the
// document with the answers merged in. Without any configured provider the
// document comes back unchanged.
func (i *Injector) Inject(ctx context.Context, document string, mode models.Mode) (Outcome[string], error) {
	available := i.providers.AvailableProviders()
	if len(available) == 0 {
		i.logger.Debug("no providers configured, leaving prompt unchanged", zap.String("mode", string(mode)))
		return Complete(document), nil
	}

	doc, err := storage.ParsePromptDocument([]byte(document))
	if err != nil {
		return Outcome[string]{}, err
	}

	options := append(append([]string{}, available...), backOption)
	idx, err := i.prompter.Select(ctx, fmt.Sprintf("Select the AI provider for %s mode", mode), options)
	if err != nil {
		return cancelled[string](err)
	}
	if idx == len(available) {
		return Back[string](), nil
	}
	provider := available[idx]

	known, err := i.models.Models(provider)
	if err != nil {
		return Outcome[string]{}, err
	}
	model, out, err := i.chooseModel(ctx, provider, known)
	if err != nil || !out.Done() {
		return Recast[struct{}, string](out), err
	}

	outputMode, out, err := i.chooseOutputMode(ctx, mode)
	if err != nil || !out.Done() {
		return Recast[struct{}, string](out), err
	}

	// Re-read so a custom model just registered shows up in the tags.
	providerModels, err := i.models.Models(provider)
	if err != nil {
		return Outcome[string]{}, err
	}

	doc.AIProvider = provider
	doc.Model = model
	doc.OutputMode = string(outputMode)
	doc.AddTags(provider, model)
	doc.AddTags(providerModels...)

	data, err := storage.SerializePromptDocument(doc)
	if err != nil {
		return Outcome[string]{}, err
	}
	i.logger.Debug("prompt configured",
		zap.String("mode", string(mode)),
		zap.String("provider", provider),
		zap.String("model", model),
		zap.String("output", string(outputMode)))
	return Complete(string(data)), nil
}

func (i *Injector) chooseModel(ctx context.Context, provider string, known []string) (string, Outcome[struct{}], error) {
	options := append(append([]string{}, known...), customModelOption)
	idx, err := i.prompter.Select(ctx, "Select a model", options)
	if err != nil {
		out, err := cancelled[struct{}](err)
		return "", out, err
	}
	if idx < len(known) {
		return known[idx], Complete(struct{}{}), nil
	}

	for {
		name, err := i.prompter.Text(ctx, "Enter the model name", "e.g. gpt-5-mini")
		if err != nil {
			out, err := cancelled[struct{}](err)
			return "", out, err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if err := i.models.AddModel(provider, name); err != nil {
			return "", Outcome[struct{}]{}, err
		}
		return name, Complete(struct{}{}), nil
	}
}

func (i *Injector) chooseOutputMode(ctx context.Context, mode models.Mode) (models.OutputMode, Outcome[struct{}], error) {
	choices := outputChoices
	if mode == models.ModeGeneral {
		choices = choices[:2]
	}
	labels := make([]string, len(choices))
	for n, c := range choices {
		labels[n] = c.label
	}

	idx, err := i.prompter.Select(ctx, fmt.Sprintf("Select the output mode for %s", mode), labels)
	if err != nil {
		out, err := cancelled[struct{}](err)
		return "", out, err
	}
	return choices[idx].mode, Complete(struct{}{}), nil
}

// cancelled turns a widget cancellation into an Aborted outcome and passes
// every other error through.
func cancelled[T any](err error) (Outcome[T], error) {
	if errors.Is(err, ui.ErrCancelled) {
		return Abort[T](), nil
	}
	return Outcome[T]{}, err
}
