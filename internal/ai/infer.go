package ai

import (
	"slices"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/config"
)

// ModelCatalog is the read side of the model registry.
type ModelCatalog interface {
	LoadAll() (map[string][]string, error)
}

// prefixRules map lower-cased model name prefixes to providers. Checked in
// order after the registry.
var prefixRules = []struct {
	prefix   string
	provider string
}{
	{"gpt", config.ProviderOpenAI},
	{"gemini", config.ProviderGemini},
	{"claude", config.ProviderClaude},
	{"llama", config.ProviderGroq},
	{"mixtral", config.ProviderGroq},
	{"gemma", config.ProviderGroq},
}

// Inferrer resolves the provider for a model name.
type Inferrer struct {
	catalog ModelCatalog
	logger  *zap.Logger
}

// NewInferrer creates an inferrer backed by catalog.
func NewInferrer(catalog ModelCatalog, logger *zap.Logger) *Inferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inferrer{catalog: catalog, logger: logger.Named("infer")}
}

// InferProvider returns the provider that lists model in the registry, or
// failing that the provider implied by the model's name prefix.
func (i *Inferrer) InferProvider(model string) (string, bool) {
	if model == "" {
		return "", false
	}

	if i.catalog != nil {
		all, err := i.catalog.LoadAll()
		if err != nil {
			i.logger.Warn("model registry unavailable, using name heuristics", zap.Error(err))
		}
		for _, provider := range providerOrder(all) {
			if slices.Contains(all[provider], model) {
				return provider, true
			}
		}
	}

	lower := strings.ToLower(model)
	for _, rule := range prefixRules {
		if strings.HasPrefix(lower, rule.prefix) {
			return rule.provider, true
		}
	}
	return "", false
}

// providerOrder lists the known providers first, then any others sorted, so
// a model registered under two providers resolves the same way every run.
func providerOrder(all map[string][]string) []string {
	order := make([]string, 0, len(all))
	for _, p := range config.Providers {
		if _, ok := all[p]; ok {
			order = append(order, p)
		}
	}
	var rest []string
	for p := range all {
		if !slices.Contains(config.Providers, p) {
			rest = append(rest, p)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}
