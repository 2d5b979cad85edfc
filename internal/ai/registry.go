package ai

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"go.uber.org/zap"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/storage"
)

// RegistryFile is the vault-relative location of the model registry.
var RegistryFile = filepath.Join(storage.PromptsRoot, "ai-models.json")

//go:embed ai-models.json
var registryTemplate []byte

// Registry is the persisted provider -> models list. Every read goes to
// disk and every mutation is written through, so concurrent vf processes see
// each other's changes (last writer wins).
type Registry struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewRegistry creates a registry stored in the vault rooted at vaultRoot.
func NewRegistry(vaultRoot string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		path:   filepath.Join(vaultRoot, RegistryFile),
		logger: logger.Named("registry"),
	}
}

// Path returns the registry file location.
func (r *Registry) Path() string {
	return r.path
}

// Initialize writes the bundled template when no registry exists. It
// reports whether the file was created.
func (r *Registry) Initialize() (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, err := os.Stat(r.path); err == nil {
		return false, nil
	}
	if err := r.writeTemplate(); err != nil {
		return false, err
	}
	return true, nil
}

// LoadAll returns the whole registry, creating it from the template on first
// access. Empty model names and duplicates are dropped.
func (r *Registry) LoadAll() (map[string][]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

// Models returns the models listed for provider. Unknown providers have no
// models.
func (r *Registry) Models(provider string) ([]string, error) {
	all, err := r.LoadAll()
	if err != nil {
		return nil, err
	}
	return slices.Clone(all[provider]), nil
}

// Providers returns the provider names in the registry, sorted.
func (r *Registry) Providers() ([]string, error) {
	all, err := r.LoadAll()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// AddModel appends model to provider's list. Adding a model that is already
// listed changes nothing and writes nothing.
func (r *Registry) AddModel(provider, model string) error {
	if provider == "" || model == "" {
		return apperrors.InvalidInputError("provider and model must not be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	if slices.Contains(all[provider], model) {
		return nil
	}
	all[provider] = append(all[provider], model)
	if err := r.save(all); err != nil {
		return err
	}
	r.logger.Debug("model added", zap.String("provider", provider), zap.String("model", model))
	return nil
}

// RemoveModel deletes model from provider's list. Removing an absent model
// writes nothing.
func (r *Registry) RemoveModel(provider, model string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	all, err := r.load()
	if err != nil {
		return err
	}
	models, ok := all[provider]
	if !ok || !slices.Contains(models, model) {
		return nil
	}
	all[provider] = slices.DeleteFunc(models, func(m string) bool { return m == model })
	if err := r.save(all); err != nil {
		return err
	}
	r.logger.Debug("model removed", zap.String("provider", provider), zap.String("model", model))
	return nil
}

// load must be called with the lock held.
func (r *Registry) load() (map[string][]string, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := r.writeTemplate(); err != nil {
			return nil, err
		}
		data = registryTemplate
	} else if err != nil {
		return nil, apperrors.StorageError("read model registry", err)
	}

	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeFileCorrupted,
			fmt.Sprintf("model registry %s is not valid JSON", r.path))
	}

	all := make(map[string][]string, len(raw))
	for provider, models := range raw {
		clean := make([]string, 0, len(models))
		for _, m := range models {
			if m != "" && !slices.Contains(clean, m) {
				clean = append(clean, m)
			}
		}
		all[provider] = clean
	}
	return all, nil
}

func (r *Registry) save(all map[string][]string) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal model registry: %w", err)
	}
	if err := storage.WriteFileAtomic(r.path, append(data, '\n'), 0644); err != nil {
		return apperrors.StorageError("write model registry", err)
	}
	return nil
}

func (r *Registry) writeTemplate() error {
	if err := storage.WriteFileAtomic(r.path, registryTemplate, 0644); err != nil {
		return apperrors.StorageError("create model registry", err)
	}
	r.logger.Info("model registry created from template", zap.String("path", r.path))
	return nil
}
