// Package prompts manages the per-mode system prompts kept in the vault.
//
// A prompt lives at _AI_Prompts/prompts/<lang>/<mode>.md as markdown with a
// YAML header naming the provider, model and output mode to use. Missing
// prompts are created from compiled-in defaults; present but broken prompts
// are reported and left alone until the user resets them.
package prompts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
)

// ReasonTooShort is the validation reason for a body under the minimum
// length.
var ReasonTooShort = fmt.Sprintf("prompt is too short (at least %d characters required)", models.MinPromptLength)

// Notifier receives user-facing status lines.
type Notifier interface {
	Info(format string, args ...any)
	Success(format string, args ...any)
}

// Store loads and creates prompt documents.
type Store struct {
	vault    *storage.Vault
	lang     string
	injector *Injector
	notify   Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewStore creates a prompt store. injector may be nil when no interactive
// configuration is possible; notify may be nil to stay quiet.
func NewStore(vault *storage.Vault, lang string, injector *Injector, notify Notifier, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lang == "" {
		lang = fallbackLanguage
	}
	return &Store{
		vault:    vault,
		lang:     lang,
		injector: injector,
		notify:   notify,
		logger:   logger.Named("prompts"),
		now:      time.Now,
	}
}

// RelativePath returns the vault-relative path of mode's prompt.
func (s *Store) RelativePath(mode models.Mode) string {
	return filepath.Join(storage.PromptsRoot, "prompts", s.lang, string(mode)+".md")
}

// Load reads and validates mode's prompt, creating it from the default when
// it does not exist yet.
func (s *Store) Load(mode models.Mode) (*models.PromptDocument, error) {
	rel := s.RelativePath(mode)

	raw, err := s.vault.ReadNote(rel)
	if errors.Is(err, fs.ErrNotExist) {
		out, err := s.Create(context.Background(), mode, false)
		if err != nil {
			return nil, err
		}
		raw = out.Value
	} else if err != nil {
		return nil, apperrors.StorageError("read prompt "+rel, err)
	}

	doc, err := storage.ParsePromptDocument([]byte(raw))
	if err != nil {
		return nil, apperrors.ValidationError(rel, err.Error()).WithDetails("run 'vf prompt reset " + string(mode) + "' to restore the default")
	}
	if !doc.Valid() {
		return nil, apperrors.ValidationError(rel, ReasonTooShort)
	}
	doc.FilePath = s.vault.Path(rel)
	return doc, nil
}

// Raw returns the prompt file exactly as stored.
func (s *Store) Raw(mode models.Mode) (string, error) {
	raw, err := s.vault.ReadNote(s.RelativePath(mode))
	if errors.Is(err, fs.ErrNotExist) {
		return "", apperrors.NewAppError(apperrors.ErrCodeFileNotFound,
			fmt.Sprintf("no prompt for mode %q yet", mode))
	}
	return raw, err
}

// Create writes the default prompt for mode and returns its text. When
// interactive, the user picks provider settings first and may go back or
// cancel, in which case nothing is written.
func (s *Store) Create(ctx context.Context, mode models.Mode, interactive bool) (Outcome[string], error) {
	text, ok, err := DefaultDocument(s.lang, mode)
	if err != nil {
		return Outcome[string]{}, err
	}
	if !ok {
		return Outcome[string]{}, apperrors.UnknownModeError(string(mode))
	}

	if interactive && s.injector != nil {
		out, err := s.injector.Inject(ctx, text, mode)
		if err != nil || !out.Done() {
			return out, err
		}
		text = out.Value
	}

	rel := s.RelativePath(mode)
	if _, err := s.vault.CreateNote(rel, text); err != nil {
		return Outcome[string]{}, apperrors.StorageError("write prompt "+rel, err)
	}
	s.logger.Info("default prompt created", zap.String("mode", string(mode)), zap.String("path", rel))
	if s.notify != nil {
		s.notify.Info("Created default prompt file: %s", rel)
	}
	return Complete(text), nil
}

// UpdateProviderConfig re-asks the provider questions for an existing
// prompt and writes the answers back. A missing prompt is created
// interactively.
func (s *Store) UpdateProviderConfig(ctx context.Context, mode models.Mode) (Outcome[struct{}], error) {
	rel := s.RelativePath(mode)

	raw, err := s.vault.ReadNote(rel)
	if errors.Is(err, fs.ErrNotExist) {
		out, err := s.Create(ctx, mode, true)
		return Recast[string, struct{}](out), err
	}
	if err != nil {
		return Outcome[struct{}]{}, apperrors.StorageError("read prompt "+rel, err)
	}
	if s.injector == nil {
		return Complete(struct{}{}), nil
	}

	out, err := s.injector.Inject(ctx, raw, mode)
	if err != nil {
		if apperrors.IsAppError(err) {
			return Outcome[struct{}]{}, err
		}
		return Outcome[struct{}]{}, apperrors.ValidationError(rel, err.Error())
	}
	if !out.Done() {
		return Recast[string, struct{}](out), nil
	}

	if _, err := s.vault.CreateNote(rel, out.Value); err != nil {
		return Outcome[struct{}]{}, apperrors.StorageError("write prompt "+rel, err)
	}
	if s.notify != nil {
		s.notify.Success("AI settings updated for %s", mode)
	}
	return Complete(struct{}{}), nil
}

// Reset replaces mode's prompt with the default. An existing file is backed
// up first; the backup's relative path is returned, empty if there was
// nothing to back up.
func (s *Store) Reset(mode models.Mode) (string, error) {
	if _, ok := DefaultBody(s.lang, mode); !ok {
		return "", apperrors.UnknownModeError(string(mode))
	}

	rel := s.RelativePath(mode)
	backup := ""
	if _, err := os.Stat(s.vault.Path(rel)); err == nil {
		backup, err = s.vault.BackupNote(rel, s.now())
		if err != nil {
			return "", apperrors.StorageError("back up prompt "+rel, err)
		}
	}

	if _, err := s.Create(context.Background(), mode, false); err != nil {
		return backup, err
	}
	return backup, nil
}
