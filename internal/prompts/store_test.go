package prompts

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/vaultforge/internal/ai"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

type providerList []string

func (p providerList) AvailableProviders() []string { return p }

type recordingNotifier struct {
	lines []string
}

func (r *recordingNotifier) Info(format string, args ...any) {
	r.lines = append(r.lines, "info: "+format)
}

func (r *recordingNotifier) Success(format string, args ...any) {
	r.lines = append(r.lines, "success: "+format)
}

type fixture struct {
	root     string
	vault    *storage.Vault
	registry *ai.Registry
	prompter *ui.ScriptedPrompter
	store    *Store
}

func newFixture(t *testing.T, lang string, providers providerList, answers ...ui.Answer) *fixture {
	t.Helper()
	root := t.TempDir()
	vault, err := storage.NewVault(root, nil)
	require.NoError(t, err)

	f := &fixture{
		root:     root,
		vault:    vault,
		registry: ai.NewRegistry(root, nil),
		prompter: ui.NewScriptedPrompter(answers...),
	}
	injector := NewInjector(providers, f.registry, f.prompter, nil)
	f.store = NewStore(vault, lang, injector, nil, nil)
	return f
}

func (f *fixture) write(t *testing.T, mode models.Mode, content string) {
	t.Helper()
	_, err := f.vault.CreateNote(f.store.RelativePath(mode), content)
	require.NoError(t, err)
}

func (f *fixture) read(t *testing.T, mode models.Mode) string {
	t.Helper()
	raw, err := f.vault.ReadNote(f.store.RelativePath(mode))
	require.NoError(t, err)
	return raw
}

func TestLoadCreatesEveryDefault(t *testing.T) {
	f := newFixture(t, "en", nil)

	for _, mode := range models.PromptModes {
		t.Run(string(mode), func(t *testing.T) {
			doc, err := f.store.Load(mode)
			require.NoError(t, err)
			assert.True(t, doc.Valid())
			assert.Equal(t, "Default prompt for "+string(mode), doc.Description)
			assert.Equal(t, "1.0", doc.Version)
			assert.Equal(t, []string{"system-prompt"}, doc.Tags)
			assert.Empty(t, doc.AIProvider)
			assert.Empty(t, doc.Model)
			assert.Equal(t, filepath.Join(f.root, "_AI_Prompts", "prompts", "en", string(mode)+".md"), doc.FilePath)
			assert.FileExists(t, doc.FilePath)

			again, err := f.store.Load(mode)
			require.NoError(t, err)
			assert.Equal(t, doc.Content, again.Content)
		})
	}
}

func TestLoadNotifiesOnCreate(t *testing.T) {
	root := t.TempDir()
	vault, err := storage.NewVault(root, nil)
	require.NoError(t, err)
	n := &recordingNotifier{}
	store := NewStore(vault, "en", nil, n, nil)

	_, err = store.Load(models.ModeDebug)
	require.NoError(t, err)
	assert.Equal(t, []string{"info: Created default prompt file: %s"}, n.lines)
}

func TestLoadValidatesLength(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"empty", "", false},
		{"nine", "123456789", false},
		{"ten", "0123456789", true},
		{"padded nine", "   123456789   \n\n", false},
		{"ten kana", "あいうえおかきくけこ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "en", nil)
			f.write(t, models.ModeGeneral, "---\ndescription: x\n---\n\n"+tt.body)

			doc, err := f.store.Load(models.ModeGeneral)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, strings.TrimSpace(tt.body), doc.Content)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
			assert.Contains(t, err.Error(), "too short")
			assert.Contains(t, err.Error(), f.store.RelativePath(models.ModeGeneral))
		})
	}
}

func TestLoadDoesNotRepairBrokenPrompt(t *testing.T) {
	f := newFixture(t, "en", nil)
	broken := "---\ntags: [unclosed\n---\n\nThis body is long enough."
	f.write(t, models.ModeDebug, broken)

	_, err := f.store.Load(models.ModeDebug)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	assert.Equal(t, broken, f.read(t, models.ModeDebug))
}

func TestLoadUnterminatedFrontmatter(t *testing.T) {
	f := newFixture(t, "en", nil)
	f.write(t, models.ModeDebug, "---\nmodel: x\nno closing line, long enough")

	_, err := f.store.Load(models.ModeDebug)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
}

func TestLoadUnknownMode(t *testing.T) {
	f := newFixture(t, "en", nil)

	_, err := f.store.Load("unknown_mode")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownMode))
	assert.Contains(t, err.Error(), "unknown_mode")
	assert.NoFileExists(t, filepath.Join(f.root, f.store.RelativePath("unknown_mode")))
}

func TestLanguageSelection(t *testing.T) {
	ja := newFixture(t, "ja", nil)
	doc, err := ja.store.Load(models.ModeGeneral)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "アシスタント")
	assert.Contains(t, doc.FilePath, filepath.Join("prompts", "ja"))

	fr := newFixture(t, "fr", nil)
	doc, err = fr.store.Load(models.ModeGeneral)
	require.NoError(t, err)
	assert.Contains(t, doc.Content, "assistant")
	assert.Contains(t, doc.FilePath, filepath.Join("prompts", "fr"))
}

func TestXPostDefaultAsksForJSON(t *testing.T) {
	body, ok := DefaultBody("en", models.ModeXPost)
	require.True(t, ok)
	assert.Contains(t, body, `"content"`)
	assert.Contains(t, body, `"hashtags"`)
}

func TestCreateInteractive(t *testing.T) {
	f := newFixture(t, "en", providerList{"gemini", "openai"},
		ui.Choose(1), // openai
		ui.Choose(0), // first registry model
		ui.Choose(1), // stream
	)

	out, err := f.store.Create(context.Background(), models.ModeDebug, true)
	require.NoError(t, err)
	require.Equal(t, Completed, out.Status)

	doc, err := f.store.Load(models.ModeDebug)
	require.NoError(t, err)
	assert.Equal(t, "openai", doc.AIProvider)
	assert.Equal(t, "gpt-5-mini", doc.Model)
	assert.Equal(t, "stream", doc.OutputMode)
	assert.Equal(t, []string{"system-prompt", "openai", "gpt-5-mini", "gpt-5", "gpt-4.1-mini"}, doc.Tags)
}

func TestCreateInteractiveBackAndCancelWriteNothing(t *testing.T) {
	back := newFixture(t, "en", providerList{"gemini"}, ui.Choose(1))
	out, err := back.store.Create(context.Background(), models.ModeGeneral, true)
	require.NoError(t, err)
	assert.Equal(t, WentBack, out.Status)
	assert.False(t, back.vault.Exists(back.store.RelativePath(models.ModeGeneral)))

	abort := newFixture(t, "en", providerList{"gemini"}, ui.Choose(0), ui.Cancel())
	out, err = abort.store.Create(context.Background(), models.ModeGeneral, true)
	require.NoError(t, err)
	assert.Equal(t, Aborted, out.Status)
	assert.False(t, abort.vault.Exists(abort.store.RelativePath(models.ModeGeneral)))
}

func TestUpdateProviderConfigPreservesUnknownKeysAndBody(t *testing.T) {
	f := newFixture(t, "en", providerList{"claude"},
		ui.Choose(0), ui.Choose(1), ui.Choose(2),
		ui.Choose(0), ui.Choose(1), ui.Choose(2),
	)
	f.write(t, models.ModeXPost, "---\ndescription: mine\nauthor: me\ntags: [custom]\n---\n\nWrite three posts about the data.\n")

	out, err := f.store.UpdateProviderConfig(context.Background(), models.ModeXPost)
	require.NoError(t, err)
	require.Equal(t, Completed, out.Status)

	first := f.read(t, models.ModeXPost)
	assert.Contains(t, first, "author: me")
	assert.Contains(t, first, "aiProvider: claude")
	assert.Contains(t, first, "model: claude-haiku-4-5")
	assert.Contains(t, first, "outputMode: background")
	assert.True(t, strings.HasSuffix(first, "\n\nWrite three posts about the data.\n"))

	out, err = f.store.UpdateProviderConfig(context.Background(), models.ModeXPost)
	require.NoError(t, err)
	require.Equal(t, Completed, out.Status)
	assert.Equal(t, first, f.read(t, models.ModeXPost))
}

func TestUpdateProviderConfigMissingFileCreates(t *testing.T) {
	f := newFixture(t, "en", providerList{"gemini"}, ui.Choose(0), ui.Choose(0), ui.Choose(0))

	out, err := f.store.UpdateProviderConfig(context.Background(), models.ModeGeneral)
	require.NoError(t, err)
	assert.Equal(t, Completed, out.Status)

	doc, err := f.store.Load(models.ModeGeneral)
	require.NoError(t, err)
	assert.Equal(t, "gemini", doc.AIProvider)
	assert.Equal(t, "normal", doc.OutputMode)
}

func TestReset(t *testing.T) {
	f := newFixture(t, "en", nil)
	f.store.now = func() time.Time { return time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC) }
	f.write(t, models.ModeGeneral, "broken")

	backup, err := f.store.Reset(models.ModeGeneral)
	require.NoError(t, err)
	assert.Equal(t, f.store.RelativePath(models.ModeGeneral)+".20250304-050607.bak", backup)

	data, err := os.ReadFile(f.vault.Path(backup))
	require.NoError(t, err)
	assert.Equal(t, "broken", string(data))

	_, err = f.store.Load(models.ModeGeneral)
	require.NoError(t, err)

	fresh := newFixture(t, "en", nil)
	backup, err = fresh.store.Reset(models.ModeDebug)
	require.NoError(t, err)
	assert.Empty(t, backup)

	_, err = fresh.store.Reset("nope")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeUnknownMode))
}
