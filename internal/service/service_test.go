package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/config"
	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/ui"
)

func newTestService(t *testing.T, cfg *config.Config) (*Service, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	plain := false
	svc, err := NewService(cfg, nil, Options{
		Prompter: ui.NewScriptedPrompter(),
		Console:  ui.NewConsoleWithWriters(out, &bytes.Buffer{}),
		Styled:   &plain,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })
	return svc, out
}

func TestSandboxRunUsesMockClient(t *testing.T) {
	cfg := &config.Config{VaultPath: t.TempDir(), Language: "en", Sandbox: true}
	svc, out := newTestService(t, cfg)

	res, err := svc.Run(context.Background(), models.RunConfig{
		InputData: "hello",
		Mode:      models.ModeGeneral,
		Date:      time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, ai.MockResponse, res.Response)
	assert.Contains(t, out.String(), ai.MockResponse)
}

func TestSandboxResolvesAnyModel(t *testing.T) {
	cfg := &config.Config{VaultPath: t.TempDir(), Language: "en", Sandbox: true}
	svc, _ := newTestService(t, cfg)

	_, err := svc.Run(context.Background(), models.RunConfig{
		InputData: "hello",
		Mode:      models.ModeGeneral,
		Options:   models.CLIOptions{Model: "anything-goes"},
	})
	require.NoError(t, err)

	listed, err := svc.Registry.Models(ai.ProviderMock)
	require.NoError(t, err)
	assert.Contains(t, listed, "anything-goes")
}

func TestWithoutVault(t *testing.T) {
	svc, _ := newTestService(t, &config.Config{Language: "en"})

	assert.Nil(t, svc.Vault)
	assert.Nil(t, svc.Prompts)
	err := svc.RequireVault()
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))

	_, err = svc.Run(context.Background(), models.RunConfig{InputData: "x", Mode: models.ModeGeneral})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeConfiguration))
	assert.False(t, svc.WantsBackground(models.ModeDebug))
}

func TestFactoryOverride(t *testing.T) {
	factory := ai.NewSandboxFactory()
	factory.Client.Text = "from override"
	cfg := &config.Config{VaultPath: t.TempDir(), Language: "en"}

	plain := false
	svc, err := NewService(cfg, nil, Options{
		Prompter: ui.NewScriptedPrompter(),
		Console:  ui.NewConsoleWithWriters(&bytes.Buffer{}, &bytes.Buffer{}),
		Styled:   &plain,
		Factory:  factory,
	})
	require.NoError(t, err)

	res, err := svc.Run(context.Background(), models.RunConfig{InputData: "x", Mode: models.ModeGeneral})
	require.NoError(t, err)
	assert.Equal(t, "from override", res.Response)
}
