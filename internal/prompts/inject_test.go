package prompts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpshade/vaultforge/internal/ai"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

const sampleDoc = "---\ndescription: sample\ntags: [a]\n---\n\nSummarize the data carefully.\n"

type failingModels struct{}

func (failingModels) Models(string) ([]string, error) { return nil, errors.New("registry down") }
func (failingModels) AddModel(string, string) error    { return nil }

func TestInjectWithoutProvidersIsIdentity(t *testing.T) {
	p := ui.NewScriptedPrompter()
	inj := NewInjector(providerList{}, ai.NewRegistry(t.TempDir(), nil), p, nil)

	out, err := inj.Inject(context.Background(), sampleDoc, models.ModeDebug)
	require.NoError(t, err)
	assert.Equal(t, Completed, out.Status)
	assert.Equal(t, sampleDoc, out.Value)
	assert.Empty(t, p.Asked())
}

func TestInjectOffersBackAndOutputModes(t *testing.T) {
	tests := []struct {
		mode    models.Mode
		options int
	}{
		{models.ModeGeneral, 2},
		{models.ModeDebug, 3},
		{models.ModeXPost, 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			p := ui.NewScriptedPrompter(ui.Choose(0), ui.Choose(0), ui.Choose(0))
			inj := NewInjector(providerList{"groq"}, ai.NewRegistry(t.TempDir(), nil), p, nil)

			_, err := inj.Inject(context.Background(), sampleDoc, tt.mode)
			require.NoError(t, err)

			asked := p.Asked()
			require.Len(t, asked, 3)
			assert.Equal(t, []string{"groq", backOption}, asked[0].Options)
			assert.Equal(t, customModelOption, asked[1].Options[len(asked[1].Options)-1])
			assert.Len(t, asked[2].Options, tt.options)
		})
	}
}

func TestInjectCustomModelIsRegistered(t *testing.T) {
	root := t.TempDir()
	registry := ai.NewRegistry(root, nil)
	known, err := registry.Models("gemini")
	require.NoError(t, err)

	p := ui.NewScriptedPrompter(
		ui.Choose(0),
		ui.Choose(len(known)),
		ui.Type("   "),
		ui.Type("gemini-3-ultra"),
		ui.Choose(0),
	)
	inj := NewInjector(providerList{"gemini"}, registry, p, nil)

	out, err := inj.Inject(context.Background(), sampleDoc, models.ModeDebug)
	require.NoError(t, err)
	require.Equal(t, Completed, out.Status)

	doc, err := storage.ParsePromptDocument([]byte(out.Value))
	require.NoError(t, err)
	assert.Equal(t, "gemini-3-ultra", doc.Model)
	assert.Contains(t, doc.Tags, "gemini-3-ultra")
	assert.Equal(t, "a", doc.Tags[0])

	listed, err := registry.Models("gemini")
	require.NoError(t, err)
	assert.Contains(t, listed, "gemini-3-ultra")
}

func TestInjectCancelAtEachStep(t *testing.T) {
	scripts := [][]ui.Answer{
		{ui.Cancel()},
		{ui.Choose(0), ui.Cancel()},
		{ui.Choose(0), ui.Choose(0), ui.Cancel()},
	}
	for _, script := range scripts {
		p := ui.NewScriptedPrompter(script...)
		inj := NewInjector(providerList{"openai"}, ai.NewRegistry(t.TempDir(), nil), p, nil)

		out, err := inj.Inject(context.Background(), sampleDoc, models.ModeDebug)
		require.NoError(t, err)
		assert.Equal(t, Aborted, out.Status)
	}
}

func TestInjectRegistryError(t *testing.T) {
	p := ui.NewScriptedPrompter(ui.Choose(0))
	inj := NewInjector(providerList{"openai"}, failingModels{}, p, nil)

	_, err := inj.Inject(context.Background(), sampleDoc, models.ModeDebug)
	assert.Error(t, err)
}

func TestOutcomeHelpers(t *testing.T) {
	assert.True(t, Complete(1).Done())
	assert.False(t, Back[int]().Done())

	r := Recast[int, string](Abort[int]())
	assert.Equal(t, Aborted, r.Status)
	assert.Equal(t, "aborted", r.Status.String())
}
