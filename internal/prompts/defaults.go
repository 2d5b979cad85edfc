package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
)

//go:embed defaults
var defaultBodies embed.FS

const fallbackLanguage = "en"

// DefaultBody returns the compiled-in prompt body for mode. Languages
// without their own bodies use English.
func DefaultBody(lang string, mode models.Mode) (string, bool) {
	for _, l := range []string{lang, fallbackLanguage} {
		data, err := fs.ReadFile(defaultBodies, path.Join("defaults", l, string(mode)+".md"))
		if err == nil {
			return string(data), true
		}
	}
	return "", false
}

// DefaultDocument returns the full default prompt document for mode.
func DefaultDocument(lang string, mode models.Mode) (string, bool, error) {
	body, ok := DefaultBody(lang, mode)
	if !ok {
		return "", false, nil
	}
	doc := &models.PromptDocument{
		Frontmatter: models.Frontmatter{
			Description: fmt.Sprintf("Default prompt for %s", mode),
			Version:     "1.0",
			Tags:        []string{"system-prompt"},
		},
		Content: body,
	}
	data, err := storage.SerializePromptDocument(doc)
	if err != nil {
		return "", true, err
	}
	return string(data), true, nil
}
