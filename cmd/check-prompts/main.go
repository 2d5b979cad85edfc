// Command check-prompts exercises the prompt store against a scratch vault:
// creation on first load, re-loading, rejection of a corrupt file and
// lookup of an unknown mode. It exits non-zero when any check fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/logging"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/prompts"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

type check struct {
	name string
	run  func(*prompts.Store, *storage.Vault) error
}

func main() {
	os.Exit(run())
}

func run() int {
	lang := flag.String("lang", "en", "prompt language to check (en or ja)")
	keep := flag.Bool("keep", false, "keep the scratch vault instead of removing it")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	console := ui.NewConsole()
	logger, err := logging.New(logging.Options{Verbose: *verbose})
	if err != nil {
		console.Error("%v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	root, err := os.MkdirTemp("", "vf-check-prompts-")
	if err != nil {
		console.Error("Error creating scratch vault: %v", err)
		return 1
	}
	if *keep {
		console.Info("Scratch vault: %s", root)
	} else {
		defer os.RemoveAll(root)
	}

	vault, err := storage.NewVault(root, logger)
	if err != nil {
		console.Error("%v", err)
		return 1
	}
	store := prompts.NewStore(vault, *lang, nil, nil, logger)

	checks := []check{
		{"load creates missing prompts", checkCreateOnMiss},
		{"second load reads the stored file", checkReload},
		{"corrupt frontmatter is rejected", checkCorrupt},
		{"too-short body is rejected", checkTooShort},
		{"unknown mode has no prompt", checkUnknownMode},
	}

	failed := 0
	for _, c := range checks {
		if err := c.run(store, vault); err != nil {
			failed++
			console.Error("%s: %v", c.name, err)
			continue
		}
		console.Success("%s", c.name)
	}

	if failed > 0 {
		console.Error("%d of %d checks failed", failed, len(checks))
		return 1
	}
	console.Info("All %d checks passed", len(checks))
	return 0
}

func checkCreateOnMiss(store *prompts.Store, vault *storage.Vault) error {
	for _, mode := range models.PromptModes {
		rel := store.RelativePath(mode)
		if vault.Exists(rel) {
			return fmt.Errorf("%s exists before the first load", rel)
		}
		doc, err := store.Load(mode)
		if err != nil {
			return err
		}
		if !vault.Exists(rel) {
			return fmt.Errorf("%s was not written", rel)
		}
		if !doc.Valid() {
			return fmt.Errorf("default prompt for %s is too short", mode)
		}
	}
	return nil
}

func checkReload(store *prompts.Store, vault *storage.Vault) error {
	rel := store.RelativePath(models.ModeGeneral)
	edited := "---\naiProvider: groq\nmodel: llama-3.3-70b-versatile\n---\nYou are a terse assistant. Reply in one paragraph."
	if err := os.WriteFile(vault.Path(rel), []byte(edited), 0644); err != nil {
		return err
	}
	doc, err := store.Load(models.ModeGeneral)
	if err != nil {
		return err
	}
	if doc.AIProvider != "groq" || doc.Model != "llama-3.3-70b-versatile" {
		return fmt.Errorf("got provider %q model %q after edit", doc.AIProvider, doc.Model)
	}
	return nil
}

func checkCorrupt(store *prompts.Store, vault *storage.Vault) error {
	rel := store.RelativePath(models.ModeDebug)
	if err := os.MkdirAll(filepath.Dir(vault.Path(rel)), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(vault.Path(rel), []byte("---\nmodel: [unclosed\n---\nbody"), 0644); err != nil {
		return err
	}
	_, err := store.Load(models.ModeDebug)
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		return fmt.Errorf("expected a validation error, got %v", err)
	}
	return nil
}

func checkTooShort(store *prompts.Store, vault *storage.Vault) error {
	rel := store.RelativePath(models.ModeXPost)
	if err := os.WriteFile(vault.Path(rel), []byte("---\nmodel: m\n---\nshort"), 0644); err != nil {
		return err
	}
	_, err := store.Load(models.ModeXPost)
	if !errors.HasCode(err, errors.ErrCodeValidation) {
		return fmt.Errorf("expected a validation error, got %v", err)
	}
	return nil
}

func checkUnknownMode(store *prompts.Store, _ *storage.Vault) error {
	_, err := store.Load(models.Mode("no-such-mode"))
	if !errors.HasCode(err, errors.ErrCodeUnknownMode) {
		return fmt.Errorf("expected an unknown mode error, got %v", err)
	}
	return nil
}
