package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

const (
	retryOption    = "Retry (generate new candidates)"
	saveExitOption = "Save & exit"
	labelRunes     = 50
)

var codeFence = regexp.MustCompile("```json\\n?|\\n?```")

// ParseCandidates reads the JSON array of post candidates from a response,
// ignoring markdown code fences around it.
func ParseCandidates(response string) ([]models.XPostCandidate, error) {
	clean := strings.TrimSpace(codeFence.ReplaceAllString(response, ""))

	var candidates []models.XPostCandidate
	if err := json.Unmarshal([]byte(clean), &candidates); err != nil {
		return nil, fmt.Errorf("response is not a JSON array of candidates: %w", err)
	}
	if len(candidates) == 0 {
		return nil, errors.New("response contained no candidates")
	}
	return candidates, nil
}

// ComposePost joins a candidate's text and hashtags into the final post.
func ComposePost(c models.XPostCandidate) string {
	return c.Content + "\n\n" + strings.Join(c.Hashtags, " ")
}

func candidateLabel(n int, c models.XPostCandidate) string {
	preview := c.Content
	if r := []rune(preview); len(r) > labelRunes {
		preview = string(r[:labelRunes])
	}
	return fmt.Sprintf("%d. %s... (%s)", n, preview, strings.Join(c.Hashtags, " "))
}

func readSavedNote(_ context.Context, e *Engine, r *run) (string, error) {
	text, err := e.Vault.ReadNote(r.file.RelativePath)
	if err != nil {
		return "", apperrors.StorageError("read saved input", err)
	}
	return text, nil
}

// selectAndPost saves each batch of candidates and lets the user post one,
// ask for a new batch, or stop.
func selectAndPost(ctx context.Context, e *Engine, r *run) error {
	header := fmt.Sprintf("%s (%s)", storage.XPostHeader, r.rc.Mode)

	for {
		if err := e.Vault.AppendAnalysisResult(r.file.RelativePath, r.response, header); err != nil {
			return apperrors.StorageError("append post candidates", err)
		}

		if !e.Prompter.IsInteractive() {
			e.Console.Warn("Not running in a terminal; candidates were saved without posting.")
			return nil
		}

		candidates, err := ParseCandidates(r.response)
		if err != nil {
			e.Console.Warn("Could not read post candidates: %v", err)
			return nil
		}

		options := make([]string, 0, len(candidates)+2)
		for i, c := range candidates {
			options = append(options, candidateLabel(i+1, c))
		}
		options = append(options, retryOption, saveExitOption)

		idx, err := e.Prompter.Select(ctx, "Choose a post", options)
		if errors.Is(err, ui.ErrCancelled) {
			r.aborted = true
			return nil
		}
		if err != nil {
			return err
		}

		switch idx {
		case len(candidates):
			e.Console.Info("Generating new candidates...")
			response, err := e.analyze(ctx, r)
			if err != nil {
				return err
			}
			r.response = response
			continue
		case len(candidates) + 1:
			e.Console.Info("Candidates saved to %s", r.file.RelativePath)
			return nil
		}
		return e.publish(ctx, r, candidates[idx])
	}
}

func (e *Engine) publish(ctx context.Context, r *run, c models.XPostCandidate) error {
	post := ComposePost(c)
	rule := strings.Repeat("-", 50)
	e.Console.Println("\nSelected post:\n" + rule + "\n" + post + "\n" + rule)

	ok, err := e.Prompter.Confirm(ctx, "Post this to X?", false)
	if errors.Is(err, ui.ErrCancelled) {
		r.aborted = true
		return nil
	}
	if err != nil {
		return err
	}
	if !ok {
		e.Console.Info("Not posted.")
		e.copyDraft(r, post)
		return nil
	}

	id, err := e.post(ctx, post)
	if err != nil {
		r.logger.Warn("post to X failed", zap.Error(err))
		e.Console.Error("Posting to X failed: %v", err)
		entry := fmt.Sprintf("\n\n%s\nError: %s\n", storage.XPostFailHeader, err.Error())
		if err := e.Vault.AppendNote(r.file.RelativePath, entry); err != nil {
			return apperrors.StorageError("record failed post", err)
		}
		return nil
	}

	e.Console.Success("Posted to X (ID: %s)", id)
	entry := fmt.Sprintf("\n\n%s\nTweet ID: %s\n\n%s\n", storage.XPostSuccessHeader, id, post)
	if err := e.Vault.AppendNote(r.file.RelativePath, entry); err != nil {
		return apperrors.StorageError("record post", err)
	}
	return nil
}

func (e *Engine) post(ctx context.Context, text string) (string, error) {
	if e.NewPoster == nil {
		return "", apperrors.ConfigurationError("posting to X is not configured")
	}
	poster, err := e.NewPoster()
	if err != nil {
		return "", err
	}
	return poster.Post(ctx, text)
}

func (e *Engine) copyDraft(r *run, post string) {
	if e.Clipboard == nil || !e.Clipboard.Available() {
		return
	}
	if err := e.Clipboard.Copy(post); err != nil {
		r.logger.Debug("clipboard copy failed", zap.Error(err))
		return
	}
	e.Console.Success("Copied the post to the clipboard.")
}
