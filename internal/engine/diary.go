package engine

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	apperrors "github.com/dpshade/vaultforge/internal/errors"
	"github.com/dpshade/vaultforge/internal/models"
	"github.com/dpshade/vaultforge/internal/storage"
	"github.com/dpshade/vaultforge/internal/ui"
)

// DiaryInputLimit is the largest diary entry accepted, in characters.
const DiaryInputLimit = 10240

// headerPatterns[i] matches the tag that makes an entry a level i+1 header.
// A match only counts when no ASCII word character follows it, see
// headerTag.
var headerPatterns = func() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, 6)
	wide := []rune("１２３４５６")
	for i := range patterns {
		n := i + 1
		patterns[i] = regexp.MustCompile(fmt.Sprintf(`(?i)#(?:見出し[%d%c]|h%d)`, n, wide[i], n))
	}
	return patterns
}()

// headerTag returns the location of the first match of p that ends at a
// word boundary, so "#h1" does not match inside "#h12" while "#見出し1タイトル"
// still does.
func headerTag(p *regexp.Regexp, s string) []int {
	for _, loc := range p.FindAllStringIndex(s, -1) {
		if loc[1] == len(s) || !isWordByte(s[loc[1]]) {
			return loc
		}
	}
	return nil
}

func isWordByte(b byte) bool {
	return b == '_' || ('0' <= b && b <= '9') || ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

var taskPattern = regexp.MustCompile(`(?i)#(?:task|todo)\b`)

// FormatDiaryEntry turns raw input into the line written to the daily note.
// It returns the header level, zero for a bullet entry.
func FormatDiaryEntry(input string, task bool) (string, int) {
	content := strings.TrimSpace(strings.ReplaceAll(input, `\n`, "\n"))

	for i, p := range headerPatterns {
		loc := headerTag(p, content)
		if loc == nil {
			continue
		}
		text := strings.TrimSpace(content[:loc[0]] + content[loc[1]:])
		level := i + 1
		return strings.Repeat("#", level) + " " + text, level
	}

	if task || taskPattern.MatchString(content) {
		return "- [ ] " + content, 0
	}
	return content, 0
}

func writeDiaryEntry(ctx context.Context, e *Engine, r *run) error {
	if e.Vault == nil {
		return apperrors.ConfigurationError("vault path is not set (OBSIDIAN_VAULT_PATH)")
	}

	input := r.rc.InputData
	if n := utf8.RuneCountInString(input); n > DiaryInputLimit {
		if r.rc.Options.IsPiped {
			return apperrors.InputTooLargeError(n, DiaryInputLimit)
		}
		e.Console.Warn("The entry is %d characters long (limit %d).", n, DiaryInputLimit)
		ok, err := e.Prompter.Confirm(ctx, "Write it anyway?", false)
		if err != nil && !errors.Is(err, ui.ErrCancelled) {
			return err
		}
		if !ok {
			r.aborted = true
			r.message = "Diary entry cancelled."
			return nil
		}
	}

	if strings.TrimSpace(input) == "" {
		text, err := e.Prompter.Text(ctx, "Diary entry", "What happened?")
		if errors.Is(err, ui.ErrCancelled) {
			r.aborted = true
			r.message = "Diary entry cancelled."
			return nil
		}
		if err != nil {
			return err
		}
		input = text
	}
	if strings.TrimSpace(input) == "" {
		r.message = "Nothing to write."
		e.Console.Info("%s", r.message)
		return nil
	}

	entry, level := FormatDiaryEntry(input, r.rc.Options.Task)
	tags := storage.ExtractTags(entry)
	if e.Tags != nil && len(tags) > 0 {
		if err := e.Tags.Merge(tags); err != nil {
			r.logger.Warn("failed to update tag index", zap.Error(err))
		}
	}

	full, err := e.Vault.AppendToDailyNote(r.rc.Date, entry, tags, level > 0)
	if err != nil {
		return apperrors.StorageError("append diary entry", err)
	}
	r.file = models.FileInfo{RelativePath: storage.DailyNotePath(r.rc.Date), FullPath: full}
	r.logger.Debug("diary entry written", zap.Int("header_level", level), zap.Strings("tags", tags))

	r.message = fmt.Sprintf("Added to %s", r.file.RelativePath)
	e.Console.Success("%s", r.message)
	return nil
}
