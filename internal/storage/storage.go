package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dpshade/vaultforge/internal/models"
)

// Vault-relative locations vf writes to.
const (
	PromptsRoot   = "_AI_Prompts"
	InboxDir      = "Inbox"
	DailyDir      = "Daily"
	TokenUsageDir = "_AI_Prompts/TokenUsage"
)

// Section headers used in run artifacts.
const (
	OriginalDataHeader = "## Original Data"
	AnalysisHeader     = "## AI Analysis"
	XPostHeader        = "## X Post Candidates"
	XPostSuccessHeader = "## Posted to X"
	XPostFailHeader    = "## X Post Failed"
)

// Vault reads and writes markdown notes below a vault root.
type Vault struct {
	rootPath string
	logger   *zap.Logger
}

// NewVault creates a new vault rooted at rootPath
func NewVault(rootPath string, logger *zap.Logger) (*Vault, error) {
	if rootPath == "" {
		return nil, fmt.Errorf("vault path is empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Vault{
		rootPath: rootPath,
		logger:   logger.Named("vault"),
	}, nil
}

// Root returns the vault's root path
func (v *Vault) Root() string {
	return v.rootPath
}

// Path resolves a vault-relative path.
func (v *Vault) Path(relativePath string) string {
	return filepath.Join(v.rootPath, relativePath)
}

// Exists reports whether the note exists.
func (v *Vault) Exists(relativePath string) bool {
	_, err := os.Stat(v.Path(relativePath))
	return err == nil
}

// CreateNote writes a note, creating parent directories. It returns the
// absolute path.
func (v *Vault) CreateNote(relativePath, content string) (string, error) {
	fullPath := v.Path(relativePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write note: %w", err)
	}
	v.logger.Debug("note written", zap.String("path", relativePath), zap.Int("bytes", len(content)))
	return fullPath, nil
}

// ReadNote returns the contents of a note.
func (v *Vault) ReadNote(relativePath string) (string, error) {
	data, err := os.ReadFile(v.Path(relativePath))
	if err != nil {
		return "", fmt.Errorf("failed to read note: %w", err)
	}
	return string(data), nil
}

// AppendNote appends content to an existing note.
func (v *Vault) AppendNote(relativePath, content string) error {
	f, err := os.OpenFile(v.Path(relativePath), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open note for append: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to append to note: %w", err)
	}
	v.logger.Debug("note appended", zap.String("path", relativePath), zap.Int("bytes", len(content)))
	return nil
}

// RunFileInfo returns the artifact location for a run started at date:
// Inbox/<mode>/<YYYY-MM-DD>/log_<HHMMSS>.md.
func (v *Vault) RunFileInfo(mode models.Mode, date time.Time) models.FileInfo {
	rel := filepath.Join(InboxDir, string(mode), date.Format("2006-01-02"),
		fmt.Sprintf("log_%s.md", date.Format("150405")))
	return models.FileInfo{RelativePath: rel, FullPath: v.Path(rel)}
}

// CreateInitialLog writes the run artifact holding the raw input.
func (v *Vault) CreateInitialLog(date time.Time, mode models.Mode, input, relativePath string) (string, error) {
	var b strings.Builder
	b.WriteString("---\n")
	fmt.Fprintf(&b, "date: %s\n", date.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "mode: %s\n", mode)
	b.WriteString("tags: [\"ai/output\", \"terminal/pipe\"]\n")
	b.WriteString("---\n\n")
	b.WriteString(OriginalDataHeader + "\n")
	b.WriteString("```text\n")
	b.WriteString(input)
	b.WriteString("\n```\n\n---\n")

	return v.CreateNote(relativePath, b.String())
}

// AppendAnalysisResult appends a response under a section header.
func (v *Vault) AppendAnalysisResult(relativePath, response, header string) error {
	return v.AppendNote(relativePath, fmt.Sprintf("\n%s\n%s\n", header, response))
}

// DailyNotePath returns Daily/<YYYY-MM-DD>.md for t.
func DailyNotePath(t time.Time) string {
	return filepath.Join(DailyDir, t.Format("2006-01-02")+".md")
}

func dailyNoteTemplate(date string) string {
	return fmt.Sprintf("---\ndate: %s\ntags: [\"daily\"]\n---\n\n# %s\n", date, date)
}

// AppendToDailyNote appends a timestamped entry to the daily note for now,
// creating it from a template and merging tags into its frontmatter.
// Header entries are written as a paragraph followed by the time.
func (v *Vault) AppendToDailyNote(now time.Time, content string, tags []string, isHeader bool) (string, error) {
	rel := DailyNotePath(now)

	existing, err := v.ReadNote(rel)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		existing = dailyNoteTemplate(now.Format("2006-01-02"))
	}

	updated, err := MergeFrontmatterTags(existing, tags)
	if err != nil {
		return "", fmt.Errorf("failed to update daily note tags: %w", err)
	}

	clock := now.Format("15:04")
	if isHeader {
		updated += fmt.Sprintf("\n\n%s\n(%s)", content, clock)
	} else {
		updated += fmt.Sprintf("\n- **%s** %s", clock, content)
	}

	return v.CreateNote(rel, updated)
}

// BackupNote copies a note to <name>.<timestamp>.bak next to it and returns
// the backup's relative path.
func (v *Vault) BackupNote(relativePath string, now time.Time) (string, error) {
	data, err := os.ReadFile(v.Path(relativePath))
	if err != nil {
		return "", fmt.Errorf("failed to read note for backup: %w", err)
	}
	bak := fmt.Sprintf("%s.%s.bak", relativePath, now.Format("20060102-150405"))
	if err := os.WriteFile(v.Path(bak), data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}
	return bak, nil
}
