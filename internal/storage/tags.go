package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"sync"
)

const tagsIndexFile = "tags.json"

// hashtagPattern matches #tags in Latin-1, kana and CJK text.
var hashtagPattern = regexp.MustCompile(`#[\w\x{00C0}-\x{00FF}\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}\x{3400}-\x{4DBF}]+`)

// ExtractTags returns the hashtags in text without the leading '#', in order
// of appearance.
func ExtractTags(text string) []string {
	matches := hashtagPattern.FindAllString(text, -1)
	tags := make([]string, 0, len(matches))
	for _, m := range matches {
		tags = append(tags, m[1:])
	}
	return tags
}

// TagIndex is the vault-wide list of known tags kept in
// _AI_Prompts/tags.json.
type TagIndex struct {
	filePath string
	tags     []string
	loaded   bool
	mu       sync.RWMutex
}

// NewTagIndex creates a tag index for the vault rooted at vaultRoot.
func NewTagIndex(vaultRoot string) *TagIndex {
	return &TagIndex{
		filePath: filepath.Join(vaultRoot, PromptsRoot, tagsIndexFile),
	}
}

// Initialize creates an empty index when none exists. It reports whether a
// file was created.
func (c *TagIndex) Initialize() (bool, error) {
	if _, err := os.Stat(c.filePath); err == nil {
		return false, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = []string{}
	c.loaded = true
	if err := c.save(); err != nil {
		return false, err
	}
	return true, nil
}

// Load reads the index from disk. A missing file is an empty index; a
// corrupted one is treated as empty and rewritten on the next Merge. A read
// failure leaves the index unloaded so Merge cannot overwrite the file.
func (c *TagIndex) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.filePath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		c.tags = nil
		c.loaded = false
		return fmt.Errorf("failed to read tags index: %w", err)
	}

	c.tags = []string{}
	c.loaded = true
	if err != nil {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return nil
	}
	c.tags = tags
	return nil
}

// All returns a copy of the known tags, none when the index is unreadable.
func (c *TagIndex) All() []string {
	if c.ensureLoaded() != nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tags)
}

// Contains reports whether tag is known. An unreadable index knows no tags.
func (c *TagIndex) Contains(tag string) bool {
	if c.ensureLoaded() != nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.tags, tag)
}

// Merge adds new tags and persists the index. Nothing is written when no tag
// is new.
func (c *TagIndex) Merge(tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	if err := c.ensureLoaded(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	changed := false
	for _, tag := range tags {
		if tag != "" && !slices.Contains(c.tags, tag) {
			c.tags = append(c.tags, tag)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return c.save()
}

func (c *TagIndex) ensureLoaded() error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}
	return c.Load()
}

// save must be called with the lock held.
func (c *TagIndex) save() error {
	data, err := json.MarshalIndent(c.tags, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tags index: %w", err)
	}
	if err := WriteFileAtomic(c.filePath, data, 0644); err != nil {
		return fmt.Errorf("failed to write tags index: %w", err)
	}
	return nil
}
