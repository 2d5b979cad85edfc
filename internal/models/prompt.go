package models

import (
	"slices"
	"strings"
	"unicode/utf8"
)

// MinPromptLength is the shortest prompt body, in runes after trimming,
// that a prompt document may carry.
const MinPromptLength = 10

// OutputMode controls how an AI response is delivered to the terminal.
type OutputMode string

const (
	OutputNormal     OutputMode = "normal"
	OutputStream     OutputMode = "stream"
	OutputBackground OutputMode = "background"
)

// ParseOutputMode returns the output mode named by s, or false when s is
// empty or not one of normal, stream, background.
func ParseOutputMode(s string) (OutputMode, bool) {
	switch OutputMode(strings.ToLower(strings.TrimSpace(s))) {
	case OutputNormal:
		return OutputNormal, true
	case OutputStream:
		return OutputStream, true
	case OutputBackground:
		return OutputBackground, true
	}
	return "", false
}

// Frontmatter is the YAML header of a prompt document. Keys vf does not
// know about are kept in Extra and written back unchanged.
type Frontmatter struct {
	Description string                 `yaml:"description,omitempty"`
	Version     string                 `yaml:"version,omitempty"`
	Tags        []string               `yaml:"tags"`
	AIProvider  string                 `yaml:"aiProvider"`
	Model       string                 `yaml:"model"`
	OutputMode  string                 `yaml:"outputMode,omitempty"`
	Extra       map[string]interface{} `yaml:",inline"`
}

// PromptDocument is a per-mode system prompt stored in the vault as
// markdown with YAML frontmatter.
type PromptDocument struct {
	Frontmatter

	Content  string `yaml:"-"` // body after the frontmatter, trimmed
	FilePath string `yaml:"-"` // absolute path of the backing file
}

// Valid reports whether the body satisfies the minimum length.
func (p *PromptDocument) Valid() bool {
	return utf8.RuneCountInString(strings.TrimSpace(p.Content)) >= MinPromptLength
}

// PreferredOutput returns the output mode named in the frontmatter.
func (p *PromptDocument) PreferredOutput() (OutputMode, bool) {
	return ParseOutputMode(p.OutputMode)
}

// AddTags appends tags not already present, preserving order.
func (f *Frontmatter) AddTags(tags ...string) {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || slices.Contains(f.Tags, tag) {
			continue
		}
		f.Tags = append(f.Tags, tag)
	}
}
