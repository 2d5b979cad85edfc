package storage

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dpshade/vaultforge/internal/models"
	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminatedFrontmatter is returned when a document opens a frontmatter
// block but never closes it.
var ErrUnterminatedFrontmatter = errors.New("frontmatter is not terminated by ---")

// SplitFrontmatter separates a markdown document into its YAML header and
// body. ok is false when the document has no frontmatter, in which case body
// is the whole document. The body is returned exactly as stored.
func SplitFrontmatter(content string) (front, body string, ok bool, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if content != delimiter && !strings.HasPrefix(content, delimiter+"\n") {
		return "", content, false, nil
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(content, delimiter), "\n")
	if rest == delimiter || strings.HasPrefix(rest, delimiter+"\n") {
		return "", strings.TrimPrefix(strings.TrimPrefix(rest, delimiter), "\n"), true, nil
	}

	if idx := strings.Index(rest, "\n"+delimiter+"\n"); idx >= 0 {
		return rest[:idx], rest[idx+len(delimiter)+2:], true, nil
	}
	if strings.HasSuffix(rest, "\n"+delimiter) {
		return strings.TrimSuffix(rest, "\n"+delimiter), "", true, nil
	}
	return "", "", false, ErrUnterminatedFrontmatter
}

// ParsePromptDocument parses a prompt file. The body is trimmed; length is
// not validated here.
func ParsePromptDocument(content []byte) (*models.PromptDocument, error) {
	front, body, _, err := SplitFrontmatter(string(content))
	if err != nil {
		return nil, err
	}

	doc := &models.PromptDocument{}
	if strings.TrimSpace(front) != "" {
		if err := yaml.Unmarshal([]byte(front), &doc.Frontmatter); err != nil {
			return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}
	doc.Content = strings.TrimSpace(body)
	return doc, nil
}

// SerializePromptDocument writes the canonical form of a prompt document:
// frontmatter, a blank line, then the body with a trailing newline.
func SerializePromptDocument(doc *models.PromptDocument) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")

	fm := doc.Frontmatter
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&fm); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode frontmatter: %w", err)
	}

	buf.WriteString(delimiter + "\n")
	if content := strings.TrimSpace(doc.Content); content != "" {
		buf.WriteString("\n")
		buf.WriteString(content)
		buf.WriteString("\n")
	}
	return buf.Bytes(), nil
}

// MergeFrontmatterTags adds tags to the document's frontmatter tags list,
// keeping every other key, its order and the body untouched. A document
// without frontmatter gets one.
func MergeFrontmatterTags(content string, tags []string) (string, error) {
	if len(tags) == 0 {
		return content, nil
	}

	front, body, ok, err := SplitFrontmatter(content)
	if err != nil {
		return "", err
	}

	var doc yaml.Node
	if ok && strings.TrimSpace(front) != "" {
		if err := yaml.Unmarshal([]byte(front), &doc); err != nil {
			return "", fmt.Errorf("failed to parse frontmatter: %w", err)
		}
	}
	if doc.Kind == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return "", fmt.Errorf("frontmatter is not a mapping")
	}

	var existing []string
	var valueNode *yaml.Node
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == "tags" {
			valueNode = mapping.Content[i+1]
			break
		}
	}
	if valueNode != nil {
		switch valueNode.Kind {
		case yaml.SequenceNode:
			for _, item := range valueNode.Content {
				existing = append(existing, item.Value)
			}
		case yaml.ScalarNode:
			if valueNode.Value != "" && valueNode.Tag != "!!null" {
				existing = []string{valueNode.Value}
			}
		}
	} else {
		valueNode = &yaml.Node{}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "tags"}, valueNode)
	}

	merged := existing
	for _, tag := range tags {
		if tag != "" && !slices.Contains(merged, tag) {
			merged = append(merged, tag)
		}
	}

	*valueNode = yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
	for _, tag := range merged {
		valueNode.Content = append(valueNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag})
	}

	var buf bytes.Buffer
	buf.WriteString(delimiter + "\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&doc); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("failed to encode frontmatter: %w", err)
	}
	buf.WriteString(delimiter + "\n")
	buf.WriteString(body)
	return buf.String(), nil
}
