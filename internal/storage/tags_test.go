package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("met #alice about #プロジェクト and #café, not a#tag? #task")
	assert.Equal(t, []string{"alice", "プロジェクト", "café", "tag", "task"}, tags)
	assert.Empty(t, ExtractTags("no tags here"))
}

func TestTagIndexMerge(t *testing.T) {
	root := t.TempDir()
	idx := NewTagIndex(root)

	created, err := idx.Initialize()
	require.NoError(t, err)
	assert.True(t, created)

	created, err = idx.Initialize()
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, idx.Merge([]string{"work", "ideas", "work"}))
	assert.Equal(t, []string{"work", "ideas"}, idx.All())

	reloaded := NewTagIndex(root)
	assert.True(t, reloaded.Contains("ideas"))
	assert.False(t, reloaded.Contains("missing"))
}

func TestTagIndexMergeWithoutNewTagsDoesNotWrite(t *testing.T) {
	root := t.TempDir()
	idx := NewTagIndex(root)
	require.NoError(t, idx.Merge([]string{"a"}))

	path := filepath.Join(root, PromptsRoot, "tags.json")
	require.NoError(t, os.WriteFile(path, []byte(`["a"]`), 0644))
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, idx.Merge([]string{"a"}))
	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, before.Size(), after.Size())
}

func TestTagIndexCorruptedFileIsEmpty(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, PromptsRoot, "tags.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	idx := NewTagIndex(root)
	require.NoError(t, idx.Load())
	assert.Empty(t, idx.All())
}

func TestTagIndexUnreadableFileIsNotOverwritten(t *testing.T) {
	root := t.TempDir()
	// A directory in place of the file makes every read fail.
	path := filepath.Join(root, PromptsRoot, tagsIndexFile)
	require.NoError(t, os.MkdirAll(path, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0644))

	idx := NewTagIndex(root)
	assert.False(t, idx.Contains("golang"))
	assert.Nil(t, idx.All())

	err := idx.Merge([]string{"golang"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read tags index")
	assert.DirExists(t, path)
	assert.FileExists(t, filepath.Join(path, "keep"))
}
