package code_analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestResolver(root string) *Resolver {
	return NewResolver(ResolutionConfig{BaseDir: root})
}

func TestResolver_RelativeFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, "b.ts"), "")

	resolver := newTestResolver(root)

	resolved, ok := resolver.Resolve("./b", filepath.Join(root, "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "b.ts"), resolved)
}

// With both variants on disk, the first extension in priority order wins,
// every time.
func TestResolver_ExtensionPriorityDeterminism(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, "b.ts"), "")
	writeFile(t, filepath.Join(root, "b.js"), "")

	resolver := newTestResolver(root)

	for i := 0; i < 10; i++ {
		resolved, ok := resolver.Resolve("./b", filepath.Join(root, "a.ts"))
		require.True(t, ok)
		assert.Equal(t, filepath.Join(root, "b.ts"), resolved)
	}
}

func TestResolver_ExactFileWithExtension(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, "b.ts"), "")

	resolved, ok := newTestResolver(root).Resolve("./b.ts", filepath.Join(root, "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "b.ts"), resolved)
}

func TestResolver_DirectoryIndexFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, "utils", "index.ts"), "")

	resolved, ok := newTestResolver(root).Resolve("./utils", filepath.Join(root, "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "utils", "index.ts"), resolved)
}

func TestResolver_ParentRelative(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "shared.ts"), "")
	writeFile(t, filepath.Join(root, "src", "a.ts"), "")

	resolved, ok := newTestResolver(root).Resolve("../shared", filepath.Join(root, "src", "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "shared.ts"), resolved)
}

// Bare specifiers with no alias match never touch the filesystem.
func TestResolver_BareSpecifierUnresolved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")

	_, ok := newTestResolver(root).Resolve("lodash", filepath.Join(root, "a.ts"))
	assert.False(t, ok)
}

func TestResolver_AliasExpansion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")
	writeFile(t, filepath.Join(root, "src", "utils.ts"), "")

	resolver := NewResolver(ResolutionConfig{
		BaseDir:    root,
		AliasTable: map[string][]string{"@app/*": {"src/*"}},
	})

	viaAlias, ok := resolver.Resolve("@app/utils", filepath.Join(root, "a.ts"))
	require.True(t, ok)

	viaRelative, ok := resolver.Resolve("./src/utils", filepath.Join(root, "a.ts"))
	require.True(t, ok)

	assert.Equal(t, viaRelative, viaAlias)
}

func TestResolver_AliasTemplateOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "lib", "utils.ts"), "")
	writeFile(t, filepath.Join(root, "src", "utils.ts"), "")

	resolver := NewResolver(ResolutionConfig{
		BaseDir:    root,
		AliasTable: map[string][]string{"@app/*": {"missing/*", "src/*", "lib/*"}},
	})

	resolved, ok := resolver.Resolve("@app/utils", filepath.Join(root, "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "src", "utils.ts"), resolved)
}

// Alias lookup is disabled inside an expansion, so a template producing
// another alias-shaped path cannot recurse.
func TestResolver_AliasExpansionNotRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "utils.ts"), "")

	resolver := NewResolver(ResolutionConfig{
		BaseDir:    root,
		AliasTable: map[string][]string{"@app/*": {"@app/*"}},
	})

	_, ok := resolver.Resolve("@app/utils", filepath.Join(root, "a.ts"))
	assert.False(t, ok)
}

func TestResolver_CustomExtensionPriority(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.ts"), "")
	writeFile(t, filepath.Join(root, "b.js"), "")

	resolver := NewResolver(ResolutionConfig{
		BaseDir:           root,
		ExtensionPriority: []string{".js", ".ts"},
	})

	resolved, ok := resolver.Resolve("./b", filepath.Join(root, "a.ts"))
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "b.js"), resolved)
}

func TestResolver_MissingTargetUnresolved(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.ts"), "")

	_, ok := newTestResolver(root).Resolve("./missing", filepath.Join(root, "a.ts"))
	assert.False(t, ok)
}

func TestDefaultExtensionPriorityOrder(t *testing.T) {
	assert.Equal(t, []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}, DefaultExtensionPriority)
}
