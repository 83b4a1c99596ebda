package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsDefaultIgnored(t *testing.T) {
	assert.True(t, IsDefaultIgnored("node_modules/lodash/index.js"))
	assert.True(t, IsDefaultIgnored(".git/HEAD"))
	assert.True(t, IsDefaultIgnored("dist/bundle.js"))
	assert.True(t, IsDefaultIgnored("src/vendor.min.js"))
	assert.True(t, IsDefaultIgnored("src/types.d.ts"))
	assert.True(t, IsDefaultIgnored(".depscope/snapshot.json"))

	assert.False(t, IsDefaultIgnored("src/app.ts"))
	assert.False(t, IsDefaultIgnored("lib/utils.js"))
}

func TestGetIgnorePatterns(t *testing.T) {
	root := t.TempDir()

	// No ignore file yet: empty patterns, no error.
	patterns, err := GetIgnorePatterns(root)
	require.NoError(t, err)
	assert.Empty(t, patterns)

	content := "# generated output\ngenerated/*.ts\n\nlegacy.js\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".depscope-ignore"), []byte(content), 0644))

	ClearIgnoreCache()

	patterns, err = GetIgnorePatterns(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"generated/*.ts", "legacy.js"}, patterns)
}

func TestIsIgnored(t *testing.T) {
	patterns := []string{"generated/*.ts", "legacy.js", "fixtures/"}

	assert.True(t, IsIgnored("generated/api.ts", patterns))
	assert.True(t, IsIgnored("legacy.js", patterns))
	assert.True(t, IsIgnored("fixtures/sample.ts", patterns))

	assert.False(t, IsIgnored("src/app.ts", patterns))
	assert.False(t, IsIgnored("generated/nested/deep.ts", patterns))
}
