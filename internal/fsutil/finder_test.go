package fsutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/jobgridgo/internal/testutil"
)

func TestFindFilesByExtension(t *testing.T) {
	t.Parallel()
	// --- Arrange ---
	dir := testutil.WriteFiles(t, map[string]string{
		"a.hcl":         "",
		"nested/b.hcl":  "",
		"nested/c.txt":  "",
		"deep/er/d.hcl": "",
		"notes.hcl.bak": "",
	})

	// --- Act ---
	files, err := FindFilesByExtension([]string{dir, filepath.Join(dir, "a.hcl"), filepath.Join(dir, "nested", "c.txt")}, ".hcl")

	// --- Assert ---
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.hcl"),
		filepath.Join(dir, "nested", "b.hcl"),
		filepath.Join(dir, "deep", "er", "d.hcl"),
	}, files)
}

func TestFindFilesByExtension_Errors(t *testing.T) {
	t.Parallel()

	_, err := FindFilesByExtension([]string{filepath.Join(t.TempDir(), "missing")}, ".hcl")
	assert.ErrorContains(t, err, "error accessing path")

	assert.PanicsWithValue(t, "extension must not be empty", func() {
		_, _ = FindFilesByExtension(nil, "")
	})
}
