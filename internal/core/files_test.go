package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryotapoi/reimport/internal/testutil"
)

func TestCollectSourceFiles(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"src/b.ts":                  "",
		"src/a.tsx":                 "",
		"src/c.JS":                  "",
		"src/styles.css":            "",
		"src/data.json":             "{}",
		"src/generated/api.ts":      "",
		"node_modules/pkg/index.js": "",
		".git/hooks/x.js":           "",
		".reimport/leftover.ts":     "",
		"scripts/build.mjs":         "",
	})

	files, err := CollectSourceFiles(root, Config{Exclude: []string{"src/generated/*"}})
	require.NoError(t, err)
	p := func(rel string) string { return filepath.Join(root, filepath.FromSlash(rel)) }
	assert.Equal(t, []string{
		p("scripts/build.mjs"),
		p("src/a.tsx"),
		p("src/b.ts"),
		p("src/c.JS"),
	}, files)
}

func TestCollectSourceFiles_ConfiguredExtensions(t *testing.T) {
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"a.ts":  "",
		"b.vue": "",
		"c.js":  "",
	})

	files, err := CollectSourceFiles(root, Config{Extensions: []string{"ts", ".vue"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.ts"), filepath.Join(root, "b.vue")}, files)
}
