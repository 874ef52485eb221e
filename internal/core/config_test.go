package core

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryotapoi/reimport/internal/testutil"
)

func TestLoadConfig_NotFound(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, cfg.Roots)
	assert.Empty(t, cfg.Exclude)
	assert.Equal(t, DefaultSourceExtensions, cfg.SourceExtensions())
}

func TestLoadConfig_Valid(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{ConfigFileName: `roots:
  - parent: src
    tree:
      b.ts: lib/b.ts
      ./a.ts: moved/a.ts
  - parent: /abs/pkg
    tree:
      index.ts: src/index.ts
extensions: [ts, .TSX]
exclude:
  - "generated/*"
`})
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{".ts", ".tsx"}, cfg.SourceExtensions())
	assert.Equal(t, []string{"generated/*"}, cfg.Exclude)

	tables, err := cfg.RelocationTables(dir)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Equal(t, filepath.Join(dir, "src"), tables[0].ParentFolder)
	assert.Equal(t, map[string]string{"b.ts": "lib/b.ts", "a.ts": "moved/a.ts"}, tables[0].Tree)
	assert.Equal(t, filepath.Clean("/abs/pkg"), tables[1].ParentFolder)
	assert.Equal(t, map[string]string{"index.ts": "src/index.ts"}, tables[1].Tree)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{ConfigFileName: ":::invalid"})
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ConfigFileName)
}

func TestLoadConfig_Empty(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{ConfigFileName: ""})
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	tables, err := cfg.RelocationTables(dir)
	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestLoadConfig_BracketPatternError(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{ConfigFileName: "exclude:\n  - \"gen/[ab]*\"\n"})
	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "character class")
}

func TestRelocationTables_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing parent",
			yaml:    "roots:\n  - tree:\n      a.ts: b.ts\n",
			wantErr: "parent is required",
		},
		{
			name:    "duplicate after normalization",
			yaml:    "roots:\n  - parent: src\n    tree:\n      a.ts: x/a.ts\n      ./a.ts: y/a.ts\n",
			wantErr: "duplicate tree key a.ts",
		},
		{
			name:    "tree is a list",
			yaml:    "roots:\n  - parent: src\n    tree:\n      - a.ts\n",
			wantErr: "tree must be a mapping",
		},
		{
			name:    "nested value",
			yaml:    "roots:\n  - parent: src\n    tree:\n      a.ts:\n        b: c\n",
			wantErr: "tree entries must be path: path",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			testutil.WriteTree(t, dir, map[string]string{ConfigFileName: tt.yaml})
			cfg, err := LoadConfig(dir)
			require.NoError(t, err)
			_, err = cfg.RelocationTables(dir)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRelocationTables_PreservesPlanOrder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{ConfigFileName: `roots:
  - parent: src
    tree:
      b.ts: first/b.ts
  - parent: src
    tree:
      b.ts: second/b.ts
`})
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	tables, err := cfg.RelocationTables(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "src", "first", "b.ts"), Locate(filepath.Join(dir, "src", "b.ts"), tables))
}

func TestGlobMatch(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"generated/*", "generated/api.ts", true},
		{"generated/*", "generated/sub/x.ts", true},
		{"generated/*", "src/x.ts", false},
		{"generated/*", "Generated/api.ts", false}, // case-sensitive
		{"*", "anything", true},
		{"*", "", true},
		{"?", "a", true},
		{"?", "", false},
		{"?", "ab", false},
		{"a*b", "ab", true},
		{"a*b", "axyzb", true},
		{"a*b", "axyzc", false},
		{"*.d.ts", "types.d.ts", true},
		{"*.d.ts", "dir/types.d.ts", true},
		{"exact", "exact", true},
		{"exact", "exactx", false},
		{"exact", "xexact", false},
		{"[literal", "[literal", true}, // '[' treated as literal
		{"a?c", "abc", true},
		{"a?c", "ac", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.s, func(t *testing.T) {
			assert.Equal(t, tt.want, globMatch(tt.pattern, tt.s), "globMatch(%q, %q)", tt.pattern, tt.s)
		})
	}
}
