package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryotapoi/reimport/internal/core"
	"github.com/ryotapoi/reimport/internal/logging"
	"github.com/ryotapoi/reimport/internal/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCommand(logging.Discard(), &out)
	cmd.ErrWriter = io.Discard
	err := cmd.Run(context.Background(), append([]string{"reimport"}, args...))
	return out.String(), err
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		core.ConfigFileName: "roots:\n  - parent: src\n    tree:\n      b.ts: lib/b.ts\n",
		"src/a.ts":          "import { b } from \"./b\";\n",
		"src/b.ts":          "export const b = 1;\n",
	})
	return root
}

func TestRunApply_InvalidFormat(t *testing.T) {
	_, err := run(t, "apply", "--root", t.TempDir(), "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestRunApply_TextThenUndo(t *testing.T) {
	root := writeProject(t)

	out, err := run(t, "apply", "--root", root, "--move")
	require.NoError(t, err)
	assert.Contains(t, out, "- src/a.ts: ./b -> ./lib/b\n")
	assert.Contains(t, out, "- src/b.ts -> src/lib/b.ts\n")
	assert.Equal(t, "import { b } from \"./lib/b\";\n", testutil.ReadFile(t, root, "src/a.ts"))

	out, err = run(t, "undo", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "- src/a.ts\n")
	assert.Equal(t, "import { b } from \"./b\";\n", testutil.ReadFile(t, root, "src/a.ts"))
	assert.FileExists(t, filepath.Join(root, "src", "b.ts"))

	_, err = run(t, "undo", "--root", root)
	assert.ErrorIs(t, err, core.ErrNothingToUndo)
}

func TestRunApply_JSONDryRun(t *testing.T) {
	root := writeProject(t)

	out, err := run(t, "apply", "--root", root, "--dry-run", "--format", "json")
	require.NoError(t, err)

	var got struct {
		RunID     string                 `json:"run_id"`
		DryRun    bool                   `json:"dry_run"`
		Rewritten []core.RewrittenImport `json:"rewritten"`
		Failed    []jsonFailure          `json:"failed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.DryRun)
	assert.Empty(t, got.RunID)
	assert.Equal(t, []core.RewrittenImport{{File: "src/a.ts", OldSpecifier: "./b", NewSpecifier: "./lib/b"}}, got.Rewritten)
	assert.Empty(t, got.Failed)
	assert.Equal(t, "import { b } from \"./b\";\n", testutil.ReadFile(t, root, "src/a.ts"))
}

func TestRunApply_FailedFileIsAnError(t *testing.T) {
	root := writeProject(t)
	out, err := run(t, "apply", "--root", root, "--no-journal", "src/missing.ts", "src/a.ts")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 file(s)")
	assert.Contains(t, out, "failed:\n- src/missing.ts:")
	assert.Equal(t, "import { b } from \"./lib/b\";\n", testutil.ReadFile(t, root, "src/a.ts"))
}

func TestRunLocate(t *testing.T) {
	root := writeProject(t)

	out, err := run(t, "locate", "--root", root, "src/b.ts")
	require.NoError(t, err)
	assert.Equal(t, "src/lib/b.ts\n", out)

	out, err = run(t, "locate", "--root", root, "src/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "src/a.ts\n", out)
}

func TestRunLocate_NeedsOnePath(t *testing.T) {
	_, err := run(t, "locate", "--root", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one path")
}

func TestRunFormat(t *testing.T) {
	out, err := run(t, "format", "/src/moved/a.ts", "/src/lib/b.ts")
	require.NoError(t, err)
	assert.Equal(t, "../lib/b\n", out)

	_, err = run(t, "format", "/src/a.ts")
	require.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "reimport version")
}
