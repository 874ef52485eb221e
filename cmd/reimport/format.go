package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ryotapoi/reimport/internal/core"
)

// validateFormat checks that format is "json" or "text".
func validateFormat(format string) error {
	if format != "json" && format != "text" {
		return fmt.Errorf("invalid format: %q (must be json or text)", format)
	}
	return nil
}

// displayPath shows p relative to root in slash form, or as is when outside root.
func displayPath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return p
	}
	return rel
}

// --- Apply output ---

type applyJSONOutput struct {
	RunID      string                  `json:"run_id,omitempty"`
	DryRun     bool                    `json:"dry_run"`
	Rewritten  []core.RewrittenImport  `json:"rewritten"`
	Unresolved []core.UnresolvedImport `json:"unresolved"`
	Moved      []core.FileMove         `json:"moved"`
	Failed     []jsonFailure           `json:"failed"`
}

type jsonFailure struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

func printApplyJSON(w io.Writer, root string, dryRun bool, r *core.ApplyResult) error {
	out := applyJSONOutput{
		RunID:      r.RunID,
		DryRun:     dryRun,
		Rewritten:  []core.RewrittenImport{},
		Unresolved: []core.UnresolvedImport{},
		Moved:      []core.FileMove{},
		Failed:     []jsonFailure{},
	}
	for _, ri := range r.Run.Rewritten() {
		ri.File = displayPath(root, ri.File)
		out.Rewritten = append(out.Rewritten, ri)
	}
	for _, u := range r.Run.Unresolved() {
		u.File = displayPath(root, u.File)
		out.Unresolved = append(out.Unresolved, u)
	}
	for _, m := range r.Moved {
		out.Moved = append(out.Moved, core.FileMove{From: displayPath(root, m.From), To: displayPath(root, m.To)})
	}
	for _, f := range r.Run.Failed() {
		out.Failed = append(out.Failed, jsonFailure{File: displayPath(root, f.Path), Error: f.Err.Error()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printApplyText(w io.Writer, root string, dryRun bool, r *core.ApplyResult) {
	if dryRun {
		fmt.Fprintln(w, "dry_run: true")
	}
	if r.RunID != "" {
		fmt.Fprintf(w, "run: %s\n", r.RunID)
	}
	fmt.Fprintln(w, "rewritten:")
	for _, ri := range r.Run.Rewritten() {
		fmt.Fprintf(w, "- %s: %s -> %s\n", displayPath(root, ri.File), ri.OldSpecifier, ri.NewSpecifier)
	}
	if unresolved := r.Run.Unresolved(); len(unresolved) > 0 {
		fmt.Fprintln(w, "unresolved:")
		for _, u := range unresolved {
			fmt.Fprintf(w, "- %s: %s\n", displayPath(root, u.File), u.Specifier)
		}
	}
	if len(r.Moved) > 0 {
		fmt.Fprintln(w, "moved:")
		for _, m := range r.Moved {
			fmt.Fprintf(w, "- %s -> %s\n", displayPath(root, m.From), displayPath(root, m.To))
		}
	}
	if failed := r.Run.Failed(); len(failed) > 0 {
		fmt.Fprintln(w, "failed:")
		for _, f := range failed {
			fmt.Fprintf(w, "- %s: %v\n", displayPath(root, f.Path), f.Err)
		}
	}
}

// --- Undo output ---

type undoJSONOutput struct {
	RunID     string          `json:"run_id"`
	MovedBack []core.FileMove `json:"moved_back"`
	Restored  []string        `json:"restored"`
}

func printUndoJSON(w io.Writer, root string, r *core.UndoResult) error {
	out := undoJSONOutput{RunID: r.RunID, MovedBack: []core.FileMove{}, Restored: []string{}}
	for _, m := range r.MovedBack {
		out.MovedBack = append(out.MovedBack, core.FileMove{From: displayPath(root, m.From), To: displayPath(root, m.To)})
	}
	for _, p := range r.Restored {
		out.Restored = append(out.Restored, displayPath(root, p))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func printUndoText(w io.Writer, root string, r *core.UndoResult) {
	fmt.Fprintf(w, "run: %s\n", r.RunID)
	fmt.Fprintln(w, "moved_back:")
	for _, m := range r.MovedBack {
		fmt.Fprintf(w, "- %s -> %s\n", displayPath(root, m.To), displayPath(root, m.From))
	}
	fmt.Fprintln(w, "restored:")
	for _, p := range r.Restored {
		fmt.Fprintf(w, "- %s\n", displayPath(root, p))
	}
}
