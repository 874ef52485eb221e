package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/ryotapoi/reimport/internal/logging"
)

// RewrittenImport is one specifier replaced in a file.
type RewrittenImport struct {
	File         string `json:"file"`
	OldSpecifier string `json:"old"`
	NewSpecifier string `json:"new"`
}

// UnresolvedImport is a specifier that could not be resolved to a file.
type UnresolvedImport struct {
	File      string `json:"file"`
	Specifier string `json:"specifier"`
}

// FileResult reports the processing of one file.
type FileResult struct {
	Path       string
	NewPath    string // where the file lives after restructuring
	Rewritten  []RewrittenImport
	Unresolved []string
	Changed    bool // written, or would be written in dry-run mode
	Err        error
}

// RunResult collects the per-file results of a batch, in processing order.
type RunResult struct {
	Files []FileResult
}

// Rewritten returns every replaced specifier of the run.
func (r *RunResult) Rewritten() []RewrittenImport {
	var out []RewrittenImport
	for _, f := range r.Files {
		out = append(out, f.Rewritten...)
	}
	return out
}

// Unresolved returns every specifier that could not be resolved.
func (r *RunResult) Unresolved() []UnresolvedImport {
	var out []UnresolvedImport
	for _, f := range r.Files {
		for _, spec := range f.Unresolved {
			out = append(out, UnresolvedImport{File: f.Path, Specifier: spec})
		}
	}
	return out
}

// Changed returns the files whose text changed.
func (r *RunResult) Changed() []string {
	var out []string
	for _, f := range r.Files {
		if f.Changed {
			out = append(out, f.Path)
		}
	}
	return out
}

// Failed returns the files that could not be read or written.
func (r *RunResult) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Rewriter fixes relative imports of files against a set of relocation tables.
// Nil Finder, Resolver and Logger fall back to Scanner, FSResolver and a discarding logger.
// With a Journal, original contents are recorded before any write.
type Rewriter struct {
	Tables   []RelocationTable
	Finder   ImportFinder
	Resolver SpecifierResolver
	Logger   *slog.Logger
	Journal  *Journal
	DryRun   bool
}

func (rw *Rewriter) finder() ImportFinder {
	if rw.Finder == nil {
		return Scanner{}
	}
	return rw.Finder
}

func (rw *Rewriter) resolver() SpecifierResolver {
	if rw.Resolver == nil {
		return FSResolver{}
	}
	return rw.Resolver
}

func (rw *Rewriter) logger() *slog.Logger {
	if rw.Logger == nil {
		return logging.Discard()
	}
	return rw.Logger
}

// Run rewrites the imports of every file in order. A failure in one file
// never stops the others; it is logged and reported in the result.
func (rw *Rewriter) Run(filePaths []string) *RunResult {
	result := &RunResult{Files: make([]FileResult, 0, len(filePaths))}
	for _, p := range filePaths {
		result.Files = append(result.Files, rw.RewriteImports(p))
	}
	return result
}

// RewriteImports recomputes the relative imports of filePath as seen from the
// file's new location and patches them in place. The file is read once and
// written at most once, only when its text changed.
func (rw *Rewriter) RewriteImports(filePath string) FileResult {
	log := rw.logger().With("file", filePath)
	res := FileResult{Path: filePath, NewPath: filePath}
	log.Debug("checking imports")

	info, err := os.Stat(filePath)
	if err != nil {
		res.Err = err
		log.Error("cannot read file", "error", err)
		return res
	}
	content, err := os.ReadFile(filePath)
	if err != nil {
		res.Err = err
		log.Error("cannot read file", "error", err)
		return res
	}
	original := string(content)

	refs := rw.finder().FindImports(filePath, original)
	if len(refs) == 0 {
		log.Debug("no import found")
		return res
	}
	// Splice offsets are only valid when applied front to back.
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Start < refs[j].Start })

	baseDir := filepath.Dir(filePath)
	newFilePath, fileMoved := Moved(filePath, rw.Tables)
	res.NewPath = newFilePath

	text := original
	delta := 0   // length change of all splices so far
	lastEnd := 0 // end of the last applied span, original offsets
	for _, ref := range refs {
		absImportPath, ok := rw.resolver().Resolve(ref.Specifier, baseDir)
		if !ok {
			log.Error("cannot find import", "specifier", ref.Specifier, "dir", baseDir)
			res.Unresolved = append(res.Unresolved, ref.Specifier)
			continue
		}

		target, targetMoved := Moved(absImportPath, rw.Tables)
		if !fileMoved && !targetMoved {
			continue
		}
		newSpecifier := styleLike(newFilePath, target, ref.Specifier, absImportPath)
		if newSpecifier == ref.Specifier {
			continue
		}

		start, end := ref.Start+delta, ref.End+delta
		if ref.Start < lastEnd || start < 0 || start > end || end > len(text) || text[start:end] != ref.Specifier {
			log.Error("import span does not match file text", "specifier", ref.Specifier, "start", ref.Start, "end", ref.End)
			continue
		}

		log.Debug("replacing import", "old", ref.Specifier, "new", newSpecifier)
		text = text[:start] + newSpecifier + text[end:]
		delta += len(newSpecifier) - len(ref.Specifier)
		lastEnd = ref.End
		res.Rewritten = append(res.Rewritten, RewrittenImport{
			File:         filePath,
			OldSpecifier: ref.Specifier,
			NewSpecifier: newSpecifier,
		})
	}

	if text == original {
		return res
	}
	if rw.DryRun {
		res.Changed = true
		log.Debug("dry run, not writing new imports")
		return res
	}

	perm := info.Mode().Perm()
	if rw.Journal != nil {
		if err := rw.Journal.RecordRewrite(filePath, content, perm); err != nil {
			res.Err = fmt.Errorf("journal: %w", err)
			log.Error("cannot journal file, leaving it untouched", "error", err)
			return res
		}
	}
	log.Debug("writing new imports")
	if err := writeFilePreservePerm(filePath, []byte(text), perm); err != nil {
		res.Err = err
		log.Error("cannot write file", "error", err)
		return res
	}
	res.Changed = true
	return res
}

// writeFilePreservePerm writes data to path with the given permission bits.
// os.WriteFile applies umask on file creation, so os.Chmod is called to
// ensure the exact permission bits are set.
func writeFilePreservePerm(path string, data []byte, perm os.FileMode) error {
	if err := os.WriteFile(path, data, perm); err != nil {
		return err
	}
	return os.Chmod(path, perm)
}
