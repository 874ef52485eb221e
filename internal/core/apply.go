package core

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ryotapoi/reimport/internal/logging"
)

// ApplyOptions controls the apply operation.
type ApplyOptions struct {
	Files     []string // files to rewrite; empty means every source file under the root
	Move      bool     // carry out the relocations after rewriting
	DryRun    bool
	NoJournal bool
	Logger    *slog.Logger
}

// ApplyResult reports the outcome of the apply operation.
type ApplyResult struct {
	RunID string // empty when nothing was journaled
	Run   *RunResult
	Moved []FileMove
}

// Apply rewrites imports under root according to the reimport.yaml plan, then
// optionally performs the moves. Imports are patched first, at the files'
// current paths and anchored at their future paths; moves come second.
// Setup problems are returned as errors; per-file problems are in the result.
func Apply(root string, opts ApplyOptions) (*ApplyResult, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	cfg, err := LoadConfig(root)
	if err != nil {
		return nil, err
	}
	tables, err := cfg.RelocationTables(root)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}

	files := absPaths(root, opts.Files)
	if len(files) == 0 {
		files, err = CollectSourceFiles(root, cfg)
		if err != nil {
			return nil, err
		}
	}

	var moves []FileMove
	if opts.Move {
		moves = PlanMoves(tables)
		if err := ValidateMoves(moves); err != nil {
			return nil, err
		}
	}

	result := &ApplyResult{}
	var journal *Journal
	if !opts.DryRun && !opts.NoJournal {
		journal, err = OpenJournal(root)
		if err != nil {
			return nil, err
		}
		defer journal.Close()
	}

	logger.Info("rewriting imports", "files", len(files), "tables", len(tables))
	rw := &Rewriter{
		Tables:   tables,
		Resolver: FSResolver{},
		Logger:   logger,
		Journal:  journal,
		DryRun:   opts.DryRun,
	}
	result.Run = rw.Run(files)

	var moveErr error
	if opts.Move && !opts.DryRun {
		result.Moved, moveErr = MoveFiles(moves, journal, logger)
	} else if opts.Move {
		result.Moved = moves
	}
	// The run exists only once something was recorded.
	if journal != nil {
		result.RunID = journal.RunID()
	}
	if moveErr != nil {
		return result, fmt.Errorf("move files: %w", moveErr)
	}
	return result, nil
}
