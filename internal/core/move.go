package core

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ryotapoi/reimport/internal/logging"
)

// FileMove is one rename of the restructuring, absolute paths.
type FileMove struct {
	From string `json:"from"`
	To   string `json:"to"`

	parent string // table parent, upper bound for empty-directory cleanup
}

// PlanMoves lists the renames the tables describe, in table order and then key
// order. A file mapped by several tables moves where the first table says,
// matching Locate.
func PlanMoves(tables []RelocationTable) []FileMove {
	var moves []FileMove
	seen := make(map[string]bool)
	for _, t := range tables {
		keys := make([]string, 0, len(t.Tree))
		for k := range t.Tree {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			from := filepath.Join(t.ParentFolder, filepath.FromSlash(k))
			if seen[from] {
				continue
			}
			seen[from] = true
			to := filepath.Join(t.ParentFolder, filepath.FromSlash(t.Tree[k]))
			if from == to {
				continue
			}
			moves = append(moves, FileMove{From: from, To: to, parent: t.ParentFolder})
		}
	}
	return moves
}

// ValidateMoves checks that the moves can all be carried out, before anything
// on disk is touched.
func ValidateMoves(moves []FileMove) error {
	sources := make(map[string]bool, len(moves))
	for _, m := range moves {
		sources[m.From] = true
	}
	claimed := make(map[string]string, len(moves))
	for _, m := range moves {
		if !fileExists(m.From) {
			return fmt.Errorf("source file not found on disk: %s", m.From)
		}
		if other, ok := claimed[m.To]; ok {
			return fmt.Errorf("destination %s claimed by both %s and %s", m.To, other, m.From)
		}
		claimed[m.To] = m.From
		if info, err := os.Stat(m.To); err == nil {
			if info.IsDir() {
				return fmt.Errorf("destination is a directory: %s", m.To)
			}
			if !sources[m.To] {
				return fmt.Errorf("destination already exists on disk: %s", m.To)
			}
		}
	}
	_, err := orderMoves(moves)
	return err
}

// orderMoves sorts moves so that no rename targets a file that has not been
// moved away yet. Cycles cannot be ordered.
func orderMoves(moves []FileMove) ([]FileMove, error) {
	pendingSource := make(map[string]bool, len(moves))
	for _, m := range moves {
		pendingSource[m.From] = true
	}
	ordered := make([]FileMove, 0, len(moves))
	pending := moves
	for len(pending) > 0 {
		var rest []FileMove
		for _, m := range pending {
			if pendingSource[m.To] {
				rest = append(rest, m)
				continue
			}
			ordered = append(ordered, m)
			delete(pendingSource, m.From)
		}
		if len(rest) == len(pending) {
			names := make([]string, len(rest))
			for i, m := range rest {
				names[i] = m.From
			}
			return nil, fmt.Errorf("cyclic moves: %s", strings.Join(names, ", "))
		}
		pending = rest
	}
	return ordered, nil
}

// MoveFiles performs the moves, journaling each one, then removes directories
// the moves left empty. It stops at the first failure and returns the moves
// done so far.
func MoveFiles(moves []FileMove, journal *Journal, logger *slog.Logger) ([]FileMove, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	ordered, err := orderMoves(moves)
	if err != nil {
		return nil, err
	}
	var done []FileMove
	for _, m := range ordered {
		if err := os.MkdirAll(filepath.Dir(m.To), 0o755); err != nil {
			return done, err
		}
		if err := os.Rename(m.From, m.To); err != nil {
			return done, err
		}
		if journal != nil {
			if err := journal.RecordMove(m.From, m.To); err != nil {
				return done, fmt.Errorf("journal: %w", err)
			}
		}
		logger.Debug("moved file", "from", m.From, "to", m.To)
		done = append(done, m)
	}

	byParent := make(map[string][]string)
	for _, m := range done {
		byParent[m.parent] = append(byParent[m.parent], m.From)
	}
	for parent, froms := range byParent {
		if err := CleanupEmptyDirs(parent, froms); err != nil {
			return done, err
		}
	}
	return done, nil
}
