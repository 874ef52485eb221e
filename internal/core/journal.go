package core

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const dbFileName = "journal.sqlite"

// ErrNothingToUndo is returned by Undo when no journaled run is left.
var ErrNothingToUndo = errors.New("nothing to undo")

func dbPath(root string) string {
	return filepath.Join(root, dataDirName, dbFileName)
}

func ensureDataDir(root string) (string, error) {
	dir := filepath.Join(root, dataDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

func openDBAt(path string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s", path))
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			seq        INTEGER NOT NULL UNIQUE,
			root       TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			undone     INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS rewrites (
			id      INTEGER PRIMARY KEY,
			run_id  TEXT NOT NULL,
			path    TEXT NOT NULL,
			content BLOB NOT NULL,
			perm    INTEGER NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_rewrites_run ON rewrites(run_id);`,
		`CREATE TABLE IF NOT EXISTS moves (
			id        INTEGER PRIMARY KEY,
			run_id    TEXT NOT NULL,
			from_path TEXT NOT NULL,
			to_path   TEXT NOT NULL,
			FOREIGN KEY(run_id) REFERENCES runs(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_moves_run ON moves(run_id);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Journal records what one run changed so that Undo can revert it.
// The run is stored on its first record, so a run that changed nothing
// leaves no trace.
type Journal struct {
	db      *sql.DB
	root    string
	runID   string
	started bool
}

// OpenJournal opens (creating if needed) the journal under root for a new run.
func OpenJournal(root string) (*Journal, error) {
	if _, err := ensureDataDir(root); err != nil {
		return nil, err
	}
	db, err := openDBAt(dbPath(root))
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &Journal{db: db, root: root, runID: uuid.NewString()}, nil
}

// RunID identifies the run this journal records. It is empty until
// something has been recorded.
func (j *Journal) RunID() string {
	if !j.started {
		return ""
	}
	return j.runID
}

func (j *Journal) startRun() error {
	if j.started {
		return nil
	}
	_, err := j.db.Exec(
		`INSERT INTO runs (id, seq, root, started_at)
		 VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?)`,
		j.runID, j.root, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("journal run: %w", err)
	}
	j.started = true
	return nil
}

// RecordRewrite stores the content of path before it is overwritten.
func (j *Journal) RecordRewrite(path string, original []byte, perm os.FileMode) error {
	if err := j.startRun(); err != nil {
		return err
	}
	_, err := j.db.Exec(
		`INSERT INTO rewrites (run_id, path, content, perm) VALUES (?, ?, ?, ?)`,
		j.runID, path, original, int64(perm),
	)
	return err
}

// RecordMove stores a rename performed by the run.
func (j *Journal) RecordMove(from, to string) error {
	if err := j.startRun(); err != nil {
		return err
	}
	_, err := j.db.Exec(
		`INSERT INTO moves (run_id, from_path, to_path) VALUES (?, ?, ?)`,
		j.runID, from, to,
	)
	return err
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// UndoResult reports what Undo reverted.
type UndoResult struct {
	RunID     string
	MovedBack []FileMove
	Restored  []string
}

// Undo reverts the latest run recorded under root that has not been undone:
// moves are reversed last-first, then rewritten files get their original content back.
func Undo(root string) (*UndoResult, error) {
	dbp := dbPath(root)
	if _, err := os.Stat(dbp); os.IsNotExist(err) {
		return nil, ErrNothingToUndo
	}
	db, err := openDBAt(dbp)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var runID string
	err = db.QueryRow(`SELECT id FROM runs WHERE undone = 0 ORDER BY seq DESC LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return nil, ErrNothingToUndo
	}
	if err != nil {
		return nil, err
	}

	moves, err := loadMoves(db, runID)
	if err != nil {
		return nil, err
	}
	result := &UndoResult{RunID: runID}
	if err := checkMovesBack(moves, runID); err != nil {
		return result, err
	}
	var movedAway []string
	for _, m := range moves {
		if err := os.MkdirAll(filepath.Dir(m.From), 0o755); err != nil {
			return result, err
		}
		if err := os.Rename(m.To, m.From); err != nil {
			return result, err
		}
		result.MovedBack = append(result.MovedBack, m)
		movedAway = append(movedAway, m.To)
	}
	if err := CleanupEmptyDirs(root, movedAway); err != nil {
		return result, err
	}

	// Latest first, so a file journaled twice ends with its earliest content.
	rows, err := db.Query(`SELECT path, content, perm FROM rewrites WHERE run_id = ? ORDER BY id DESC`, runID)
	if err != nil {
		return result, err
	}
	defer rows.Close()
	restored := make(map[string]bool)
	for rows.Next() {
		var path string
		var content []byte
		var perm int64
		if err := rows.Scan(&path, &content, &perm); err != nil {
			return result, err
		}
		if err := writeFilePreservePerm(path, content, os.FileMode(perm)); err != nil {
			return result, err
		}
		if !restored[path] {
			restored[path] = true
			result.Restored = append(result.Restored, path)
		}
	}
	if err := rows.Err(); err != nil {
		return result, err
	}

	if _, err := db.Exec(`UPDATE runs SET undone = 1 WHERE id = ?`, runID); err != nil {
		return result, err
	}
	return result, nil
}

// checkMovesBack verifies, before anything is renamed, that every move of the
// run can be reversed in order: each destination is still there and each
// source is free once the moves before it are reversed.
func checkMovesBack(moves []FileMove, runID string) error {
	present := make(map[string]bool)
	exists := func(p string) bool {
		if v, ok := present[p]; ok {
			return v
		}
		return fileExists(p)
	}
	for _, m := range moves {
		if exists(m.From) || !exists(m.To) {
			return fmt.Errorf("cannot move back %s to %s: disk state changed since run %s", m.To, m.From, runID)
		}
		present[m.To] = false
		present[m.From] = true
	}
	return nil
}

// loadMoves returns the moves of a run, most recent first.
func loadMoves(db *sql.DB, runID string) ([]FileMove, error) {
	rows, err := db.Query(`SELECT from_path, to_path FROM moves WHERE run_id = ? ORDER BY id DESC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var moves []FileMove
	for rows.Next() {
		var m FileMove
		if err := rows.Scan(&m.From, &m.To); err != nil {
			return nil, err
		}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}
