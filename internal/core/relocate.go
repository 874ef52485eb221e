package core

import (
	"path/filepath"
	"strings"
)

// RelocationTable maps files under ParentFolder to their new locations.
// Tree keys and values are relative to ParentFolder (normalized, slash form).
type RelocationTable struct {
	ParentFolder string
	Tree         map[string]string
}

// Locate returns where absPath lives after restructuring.
// Tables are tried in order; the first table containing the file wins.
// Unmapped paths are returned unchanged.
func Locate(absPath string, tables []RelocationTable) string {
	newPath, _ := Moved(absPath, tables)
	return newPath
}

// Moved is Locate that also reports whether any table mapped the path.
func Moved(absPath string, tables []RelocationTable) (string, bool) {
	for _, t := range tables {
		key, ok := relocationKey(t.ParentFolder, absPath)
		if !ok {
			continue
		}
		if rel, ok := t.Tree[key]; ok {
			return filepath.Join(t.ParentFolder, filepath.FromSlash(rel)), true
		}
	}
	return absPath, false
}

// relocationKey returns absPath relative to parent in tree-key form.
// Paths outside parent have no key.
func relocationKey(parent, absPath string) (string, bool) {
	rel, err := filepath.Rel(parent, absPath)
	if err != nil {
		return "", false
	}
	key := NormalizePath(rel)
	if key == ".." || strings.HasPrefix(key, "../") {
		return "", false
	}
	return key, true
}
