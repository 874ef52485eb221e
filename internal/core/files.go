package core

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const dataDirName = ".reimport"

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	dataDirName:    true,
}

// CollectSourceFiles walks root and returns the absolute paths of source files
// selected by cfg, in lexical order.
func CollectSourceFiles(root string, cfg Config) ([]string, error) {
	exts := make(map[string]bool)
	for _, ext := range cfg.SourceExtensions() {
		exts[ext] = true
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skippedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, NormalizePath(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	files = filterExcludes(files, cfg.Exclude)
	sort.Strings(files)
	out := make([]string, len(files))
	for i, rel := range files {
		out[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	return out, nil
}
