package core

import (
	"path"
	"path/filepath"
	"strings"
)

// scriptExts are dropped from formatted specifiers; module resolution adds them back.
var scriptExts = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// FormatImportPath returns the specifier fromFile should use to import toFile.
// The result always starts with "./" or "../" and uses forward slashes.
func FormatImportPath(fromFile, toFile string) string {
	return formatSpecifier(fromFile, toFile, false)
}

// formatSpecifier is FormatImportPath with optional extension keeping.
func formatSpecifier(fromFile, toFile string, keepExt bool) string {
	rel, err := filepath.Rel(filepath.Dir(fromFile), toFile)
	if err != nil {
		// Different volumes: nothing relative exists, fall back to the absolute target.
		return filepath.ToSlash(toFile)
	}
	rel = filepath.ToSlash(rel)

	ext := path.Ext(rel)
	if !keepExt && scriptExts[strings.ToLower(ext)] {
		rel = strings.TrimSuffix(rel, ext)
	}
	return relativeSpecifier(rel)
}

func relativeSpecifier(rel string) string {
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return rel
	}
	return "./" + rel
}

// isRelativeSpecifier reports whether spec is resolved against the importing file.
func isRelativeSpecifier(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../")
}

// styleLike adapts a freshly formatted specifier to the way the original one
// was written: an explicit extension is kept (a ".js" written for a ".ts"
// source stays ".js"), and a directory import keeps omitting its index file.
func styleLike(fromFile, toFile, original, resolvedFrom string) string {
	origExt := path.Ext(original)
	if origExt != "" && compiledFrom(origExt, filepath.Ext(resolvedFrom)) {
		spec := formatSpecifier(fromFile, toFile, true)
		return strings.TrimSuffix(spec, path.Ext(spec)) + origExt
	}
	keepExt := origExt != "" && strings.EqualFold(origExt, filepath.Ext(resolvedFrom))
	spec := formatSpecifier(fromFile, toFile, keepExt)

	if isIndexFile(resolvedFrom) && !isIndexSpecifier(original) {
		if dir, base := path.Split(spec); isIndexSpecifier(base) && strings.Count(dir, "/") >= 2 {
			spec = strings.TrimSuffix(dir, "/")
		}
	}
	return spec
}

func isIndexFile(p string) bool {
	base := filepath.Base(p)
	return strings.TrimSuffix(base, filepath.Ext(base)) == "index"
}

func isIndexSpecifier(spec string) bool {
	base := path.Base(spec)
	return strings.TrimSuffix(base, path.Ext(base)) == "index"
}
