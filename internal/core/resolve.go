package core

import (
	"path/filepath"
	"strings"
)

// DefaultResolveExtensions are probed, in order, for extensionless specifiers.
var DefaultResolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".json"}

// compiledSourceExts maps an output extension to the TypeScript sources it is
// compiled from. NodeNext projects import "./b.js" to mean "./b.ts".
var compiledSourceExts = map[string][]string{
	".js":  {".ts", ".tsx"},
	".jsx": {".tsx"},
	".mjs": {".mts"},
	".cjs": {".cts"},
}

// compiledFrom reports whether a specifier written with ext may resolve to a
// source file with srcExt.
func compiledFrom(ext, srcExt string) bool {
	for _, e := range compiledSourceExts[strings.ToLower(ext)] {
		if strings.EqualFold(e, srcExt) {
			return true
		}
	}
	return false
}

// SpecifierResolver resolves an import specifier written in a file located in
// fromDir to the absolute path of the imported file.
type SpecifierResolver interface {
	Resolve(specifier, fromDir string) (string, bool)
}

// FSResolver resolves relative specifiers against the file system the way
// Node and bundlers do: exact file, then the TypeScript source of a compiled
// extension, then added extensions, then directory index.
type FSResolver struct {
	Extensions []string
}

// Resolve implements SpecifierResolver. Bare package specifiers never resolve.
func (r FSResolver) Resolve(specifier, fromDir string) (string, bool) {
	if !isRelativeSpecifier(specifier) {
		return "", false
	}
	exts := r.Extensions
	if len(exts) == 0 {
		exts = DefaultResolveExtensions
	}

	base := filepath.Join(fromDir, filepath.FromSlash(specifier))
	if fileExists(base) {
		return base, true
	}
	outExt := filepath.Ext(base)
	for _, srcExt := range compiledSourceExts[strings.ToLower(outExt)] {
		if src := strings.TrimSuffix(base, outExt) + srcExt; fileExists(src) {
			return src, true
		}
	}
	for _, ext := range exts {
		if fileExists(base + ext) {
			return base + ext, true
		}
	}
	for _, ext := range exts {
		index := filepath.Join(base, "index"+ext)
		if fileExists(index) {
			return index, true
		}
	}
	return "", false
}
