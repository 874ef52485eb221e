package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the plan file read from the project root.
const ConfigFileName = "reimport.yaml"

// DefaultSourceExtensions select the files whose imports are rewritten.
var DefaultSourceExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}

// Config represents the reimport.yaml plan file.
type Config struct {
	Roots      []RootConfig `yaml:"roots"`
	Extensions []string     `yaml:"extensions"`
	Exclude    []string     `yaml:"exclude"`
}

// RootConfig is one relocation table as written in the plan.
// Parent is relative to the project root unless absolute.
type RootConfig struct {
	Parent string    `yaml:"parent"`
	Tree   yaml.Node `yaml:"tree"`
}

// LoadConfig reads reimport.yaml from the project root.
// Returns zero Config and nil error if the file does not exist.
func LoadConfig(root string) (Config, error) {
	p := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	if err := validateGlobPatterns(cfg.Exclude); err != nil {
		return Config{}, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// SourceExtensions returns the configured extensions, dot-prefixed and lowercase.
func (c Config) SourceExtensions() []string {
	if len(c.Extensions) == 0 {
		return DefaultSourceExtensions
	}
	out := make([]string, len(c.Extensions))
	for i, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[i] = strings.ToLower(ext)
	}
	return out
}

// RelocationTables converts the plan roots into tables with absolute parents,
// preserving plan order. A key listed twice in one tree is an error.
func (c Config) RelocationTables(root string) ([]RelocationTable, error) {
	tables := make([]RelocationTable, 0, len(c.Roots))
	for i, rc := range c.Roots {
		if rc.Parent == "" {
			return nil, fmt.Errorf("roots[%d]: parent is required", i)
		}
		parent := rc.Parent
		if !filepath.IsAbs(parent) {
			parent = filepath.Join(root, parent)
		}
		tree, err := decodeTree(rc.Tree)
		if err != nil {
			return nil, fmt.Errorf("roots[%d] (%s): %w", i, rc.Parent, err)
		}
		tables = append(tables, RelocationTable{ParentFolder: filepath.Clean(parent), Tree: tree})
	}
	return tables, nil
}

// decodeTree reads a tree mapping node. Keys are compared after normalization,
// so "./a.ts" and "a.ts" collide.
func decodeTree(n yaml.Node) (map[string]string, error) {
	tree := make(map[string]string)
	if n.Kind == 0 {
		return tree, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("tree must be a mapping (line %d)", n.Line)
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("tree entries must be path: path (line %d)", k.Line)
		}
		key := NormalizePath(k.Value)
		if _, dup := tree[key]; dup {
			return nil, fmt.Errorf("duplicate tree key %s (line %d)", key, k.Line)
		}
		tree[key] = NormalizePath(v.Value)
	}
	return tree, nil
}

// validateGlobPatterns checks that none of the patterns use unsupported character classes.
func validateGlobPatterns(patterns []string) error {
	for _, p := range patterns {
		if strings.Contains(p, "[") {
			return fmt.Errorf("unsupported glob pattern (character class): %s", p)
		}
	}
	return nil
}

// filterExcludes removes root-relative files matching any of the given glob patterns.
func filterExcludes(files []string, patterns []string) []string {
	if len(patterns) == 0 {
		return files
	}
	result := make([]string, 0, len(files))
	for _, f := range files {
		excluded := false
		for _, p := range patterns {
			if globMatch(p, f) {
				excluded = true
				break
			}
		}
		if !excluded {
			result = append(result, f)
		}
	}
	return result
}

// globMatch implements SQLite GLOB semantics in Go.
// '*' matches any sequence of characters (including '/').
// '?' matches exactly one character.
// '[' is treated as a literal character (character classes not supported).
func globMatch(pattern, s string) bool {
	return globMatchImpl([]rune(pattern), []rune(s))
}

func globMatchImpl(pattern, s []rune) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			// Skip consecutive '*'.
			for len(pattern) > 0 && pattern[0] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 0 {
				return true
			}
			// Try matching the rest of the pattern at every position.
			for i := 0; i <= len(s); i++ {
				if globMatchImpl(pattern, s[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(s) == 0 {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		default:
			if len(s) == 0 || pattern[0] != s[0] {
				return false
			}
			pattern = pattern[1:]
			s = s[1:]
		}
	}
	return len(s) == 0
}
