package core

import (
	"strings"
)

// ImportReference is the byte span of one import specifier (quotes excluded)
// in the original, unmodified file text.
type ImportReference struct {
	Specifier string
	Start     int
	End       int
}

// ImportFinder lists the import specifiers of a source file, ordered by Start.
type ImportFinder interface {
	FindImports(path, src string) []ImportReference
}

// Scanner finds relative import specifiers in JavaScript and TypeScript source.
type Scanner struct{}

// FindImports implements ImportFinder.
func (Scanner) FindImports(_ string, src string) []ImportReference {
	return ScanImports(src)
}

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokPunct
	tokLiteral // template, regex or escaped string with no usable value
)

type token struct {
	kind  tokenKind
	text  string // identifier, punctuation, or string content
	start int    // content start (after the opening quote for strings)
	end   int
}

// ScanImports returns the relative specifiers of import/export-from statements,
// side-effect imports, dynamic import() and require() calls.
func ScanImports(src string) []ImportReference {
	toks := tokenize(src)
	var out []ImportReference
	for i, t := range toks {
		if t.kind != tokIdent || precededByDot(toks, i) {
			continue
		}
		var spec *token
		switch t.text {
		case "from":
			spec = stringAt(toks, i+1)
		case "import":
			if s := stringAt(toks, i+1); s != nil {
				spec = s
			} else {
				spec = callArgument(toks, i)
			}
		case "require":
			spec = callArgument(toks, i)
		}
		if spec == nil || !isRelativeSpecifier(spec.text) {
			continue
		}
		out = append(out, ImportReference{Specifier: spec.text, Start: spec.start, End: spec.end})
	}
	return out
}

func precededByDot(toks []token, i int) bool {
	return i > 0 && toks[i-1].kind == tokPunct && toks[i-1].text == "."
}

func stringAt(toks []token, i int) *token {
	if i < len(toks) && toks[i].kind == tokString {
		return &toks[i]
	}
	return nil
}

// callArgument matches `name ( "spec" )` or `name ( "spec" ,` starting at toks[i].
func callArgument(toks []token, i int) *token {
	if i+3 >= len(toks) || toks[i+1].kind != tokPunct || toks[i+1].text != "(" {
		return nil
	}
	s := stringAt(toks, i+2)
	if s == nil {
		return nil
	}
	if next := toks[i+3]; next.kind == tokPunct && (next.text == ")" || next.text == ",") {
		return s
	}
	return nil
}

// tokenize splits src into identifiers, single-character punctuation and
// plain string literals. Comments are dropped. Regex literals, templates with
// substitutions and strings with escapes become opaque tokens, since their
// source text is not their value.
func tokenize(src string) []token {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n' || c == ' ' || c == '\t' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "//"):
			i = skipLine(src, i)
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return toks
			}
			i += 2 + end + 2
		case c == '"' || c == '\'':
			end, ok := scanQuoted(src, i, c)
			if ok {
				toks = append(toks, token{kind: tokString, text: src[i+1 : end], start: i + 1, end: end})
			} else {
				toks = append(toks, token{kind: tokLiteral})
			}
			i = end + 1
		case c == '`':
			end, plain := scanTemplate(src, i)
			if plain {
				toks = append(toks, token{kind: tokString, text: src[i+1 : end], start: i + 1, end: end})
			} else {
				toks = append(toks, token{kind: tokLiteral})
			}
			i = end + 1
		case c == '/' && regexAllowed(toks):
			i = skipRegex(src, i)
			toks = append(toks, token{kind: tokLiteral})
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], start: i, end: j})
			i = j
		default:
			toks = append(toks, token{kind: tokPunct, text: src[i : i+1], start: i, end: i + 1})
			i++
		}
	}
	return toks
}

func skipLine(src string, i int) int {
	if nl := strings.IndexByte(src[i:], '\n'); nl >= 0 {
		return i + nl
	}
	return len(src)
}

// scanQuoted returns the index of the closing quote. ok is false when the
// literal has escapes or is unterminated on its line.
func scanQuoted(src string, i int, quote byte) (int, bool) {
	ok := true
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			ok = false
			j++
		case '\n':
			return j, false
		case quote:
			return j, ok
		}
	}
	return len(src), false
}

// scanTemplate returns the index of the closing backtick and whether the
// template is a plain string (no escapes, no substitutions).
func scanTemplate(src string, i int) (int, bool) {
	plain := true
	for j := i + 1; j < len(src); j++ {
		switch {
		case src[j] == '\\':
			plain = false
			j++
		case src[j] == '`':
			return j, plain
		case src[j] == '$' && j+1 < len(src) && src[j+1] == '{':
			plain = false
			j = skipSubstitution(src, j+2) - 1
		}
	}
	return len(src), false
}

// skipSubstitution skips a ${...} body starting after "${" and returns the
// index just past its closing brace.
func skipSubstitution(src string, i int) int {
	depth := 1
	for i < len(src) {
		switch c := src[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '"', '\'':
			end, _ := scanQuoted(src, i, c)
			i = end
		case '`':
			end, _ := scanTemplate(src, i)
			i = end
		}
		i++
	}
	return len(src)
}

// regexAllowed reports whether a '/' at this point starts a regex literal
// rather than a division.
func regexAllowed(toks []token) bool {
	if len(toks) == 0 {
		return true
	}
	prev := toks[len(toks)-1]
	switch prev.kind {
	case tokIdent:
		switch prev.text {
		case "return", "typeof", "case", "do", "else", "in", "of", "void", "yield", "await":
			return true
		}
		return false
	case tokString, tokLiteral:
		return false
	}
	return strings.Contains("(,=:[!&|?{};+-*%<>~^", prev.text)
}

func skipRegex(src string, i int) int {
	inClass := false
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '\n':
			return j
		case '/':
			if !inClass {
				j++
				for j < len(src) && isIdentPart(src[j]) {
					j++
				}
				return j
			}
		}
	}
	return len(src)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
