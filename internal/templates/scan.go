package templates

import (
	"regexp"
	"strings"
)

type chunkKind int

const (
	chunkText chunkKind = iota
	chunkVariable
	chunkTag
	chunkComment
)

const (
	verbatimOpen  = "{% verbatim %}"
	verbatimClose = "{% endverbatim %}"
)

// scanChunks splits src into text, {{ }}, {% %} and {# #} chunks the way the
// pongo2 lexer delimits them. Verbatim blocks are reported as text.
// Concatenating every chunk yields src.
func scanChunks(src string, fn func(kind chunkKind, raw string)) {
	start := 0
	for pos := 0; pos < len(src); {
		rest := src[pos:]
		var kind chunkKind
		var end int
		switch {
		case strings.HasPrefix(rest, verbatimOpen):
			kind, end = chunkText, closeAfter(rest, verbatimClose)
		case strings.HasPrefix(rest, "{#"):
			kind, end = chunkComment, closeAfter(rest, "#}")
		case strings.HasPrefix(rest, "{{"):
			kind, end = chunkVariable, closeCode(rest, "}}")
		case strings.HasPrefix(rest, "{%"):
			kind, end = chunkTag, closeCode(rest, "%}")
		default:
			pos++
			continue
		}
		if pos > start {
			fn(chunkText, src[start:pos])
		}
		fn(kind, rest[:end])
		pos += end
		start = pos
	}
	if start < len(src) {
		fn(chunkText, src[start:])
	}
}

func closeAfter(s, closer string) int {
	i := strings.Index(s, closer)
	if i < 0 {
		return len(s)
	}
	return i + len(closer)
}

// closeCode finds the end of a code chunk, skipping quoted strings.
func closeCode(s, closer string) int {
	for i := 2; i < len(s); i++ {
		switch c := s[i]; c {
		case '"', '\'':
			for i++; i < len(s) && s[i] != c; i++ {
				if s[i] == '\\' {
					i++
				}
			}
		default:
			if strings.HasPrefix(s[i:], closer) {
				return i + len(closer)
			}
		}
	}
	return len(s)
}

// instrument prefixes every {{ }} expression of src with the check tag, so an
// undefined variable fails the render instead of printing nothing. Whitespace
// control on the left of the expression moves to the tag.
func instrument(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	scanChunks(src, func(kind chunkKind, raw string) {
		if kind != chunkVariable || !strings.HasSuffix(raw, "}}") {
			b.WriteString(raw)
			return
		}
		expr := raw[2 : len(raw)-2]
		trimLeft := strings.HasPrefix(expr, "-")
		if trimLeft {
			expr = expr[1:]
		}
		trimRight := strings.HasSuffix(expr, "-")
		if trimRight {
			expr = expr[:len(expr)-1]
		}
		if strings.TrimSpace(expr) == "" {
			b.WriteString(raw)
			return
		}

		b.WriteString("{%")
		if trimLeft {
			b.WriteString("-")
		}
		b.WriteString(" " + definedTag + " " + expr + " %}{{" + expr)
		if trimRight {
			b.WriteString("-")
		}
		b.WriteString("}}")
	})
	return b.String()
}

var referencePattern = regexp.MustCompile(`^\{%-?\s*(?:extends|include|import)\s+("(?:[^"\\]|\\.)*"|'(?:[^'\\]|\\.)*')`)

// references lists the templates src names with a string literal in extends,
// include and import tags, in source order.
func references(src string) []string {
	var refs []string
	scanChunks(src, func(kind chunkKind, raw string) {
		if kind != chunkTag {
			return
		}
		m := referencePattern.FindStringSubmatch(raw)
		if m == nil {
			return
		}
		name := m[1][1 : len(m[1])-1]
		name = strings.ReplaceAll(name, `\"`, `"`)
		name = strings.ReplaceAll(name, `\\`, `\`)
		refs = append(refs, name)
	})
	return refs
}
