package templates

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/flosch/pongo2/v6"
)

// ErrUndefined reports a printed variable that is neither in the render
// context nor bound by the template.
var ErrUndefined = errors.New("undefined variable")

const definedTag = "inkwell_defined"

// Filters that give undefined values a meaning; expressions using them are
// not checked.
var lenientFilters = map[string]bool{
	"default":         true,
	"default_if_none": true,
}

type variablePath struct {
	token    *pongo2.Token
	segments []string
}

type definedNode struct {
	paths []variablePath
}

func parseDefinedTag(_ *pongo2.Parser, _ *pongo2.Token, arguments *pongo2.Parser) (pongo2.INodeTag, *pongo2.Error) {
	tokens := make([]*pongo2.Token, 0, arguments.Remaining())
	for arguments.Remaining() > 0 {
		tokens = append(tokens, arguments.Current())
		arguments.Consume()
	}
	return &definedNode{paths: variablePaths(tokens)}, nil
}

// variablePaths extracts the dotted variable lookups of an expression.
// Filter names, subscripts and attributes after a call are not lookups.
func variablePaths(tokens []*pongo2.Token) []variablePath {
	var paths []variablePath
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case isSymbol(tok, "|"):
			if i+1 < len(tokens) && tokens[i+1].Typ == pongo2.TokenIdentifier {
				if lenientFilters[tokens[i+1].Val] {
					return nil
				}
				i++
			}
		case tok.Typ == pongo2.TokenIdentifier && (i == 0 || !isSymbol(tokens[i-1], ".")):
			p := variablePath{token: tok, segments: []string{tok.Val}}
			for i+2 < len(tokens) && isSymbol(tokens[i+1], ".") &&
				(tokens[i+2].Typ == pongo2.TokenIdentifier || tokens[i+2].Typ == pongo2.TokenNumber) {
				p.segments = append(p.segments, tokens[i+2].Val)
				i += 2
			}
			paths = append(paths, p)
		}
	}
	return paths
}

func isSymbol(tok *pongo2.Token, val string) bool {
	return tok.Typ == pongo2.TokenSymbol && tok.Val == val
}

func (n *definedNode) Execute(ctx *pongo2.ExecutionContext, _ pongo2.TemplateWriter) *pongo2.Error {
	for _, p := range n.paths {
		if !isDefined(ctx, p.segments) {
			return ctx.OrigError(fmt.Errorf("%w %q", ErrUndefined, strings.Join(p.segments, ".")), p.token)
		}
	}
	return nil
}

// isDefined resolves segments like pongo2 does, private bindings first. Only
// missing map keys count as undefined; lookups into anything else are left to
// pongo2.
func isDefined(ctx *pongo2.ExecutionContext, segments []string) bool {
	val, ok := ctx.Private[segments[0]]
	if !ok {
		val, ok = ctx.Public[segments[0]]
	}
	if !ok {
		return false
	}

	cur := reflect.ValueOf(val)
	for _, seg := range segments[1:] {
		cur = indirect(cur)
		if !cur.IsValid() || cur.Kind() != reflect.Map {
			return true
		}
		key := reflect.ValueOf(seg)
		if !key.Type().AssignableTo(cur.Type().Key()) {
			return true
		}
		cur = cur.MapIndex(key)
		if !cur.IsValid() {
			return false
		}
	}
	return true
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() {
		if v.CanInterface() {
			if pv, ok := v.Interface().(*pongo2.Value); ok {
				if pv == nil {
					return reflect.Value{}
				}
				v = reflect.ValueOf(pv.Interface())
				continue
			}
		}
		switch v.Kind() {
		case reflect.Interface, reflect.Pointer:
			if v.IsNil() {
				return reflect.Value{}
			}
			v = v.Elem()
		default:
			return v
		}
	}
	return v
}
