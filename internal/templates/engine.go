package templates

import (
	"regexp"
	"sync"

	"github.com/flosch/pongo2/v6"
)

var engineOnce sync.Once

// setupEngine configures the process-wide pongo2 state inkwell depends on.
// pongo2 keeps autoescaping and its tag table global, so the first Library
// created turns autoescaping off for every pongo2 template in the process and
// registers the undefined-variable check tag.
func setupEngine() {
	engineOnce.Do(func() {
		// Chapters are markdown, not HTML.
		pongo2.SetAutoescape(false)
		if err := pongo2.RegisterTag(definedTag, parseDefinedTag); err != nil {
			panic(err)
		}
	})
}

// identifierPattern is the key shape pongo2 accepts in a render context.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// renderContext converts ctx into a pongo2 context, leaving out top-level keys
// templates could never name. pongo2 rejects the whole context otherwise.
func renderContext(ctx map[string]any) (pongo2.Context, []string) {
	out := make(pongo2.Context, len(ctx))
	var skipped []string
	for key, val := range ctx {
		if !identifierPattern.MatchString(key) {
			skipped = append(skipped, key)
			continue
		}
		out[key] = val
	}
	return out, skipped
}
