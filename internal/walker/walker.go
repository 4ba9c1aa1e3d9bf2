// Package walker traverses the book tree.
//
// Collect and RenderInPlace share one pre-order, depth-first traversal, so on
// an unmodified tree both passes visit chapters in exactly the same order.
// Part titles and separators are inert leaves.
package walker

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/inkwell/pkg/domain"
	"github.com/aretw0/inkwell/pkg/ports"
)

// Visitor is called once per chapter, parent before children.
type Visitor func(ch *domain.Chapter) error

// Template is a chapter's name and raw content, ready for registration.
type Template struct {
	Name   string
	Source string
}

// Walk visits every chapter in items, recursing into sub items whether or not
// the chapter has a path. The first visitor error stops the walk.
func Walk(items []domain.BookItem, visit Visitor) error {
	for i := range items {
		ch := items[i].Chapter
		if ch == nil {
			continue
		}
		if err := visit(ch); err != nil {
			return err
		}
		if err := Walk(ch.SubItems, visit); err != nil {
			return err
		}
	}
	return nil
}

// TemplateName returns the template name of a chapter. ok is false for draft
// chapters (no path). Backslashes are normalized to forward slashes.
func TemplateName(ch *domain.Chapter) (name string, ok bool, err error) {
	if ch.Path == nil {
		return "", false, nil
	}
	path := *ch.Path
	if !utf8.ValidString(path) || strings.ContainsRune(path, 0) {
		return "", false, domain.NewError(domain.KindInvalidPath, "chapter", path,
			fmt.Errorf("path of chapter %q is not portable text", ch.Name))
	}
	return strings.ReplaceAll(path, `\`, "/"), true, nil
}

// Collect returns the name and content of every pathed chapter in visit order.
func Collect(items []domain.BookItem) ([]Template, error) {
	var templates []Template
	err := Walk(items, func(ch *domain.Chapter) error {
		name, ok, err := TemplateName(ch)
		if err != nil || !ok {
			return err
		}
		templates = append(templates, Template{Name: name, Source: ch.Content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// RenderInPlace overwrites the content of every pathed chapter with the
// rendered template of the same name. Draft chapters keep their content.
// It returns the number of chapters rendered.
func RenderInPlace(items []domain.BookItem, renderer ports.Renderer, ctx domain.Value) (int, error) {
	rendered := 0
	err := Walk(items, func(ch *domain.Chapter) error {
		name, ok, err := TemplateName(ch)
		if err != nil || !ok {
			return err
		}
		out, err := renderer.Render(name, ctx)
		if err != nil {
			kind := domain.KindOf(err)
			if kind == domain.KindUnknown {
				kind = domain.KindEval
			}
			return domain.NewError(kind, "chapter", name, err)
		}
		ch.Content = out
		rendered++
		return nil
	})
	return rendered, err
}
