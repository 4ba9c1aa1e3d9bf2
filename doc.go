/*
Package inkwell is a template preprocessor for mdBook-compatible documentation builds.

It receives a book (a tree of chapters, part titles and separators) together with the
host's preprocessor context, interprets the content of every chapter that has a path as
a Jinja-style template, and returns the book with the rendered text in place.

# Concept

A run merges two data sources into one render context. The host metadata is inserted
under a reserved key ("ctx" by default) and the user's context file (JSON, TOML, YAML or
HCL) is merged on top. Chapters may extend, include or import reusable templates
discovered on disk, and may extend each other: all templates of a run are registered as
one atomic batch, so discovery order never matters.

# Key Features

  - Atomic registration: a child template and its parent resolve regardless of order.
  - Shape preserving: unknown fields of the host's book are written back untouched.
  - Watch mode: the context file can be reloaded in the background without tearing readers.
  - All or nothing: a failing chapter aborts the run, no half rendered book is returned.

# Usage

	package main

	import (
		"log"

		"github.com/aretw0/inkwell"
		"github.com/aretw0/inkwell/pkg/contextsource"
		"github.com/aretw0/inkwell/pkg/domain"
	)

	func main() {
		source, err := contextsource.NewStaticFromFile("context.toml", contextsource.FormatTOML)
		if err != nil {
			log.Fatal(err)
		}

		p := inkwell.New(source)
		if err := p.IncludeTemplates("src", "*.tera"); err != nil {
			log.Fatal(err)
		}

		book := &domain.Book{Sections: []domain.BookItem{
			domain.NewChapter("Intro", "intro.md", "Hello, {{ ctx.name }}!"),
		}}
		out, err := p.Run(map[string]any{"name": "World"}, book)
		if err != nil {
			log.Fatal(err)
		}
		log.Println(out.Sections[0].Chapter.Content)
	}

# Architecture

  - pkg/domain: the book model and the error taxonomy.
  - pkg/contextsource: static and watched context sources.
  - pkg/adapters/mdbook: the host's stdin/stdout protocol.
  - internal/templates: the template library (pongo2).
  - internal/walker: the chapter tree traversal.
  - cmd/inkwell: the command line preprocessor.
*/
package inkwell
