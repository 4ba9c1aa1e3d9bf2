/*
Package domain contains the core data model of the inkwell preprocessor.

It defines the book tree handed over by the host, the structured context value
exposed to templates, and the error taxonomy shared by every layer. This package
is kept pure and free of external dependencies like I/O or template engines,
following Hexagonal Architecture principles.

# Key Entities

  - Book: the ordered list of top-level items produced by the host.
  - BookItem: a tagged variant over Chapter, PartTitle and Separator.
  - Chapter: a node with optional path, mutable content and nested sub items.
  - Value: the structured data namespace templates are rendered against.
  - Error: a failure annotated with its Kind and the offending path.
*/
package domain
