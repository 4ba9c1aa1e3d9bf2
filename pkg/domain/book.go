package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
)

const (
	tagChapter   = "Chapter"
	tagPartTitle = "PartTitle"
	tagSeparator = "Separator"
)

// Book is the document tree exchanged with the host.
// Keys the preprocessor does not understand are kept and written back untouched.
type Book struct {
	Sections []BookItem

	extra map[string]json.RawMessage
}

// BookItem is a tagged variant: exactly one of Chapter, PartTitle or Separator is set.
type BookItem struct {
	Chapter   *Chapter
	PartTitle *string
	Separator bool
}

// Chapter is an addressable node of the book.
// A nil Path marks a draft chapter: it is valid but has no template name.
type Chapter struct {
	Name        string
	Content     string
	Number      []int
	SubItems    []BookItem
	Path        *string
	SourcePath  *string
	ParentNames []string

	extra map[string]json.RawMessage
}

// NewChapter returns a BookItem holding a chapter. An empty path creates a draft chapter.
func NewChapter(name, path, content string, subItems ...BookItem) BookItem {
	ch := &Chapter{Name: name, Content: content, SubItems: subItems}
	if path != "" {
		ch.Path = &path
		src := path
		ch.SourcePath = &src
	}
	return BookItem{Chapter: ch}
}

// NewPartTitle returns a BookItem holding a part title.
func NewPartTitle(title string) BookItem {
	return BookItem{PartTitle: &title}
}

// NewSeparator returns a BookItem holding a separator.
func NewSeparator() BookItem {
	return BookItem{Separator: true}
}

// Clone returns a deep copy of the book so that a failed run never leaves
// the caller's tree half rendered.
func (b *Book) Clone() *Book {
	if b == nil {
		return nil
	}
	return &Book{
		Sections: cloneItems(b.Sections),
		extra:    maps.Clone(b.extra),
	}
}

func cloneItems(items []BookItem) []BookItem {
	if items == nil {
		return nil
	}
	out := make([]BookItem, len(items))
	for i, item := range items {
		switch {
		case item.Chapter != nil:
			out[i] = BookItem{Chapter: item.Chapter.clone()}
		case item.PartTitle != nil:
			title := *item.PartTitle
			out[i] = BookItem{PartTitle: &title}
		default:
			out[i] = item
		}
	}
	return out
}

func (c *Chapter) clone() *Chapter {
	cp := *c
	cp.Number = append([]int(nil), c.Number...)
	cp.ParentNames = append([]string(nil), c.ParentNames...)
	cp.SubItems = cloneItems(c.SubItems)
	cp.extra = maps.Clone(c.extra)
	if c.Path != nil {
		p := *c.Path
		cp.Path = &p
	}
	if c.SourcePath != nil {
		p := *c.SourcePath
		cp.SourcePath = &p
	}
	return &cp
}

type bookJSON struct {
	Sections []BookItem `json:"sections"`
}

// MarshalJSON implements json.Marshaler.
func (b Book) MarshalJSON() ([]byte, error) {
	sections := b.Sections
	if sections == nil {
		sections = []BookItem{}
	}
	return marshalWithExtra(bookJSON{Sections: sections}, b.extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Book) UnmarshalJSON(data []byte) error {
	var known bookJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, "sections")
	if err != nil {
		return err
	}
	b.Sections = known.Sections
	b.extra = extra
	return nil
}

type chapterJSON struct {
	Name        string     `json:"name"`
	Content     string     `json:"content"`
	Number      []int      `json:"number"`
	SubItems    []BookItem `json:"sub_items"`
	Path        *string    `json:"path"`
	SourcePath  *string    `json:"source_path"`
	ParentNames []string   `json:"parent_names"`
}

var chapterKeys = []string{"name", "content", "number", "sub_items", "path", "source_path", "parent_names"}

// MarshalJSON implements json.Marshaler.
func (c Chapter) MarshalJSON() ([]byte, error) {
	known := chapterJSON{
		Name:        c.Name,
		Content:     c.Content,
		Number:      c.Number,
		SubItems:    c.SubItems,
		Path:        c.Path,
		SourcePath:  c.SourcePath,
		ParentNames: c.ParentNames,
	}
	if known.SubItems == nil {
		known.SubItems = []BookItem{}
	}
	if known.ParentNames == nil {
		known.ParentNames = []string{}
	}
	return marshalWithExtra(known, c.extra)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Chapter) UnmarshalJSON(data []byte) error {
	var known chapterJSON
	if err := json.Unmarshal(data, &known); err != nil {
		return err
	}
	extra, err := extraKeys(data, chapterKeys...)
	if err != nil {
		return err
	}
	*c = Chapter{
		Name:        known.Name,
		Content:     known.Content,
		Number:      known.Number,
		SubItems:    known.SubItems,
		Path:        known.Path,
		SourcePath:  known.SourcePath,
		ParentNames: known.ParentNames,
		extra:       extra,
	}
	return nil
}

// MarshalJSON encodes the item the way the host does:
// {"Chapter":{...}}, {"PartTitle":"..."} or "Separator".
func (i BookItem) MarshalJSON() ([]byte, error) {
	switch {
	case i.Chapter != nil:
		return json.Marshal(map[string]*Chapter{tagChapter: i.Chapter})
	case i.PartTitle != nil:
		return json.Marshal(map[string]string{tagPartTitle: *i.PartTitle})
	case i.Separator:
		return json.Marshal(tagSeparator)
	}
	return nil, errors.New("book item has no variant set")
}

// UnmarshalJSON implements json.Unmarshaler.
func (i *BookItem) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag != tagSeparator {
			return fmt.Errorf("unknown book item %q", tag)
		}
		*i = BookItem{Separator: true}
		return nil
	}

	var variant map[string]json.RawMessage
	if err := json.Unmarshal(data, &variant); err != nil {
		return fmt.Errorf("book item: %w", err)
	}
	if len(variant) != 1 {
		return fmt.Errorf("book item must have exactly one variant, got %d", len(variant))
	}

	if raw, ok := variant[tagChapter]; ok {
		var ch Chapter
		if err := json.Unmarshal(raw, &ch); err != nil {
			return fmt.Errorf("chapter: %w", err)
		}
		*i = BookItem{Chapter: &ch}
		return nil
	}
	if raw, ok := variant[tagPartTitle]; ok {
		var title string
		if err := json.Unmarshal(raw, &title); err != nil {
			return fmt.Errorf("part title: %w", err)
		}
		*i = BookItem{PartTitle: &title}
		return nil
	}
	for k := range variant {
		return fmt.Errorf("unknown book item %q", k)
	}
	return nil
}

// extraKeys returns every key of the JSON object data that is not in known.
func extraKeys(data []byte, known ...string) (map[string]json.RawMessage, error) {
	var all map[string]json.RawMessage
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(all, k)
	}
	if len(all) == 0 {
		return nil, nil
	}
	return all, nil
}

func marshalWithExtra(known any, extra map[string]json.RawMessage) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := merged[k]; !ok {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}
