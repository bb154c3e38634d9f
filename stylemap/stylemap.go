// Package stylemap keeps the bidirectional table between word-processor
// style names and the HTML tag/class pairs the editor uses for them. Both
// the importer and the exporter go through this table so a document
// survives the round trip with its stylistic intent intact.
package stylemap

import (
	"fmt"
	"strings"
)

// Selector identifies the HTML rendition of a style: a tag plus an
// optional class. Class-less entries match the bare tag.
type Selector struct {
	Tag       string
	ClassName string
}

func (s Selector) String() string {
	if s.ClassName == "" {
		return s.Tag
	}
	return s.Tag + "." + s.ClassName
}

// Kind separates paragraph styles from character (inline) styles.
type Kind int

const (
	KindParagraph Kind = iota
	KindCharacter
)

type entry struct {
	word string
	sel  Selector
	kind Kind
}

// The enumerated style set. Order matters only for deterministic
// DetectStyles output. The mapping must stay a bijection: one word style
// name per selector and back.
var entries = []entry{
	{"Title", Selector{"h1", "doc-title"}, KindParagraph},
	{"Subtitle", Selector{"p", "doc-subtitle"}, KindParagraph},
	{"Heading 1", Selector{"h1", ""}, KindParagraph},
	{"Heading 2", Selector{"h2", ""}, KindParagraph},
	{"Heading 3", Selector{"h3", ""}, KindParagraph},
	{"Heading 4", Selector{"h4", ""}, KindParagraph},
	{"Heading 5", Selector{"h5", ""}, KindParagraph},
	{"Heading 6", Selector{"h6", ""}, KindParagraph},
	{"Normal", Selector{"p", ""}, KindParagraph},
	{"Body Text", Selector{"p", "body-text"}, KindParagraph},
	{"Body Text First Indent", Selector{"p", "body-text-indent"}, KindParagraph},
	{"No Spacing", Selector{"p", "no-spacing"}, KindParagraph},
	{"Quote", Selector{"blockquote", "quote"}, KindParagraph},
	{"Block Quote", Selector{"blockquote", ""}, KindParagraph},
	{"Epigraph", Selector{"blockquote", "epigraph"}, KindParagraph},
	{"List Paragraph", Selector{"li", ""}, KindParagraph},
	{"List Bullet", Selector{"li", "list-bullet"}, KindParagraph},
	{"List Number", Selector{"li", "list-number"}, KindParagraph},
	{"Strong", Selector{"strong", ""}, KindCharacter},
	{"Emphasis", Selector{"em", ""}, KindCharacter},
	{"Book Title", Selector{"span", "book-title"}, KindCharacter},
	{"Subtle Emphasis", Selector{"span", "subtle-emphasis"}, KindCharacter},
	{"Subtle Reference", Selector{"span", "subtle-reference"}, KindCharacter},
	{"Underline", Selector{"u", ""}, KindCharacter},
}

// Map is the lookup table. It is cheap to construct and safe for
// concurrent reads, there is no mutable state after New.
type Map struct {
	toSel  map[string]Selector
	toWord map[Selector]entry
	names  []string
}

// New builds the default style map.
func New() *Map {
	m := &Map{
		toSel:  make(map[string]Selector, len(entries)),
		toWord: make(map[Selector]entry, len(entries)),
		names:  make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if _, dup := m.toSel[e.word]; dup {
			panic(fmt.Sprintf("stylemap: duplicate word style %q", e.word))
		}
		if _, dup := m.toWord[e.sel]; dup {
			panic(fmt.Sprintf("stylemap: duplicate selector %q", e.sel))
		}
		m.toSel[e.word] = e.sel
		m.toWord[e.sel] = e
		m.names = append(m.names, e.word)
	}
	return m
}

// ToHTML returns the HTML rendition of a word style name. Unknown styles
// degrade to an unstyled paragraph.
func (m *Map) ToHTML(wordStyle string) Selector {
	if sel, ok := m.toSel[wordStyle]; ok {
		return sel
	}
	// unknown heading-ish styles keep at least their structural role
	if lvl := headingLevelFromName(wordStyle); lvl > 0 {
		return Selector{Tag: fmt.Sprintf("h%d", min(lvl, 6))}
	}
	return Selector{Tag: "p"}
}

// ToWordStyle returns the word style for a tag/class pair, or "" when the
// combination is not part of the enumerated set. Callers are expected to
// fall back to FallbackStyle.
func (m *Map) ToWordStyle(tag, className string) string {
	tag = strings.ToLower(tag)
	if e, ok := m.toWord[Selector{Tag: tag, ClassName: className}]; ok {
		return e.word
	}
	if className != "" {
		// single known class may be combined with an unexpected tag
		if e, ok := m.toWord[Selector{Tag: "p", ClassName: className}]; ok {
			return e.word
		}
		if e, ok := m.toWord[Selector{Tag: "span", ClassName: className}]; ok && e.kind == KindCharacter {
			return e.word
		}
	}
	if e, ok := m.toWord[Selector{Tag: tag}]; ok {
		return e.word
	}
	return ""
}

// FallbackStyle degrades an unknown tag/class combination to the nearest
// structural equivalent: heading tags keep their level, everything else
// becomes Normal.
func (m *Map) FallbackStyle(tag string) string {
	if lvl := headingLevelFromTag(tag); lvl > 0 {
		return fmt.Sprintf("Heading %d", lvl)
	}
	return "Normal"
}

// KindOf reports whether a word style name from the enumerated set is a
// paragraph or a character style.
func (m *Map) KindOf(wordStyle string) (Kind, bool) {
	sel, ok := m.toSel[wordStyle]
	if !ok {
		return KindParagraph, false
	}
	return m.toWord[sel].kind, true
}

// Names returns all word style names in the enumerated set.
func (m *Map) Names() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// DetectStyles returns the word style names whose class marker occurs in
// the given HTML. Used for UI display after import, substring search is
// good enough there.
func (m *Map) DetectStyles(html string) []string {
	var found []string
	for _, e := range entries {
		if e.sel.ClassName == "" {
			continue
		}
		if strings.Contains(html, e.sel.ClassName) {
			found = append(found, e.word)
		}
	}
	return found
}

func headingLevelFromTag(tag string) int {
	tag = strings.ToLower(tag)
	if len(tag) == 2 && tag[0] == 'h' && tag[1] >= '1' && tag[1] <= '6' {
		return int(tag[1] - '0')
	}
	return 0
}

func headingLevelFromName(name string) int {
	s := strings.ToLower(name)
	if rest, ok := strings.CutPrefix(s, "heading "); ok {
		if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
			return int(rest[0] - '0')
		}
	}
	return 0
}

// HeadingLevel exposes tag based heading detection for converter use.
func HeadingLevel(tag string) int {
	return headingLevelFromTag(tag)
}
