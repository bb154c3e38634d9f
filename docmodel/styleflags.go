// Package docmodel defines the word-processor primitives the converter
// emits: inline style flags, text runs and document blocks. The model is
// deliberately small - it covers exactly what the editor surface can
// produce and what the OOXML writer can express.
package docmodel

// StyleFlags is the inline formatting accumulator. Values are merged top
// down while walking the markup tree: a child starts from its parent's
// resolved flags and may add or override, never subtract. The zero value
// means "no explicit formatting".
//
// StyleFlags is a value type on purpose. Every derivation step copies it,
// so no node ever observes mutations made for its siblings or children.
type StyleFlags struct {
	Bold      bool
	Italics   bool
	Underline bool
	Strike    bool

	// Color is a 6-digit uppercase hex RGB value without "#". Empty means
	// destination default.
	Color string

	// Font is a font family name, empty means destination default.
	Font string

	SuperScript bool
	SubScript   bool
}

// WithSuperScript returns flags with superscript set. Superscript and
// subscript are mutually exclusive, setting one clears the other.
func (f StyleFlags) WithSuperScript() StyleFlags {
	f.SuperScript = true
	f.SubScript = false
	return f
}

// WithSubScript returns flags with subscript set, clearing superscript.
func (f StyleFlags) WithSubScript() StyleFlags {
	f.SubScript = true
	f.SuperScript = false
	return f
}

// IsZero reports whether no formatting is set.
func (f StyleFlags) IsZero() bool {
	return f == StyleFlags{}
}
