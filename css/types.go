// Package css implements the restricted CSS support the converter honors:
// inline style attribute declarations with a fixed, enumerated property
// set. Anything else is deliberately ignored - the editing surface never
// produces arbitrary stylesheets and the destination format could not
// express them anyway.
package css

import (
	"strings"
	"unicode"
)

// Value represents a parsed CSS property value.
type Value struct {
	Raw     string  // Original CSS value string (e.g., "1.2em", "bold", "#ff0000")
	Value   float64 // Numeric value if applicable
	Unit    string  // Unit if applicable: "em", "px", "%", "pt", etc.
	Keyword string  // Keyword if applicable: "bold", "italic", "center", etc.
}

// IsNumeric returns true if the value has a numeric component.
// This includes explicit zero values like "0" or "0px".
func (v Value) IsNumeric() bool {
	if v.Unit != "" {
		return true
	}
	if v.Value != 0 && v.Keyword == "" {
		return true
	}
	if v.Raw != "" && v.Keyword == "" {
		firstChar := rune(v.Raw[0])
		if unicode.IsDigit(firstChar) || firstChar == '.' || firstChar == '-' || firstChar == '+' {
			return true
		}
	}
	return false
}

// IsKeyword returns true if the value is a keyword (no numeric component).
func (v Value) IsKeyword() bool {
	return v.Keyword != "" && v.Unit == ""
}

// Contains reports whether the raw value contains the given substring,
// case-insensitively. text-decoration and font-weight matching relies on
// substring semantics ("underline line-through" sets two flags at once).
func (v Value) Contains(sub string) bool {
	return strings.Contains(strings.ToLower(v.Raw), strings.ToLower(sub))
}

// Pixels returns the numeric value when it is expressed in pixels or
// without a unit. Relative units are not honored here.
func (v Value) Pixels() (float64, bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	switch v.Unit {
	case "", "px":
		return v.Value, v.Value > 0
	}
	return 0, false
}

// Declarations maps lowercased property names to parsed values.
type Declarations map[string]Value

// Get returns the value for the property and whether it was declared.
func (d Declarations) Get(name string) (Value, bool) {
	v, ok := d[name]
	return v, ok
}
