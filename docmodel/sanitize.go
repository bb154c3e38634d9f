package docmodel

import (
	"strings"
	"unicode"
)

// isRejectedControl reports control characters the OOXML writer outright
// rejects: U+0000-U+0008, U+000B, U+000C, U+000E-U+001F and U+007F.
// Tab, LF and CR survive (they are normalized separately).
func isRejectedControl(r rune) bool {
	switch {
	case r >= 0x00 && r <= 0x08:
		return true
	case r == 0x0B || r == 0x0C:
		return true
	case r >= 0x0E && r <= 0x1F:
		return true
	case r == 0x7F:
		return true
	}
	return false
}

// SanitizeText removes characters the destination binary format rejects.
// This is a hard correctness requirement - a single stray control
// character makes the whole produced document invalid for the consumer.
func SanitizeText(in string) string {
	if !strings.ContainsFunc(in, isRejectedControl) {
		return in
	}
	return strings.Map(func(r rune) rune {
		if isRejectedControl(r) {
			return -1
		}
		return r
	}, in)
}

// NormalizeSpace collapses consecutive whitespace into single spaces the
// way HTML rendering does. Leading and trailing space is preserved as a
// single space so run boundaries inside a paragraph stay intact.
func NormalizeSpace(in string) string {
	if in == "" {
		return ""
	}
	var (
		b        strings.Builder
		inSpace  bool
		anyWrite bool
	)
	b.Grow(len(in))
	for _, r := range in {
		if unicode.IsSpace(r) {
			inSpace = true
			continue
		}
		if inSpace && anyWrite {
			b.WriteByte(' ')
		} else if inSpace && !anyWrite {
			b.WriteByte(' ')
		}
		inSpace = false
		anyWrite = true
		b.WriteRune(r)
	}
	if inSpace {
		b.WriteByte(' ')
	}
	return b.String()
}

// IsBlankText reports whether the string has no visible characters.
func IsBlankText(in string) bool {
	return strings.TrimSpace(in) == ""
}
