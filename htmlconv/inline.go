package htmlconv

import (
	"strings"

	"golang.org/x/net/html"

	"qpc/css"
	"qpc/docmodel"
)

// linkColor is the default hyperlink color, overridable by an explicit
// color declaration on the anchor itself.
const linkColor = "0563C1"

// monospaceFont is what code/pre map to in the destination document.
const monospaceFont = "Courier New"

// DeriveStyle computes the merged inline style flags for an element given
// the flags inherited from its parent. Deterministic and pure: tag
// semantics first, then the restricted style attribute subset. Children
// always receive a copy - inherited flags are never mutated.
//
// Inheritance is additive: an element can set flags or override color and
// font, it can never clear an inherited flag. The single exception is the
// superscript/subscript pair which is mutually exclusive.
func DeriveStyle(n *html.Node, inherited docmodel.StyleFlags) docmodel.StyleFlags {
	f := inherited

	switch n.Data {
	case "strong", "b":
		f.Bold = true
	case "em", "i", "cite", "var":
		f.Italics = true
	case "u", "ins":
		f.Underline = true
	case "del", "s", "strike":
		f.Strike = true
	case "code", "pre", "kbd", "samp", "tt":
		f.Font = monospaceFont
	case "sup":
		f = f.WithSuperScript()
	case "sub":
		f = f.WithSubScript()
	case "a":
		f.Underline = true
		if f.Color == "" {
			f.Color = linkColor
		}
	}

	return applyStyleAttr(n, f)
}

// applyStyleAttr folds the honored style attribute properties into the
// flag set. Only font-weight, font-style, text-decoration and color are
// recognized, any other declaration is ignored.
func applyStyleAttr(n *html.Node, f docmodel.StyleFlags) docmodel.StyleFlags {
	style := attrValue(n, "style")
	if style == "" {
		return f
	}
	decls := css.ParseDeclarations(style)
	if len(decls) == 0 {
		return f
	}

	if v, ok := decls.Get("font-weight"); ok {
		if v.IsNumeric() {
			if v.Value >= 600 {
				f.Bold = true
			}
		} else if v.Contains("bold") {
			f.Bold = true
		}
	}
	if v, ok := decls.Get("font-style"); ok && v.Contains("italic") {
		f.Italics = true
	}
	if v, ok := decls.Get("text-decoration"); ok {
		// one declaration can set both flags: "underline line-through"
		if v.Contains("underline") {
			f.Underline = true
		}
		if v.Contains("line-through") {
			f.Strike = true
		}
	}
	if v, ok := decls.Get("color"); ok {
		if hex, ok := css.ParseColor(v.Raw); ok {
			f.Color = hex
		}
	}

	return f
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func classList(n *html.Node) []string {
	return strings.Fields(attrValue(n, "class"))
}
