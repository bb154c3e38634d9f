package css

import (
	"strconv"
	"strings"
	"unicode"

	parse "github.com/tdewolff/parse/v2"
	cssparse "github.com/tdewolff/parse/v2/css"
)

// ParseDeclarations parses the content of an inline style attribute into
// property declarations. Malformed fragments are skipped, never fatal -
// contentEditable surfaces produce all kinds of garbage and one broken
// declaration must not cost the rest.
func ParseDeclarations(style string) Declarations {
	decls := make(Declarations)
	if strings.TrimSpace(style) == "" {
		return decls
	}

	input := parse.NewInput(strings.NewReader(style))
	parser := cssparse.NewParser(input, true)

	for {
		gt, _, data := parser.Next()
		switch gt {
		case cssparse.ErrorGrammar:
			// end of input or unrecoverable garbage
			return decls
		case cssparse.DeclarationGrammar:
			name := strings.ToLower(string(data))
			if values := parser.Values(); len(values) > 0 {
				decls[name] = parseTokens(values)
			}
		case cssparse.CustomPropertyGrammar:
			// CSS custom properties (--var) are out of honored scope
			continue
		}
	}
}

// parseTokens converts declaration value tokens to a Value.
func parseTokens(tokens []cssparse.Token) Value {
	if len(tokens) == 0 {
		return Value{}
	}

	// Build raw value string
	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != cssparse.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	raw := strings.TrimSpace(strings.Join(rawParts, ""))

	val := Value{Raw: raw}

	if len(tokens) == 1 || (len(tokens) == 2 && tokens[1].TokenType == cssparse.WhitespaceToken) {
		t := tokens[0]
		switch t.TokenType {
		case cssparse.DimensionToken:
			val.Value, val.Unit = parseDimension(string(t.Data))
		case cssparse.PercentageToken:
			val.Value, _ = strconv.ParseFloat(strings.TrimSuffix(string(t.Data), "%"), 64)
			val.Unit = "%"
		case cssparse.NumberToken:
			val.Value, _ = strconv.ParseFloat(string(t.Data), 64)
		case cssparse.IdentToken:
			val.Keyword = strings.ToLower(string(t.Data))
		case cssparse.StringToken:
			val.Keyword = unquote(string(t.Data))
		case cssparse.HashToken:
			// color literal, keep leading #
			val.Keyword = string(t.Data)
		}
		return val
	}

	// Function tokens (rgb(), ...) and multi-value properties keep the raw
	// string, callers match on substrings or run ParseColor.
	val.Keyword = raw
	return val
}

// parseDimension extracts numeric value and unit from dimension token.
func parseDimension(s string) (float64, string) {
	numEnd := 0
	for i, r := range s {
		if unicode.IsDigit(r) || r == '.' || r == '-' || r == '+' {
			numEnd = i + 1
		} else {
			break
		}
	}
	if numEnd == 0 {
		return 0, ""
	}
	num, _ := strconv.ParseFloat(s[:numEnd], 64)
	unit := strings.ToLower(s[numEnd:])
	return num, unit
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
