package css

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseColor normalizes a CSS color literal to a 6-digit uppercase hex
// string without "#". Accepted forms: #RGB, #RRGGBB, rgb(r,g,b) and
// rgba(r,g,b,a) with decimal components. Everything else (named colors,
// hsl, ...) is outside the honored subset and reports false.
func ParseColor(raw string) (string, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba("):
		return parseRGBColor(s)
	}
	return "", false
}

func parseHexColor(hex string) (string, bool) {
	switch len(hex) {
	case 3:
		var b strings.Builder
		for _, c := range hex {
			if !isHexDigit(byte(c)) {
				return "", false
			}
			b.WriteRune(c)
			b.WriteRune(c)
		}
		return strings.ToUpper(b.String()), true
	case 6:
		for i := 0; i < 6; i++ {
			if !isHexDigit(hex[i]) {
				return "", false
			}
		}
		return strings.ToUpper(hex), true
	}
	return "", false
}

func parseRGBColor(s string) (string, bool) {
	open := strings.IndexByte(s, '(')
	close := strings.IndexByte(s, ')')
	if open < 0 || close < open {
		return "", false
	}
	parts := strings.Split(s[open+1:close], ",")
	if len(parts) < 3 {
		return "", false
	}
	var rgb [3]int
	for i := 0; i < 3; i++ {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return "", false
		}
		rgb[i] = n
	}
	// alpha component of rgba() is ignored, destination has no transparency
	return fmt.Sprintf("%02X%02X%02X", rgb[0], rgb[1], rgb[2]), true
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}
