package native

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// PropertyName converts CSS property name to its React Native name.
func PropertyName(cssProperty string) string {
	if strings.HasPrefix(cssProperty, "--") {
		return cssProperty
	}
	// -ms- is the only vendor prefix which stays lower case
	if strings.HasPrefix(cssProperty, "-ms-") {
		cssProperty = cssProperty[1:]
	}
	return camelize(cssProperty)
}

// camelize upper-cases every character following a hyphen and drops the hyphen.
func camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i+1 < len(s) {
			r, size := utf8.DecodeRuneInString(s[i+1:])
			sb.WriteRune(unicode.ToUpper(r))
			i += size
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
