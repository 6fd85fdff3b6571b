package styles

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"twrn/css"
	"twrn/native"
)

// DefaultRemBase is number of pixels in 1rem.
const DefaultRemBase = 16

// Normalize prepares rule declarations for conversion. Declarations using
// var(), custom properties and line-height are dropped, rem values are
// converted to pixels.
func Normalize(decls []css.Declaration, remBase float64) []native.Declaration {
	res := make([]native.Declaration, 0, len(decls))
	for _, d := range decls {
		if dropReason(d) != "" {
			continue
		}
		value := d.Value
		if strings.HasSuffix(value, "rem") {
			value = RemToPx(value, remBase)
		}
		res = append(res, native.Declaration{Property: d.Property, Value: value})
	}
	return res
}

// dropReason explains why declaration is not converted, empty when it is.
func dropReason(d css.Declaration) string {
	switch {
	case strings.Contains(d.Value, "var("):
		// unresolved at build time
		return "uses var()"
	case strings.Contains(d.Property, "--"):
		return "custom property"
	case d.Property == "line-height":
		// unitless line heights have no native counterpart
		return "line-height"
	}
	return ""
}

var reLeadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// RemToPx multiplies numeric prefix of value by base and appends px.
// Value without numeric prefix gives "NaNpx".
func RemToPx(value string, base float64) string {
	return formatNumber(leadingNumber(value)*base) + "px"
}

// leadingNumber parses longest numeric prefix of s ignoring leading
// whitespace, NaN when there is none.
func leadingNumber(s string) float64 {
	s = strings.TrimLeft(s, " \t\n\r\f\v")
	for _, inf := range []string{"Infinity", "+Infinity"} {
		if strings.HasPrefix(s, inf) {
			return math.Inf(1)
		}
	}
	if strings.HasPrefix(s, "-Infinity") {
		return math.Inf(-1)
	}
	m := reLeadingNumber.FindString(s)
	if m == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		// exponent has no leading zeros: 1e-7, not 1e-07
		s := strconv.FormatFloat(v, 'e', -1, 64)
		i := strings.IndexByte(s, 'e') + 2
		return s[:i] + strings.TrimLeft(s[i:], "0")
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
