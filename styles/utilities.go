package styles

import (
	"strings"

	"github.com/dlclark/regexp2"

	"twrn/css"
)

// Utility is a single allow-list entry: exact class name or a pattern
// matching family of class names.
type Utility struct {
	Category string
	Name     string
	Pattern  *regexp2.Regexp
}

// Match reports whether class name is covered by the entry.
func (u Utility) Match(class string) bool {
	if u.Pattern == nil {
		return u.Name == class
	}
	ok, err := u.Pattern.MatchString(class)
	return err == nil && ok
}

func (u Utility) String() string {
	if u.Pattern == nil {
		return u.Name
	}
	return "/" + u.Pattern.String() + "/"
}

func exact(category, name string) Utility {
	return Utility{Category: category, Name: name}
}

// pattern compiles expression with ECMAScript semantics, some entries rely
// on lookahead.
func pattern(category, expr string) Utility {
	return Utility{Category: category, Pattern: regexp2.MustCompile(expr, regexp2.ECMAScript)}
}

// utilities is ordered, first match wins.
var utilities = []Utility{
	pattern("Flexbox", `^flex`),
	pattern("Flexbox", `^items-`),
	pattern("Flexbox", `^content-`),
	pattern("Flexbox", `^justify-`),
	pattern("Flexbox", `^self-`),

	exact("Display", "hidden"),
	exact("Display", "overflow-hidden"),
	exact("Display", "overflow-visible"),
	exact("Display", "overflow-scroll"),

	exact("Position", "absolute"),
	exact("Position", "relative"),

	pattern("Top, right, bottom, left", `^(inset-0|inset-x-0|inset-y-0)`),
	pattern("Top, right, bottom, left", `^(top|bottom|left|right)-0$`),

	pattern("Z index", `^z-\d+$`),

	pattern("Padding", `^(p.?-\d+|p.?-px)`),
	pattern("Margin", `^-?(m.?-\d+|m.?-px)`),

	pattern("Width", `^w-(\d|\/)+|^w-px|^w-full`),
	pattern("Height", `^(h-\d+|h-px|h-full)`),
	pattern("Min/max width/height", `^(min-w-|max-w-|min-h-0|min-h-full|max-h-full)`),

	pattern("Font size, text align, text color", `^text-`),
	pattern("Font style", `^(not-)?italic$`),
	pattern("Font weight", `^font-(hairline|thin|light|normal|medium|semibold|bold|extrabold|black)`),
	pattern("Letter spacing", `^tracking-`),
	pattern("Line height", `^leading-`),

	exact("Text transform", "uppercase"),
	exact("Text transform", "lowercase"),
	exact("Text transform", "capitalize"),
	exact("Text transform", "normal-case"),

	pattern("Background color", `^bg-(transparent|black|white|gray|red|orange|yellow|green|teal|blue|indigo|purple|pink)`),

	pattern("Border", `^border-(?!current)`),
	pattern("Border", `^rounded`),

	pattern("Opacity", `^opacity-`),
	pattern("Pointer events", `^pointer-events-`),
}

// Utilities returns copy of the allow-list in match order.
func Utilities() []Utility {
	res := make([]Utility, len(utilities))
	copy(res, utilities)
	return res
}

// Supported reports whether class name is on the allow-list.
func Supported(class string) bool {
	_, ok := Lookup(class)
	return ok
}

// Lookup returns first allow-list entry matching class name.
func Lookup(class string) (Utility, bool) {
	for _, u := range utilities {
		if u.Match(class) {
			return u, true
		}
	}
	return Utility{}, false
}

// UtilityName turns raw selector into class name: one leading dot is
// removed and the first escaped slash is unescaped (.w-1\/2 → w-1/2).
func UtilityName(selector string) string {
	return strings.Replace(strings.TrimPrefix(selector, "."), `\/`, "/", 1)
}

// Partition splits class names of top-level rules into supported and
// dropped ones, each name reported once in order of appearance. Selectors
// which are not classes are ignored.
func Partition(rules []css.Rule) (supported, dropped []string) {
	seen := make(map[string]struct{})
	for _, r := range rules {
		for _, sel := range r.Selectors {
			if !sel.IsClass() {
				continue
			}
			name := UtilityName(sel.Raw)
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			if Supported(name) {
				supported = append(supported, name)
			} else {
				dropped = append(dropped, name)
			}
		}
	}
	return supported, dropped
}
