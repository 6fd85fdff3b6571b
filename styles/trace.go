package styles

import (
	"fmt"
	"strconv"
	"strings"

	"twrn/css"
)

// treeWriter accumulates indented text, two spaces per level.
type treeWriter struct {
	w *strings.Builder
}

func newTreeWriter() *treeWriter {
	return &treeWriter{w: &strings.Builder{}}
}

func (tw treeWriter) String() string {
	return tw.w.String()
}

func (tw treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.w.WriteString("  ")
	}
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// Explain describes what mapping does with every class of rules: which
// allow-list entry accepted it and what happened to each declaration. It is
// meant for debug reports.
func Explain(rules []css.Rule, remBase float64) string {
	if remBase <= 0 {
		remBase = DefaultRemBase
	}
	tw := newTreeWriter()
	for _, r := range rules {
		for _, sel := range r.Selectors {
			if !sel.IsClass() {
				tw.line(0, "%s: not a class", strconv.Quote(sel.Raw))
				continue
			}
			class := UtilityName(sel.Raw)
			u, ok := Lookup(class)
			if !ok {
				tw.line(0, "%s: dropped", strconv.Quote(class))
				continue
			}
			tw.line(0, "%s: %s %s", strconv.Quote(class), u.Category, u)
			for _, d := range r.Declarations {
				if reason := dropReason(d); reason != "" {
					tw.line(1, "%s: %s (dropped, %s)", d.Property, d.Value, reason)
					continue
				}
				if strings.HasSuffix(d.Value, "rem") {
					tw.line(1, "%s: %s => %s", d.Property, d.Value, RemToPx(d.Value, remBase))
					continue
				}
				tw.line(1, "%s: %s", d.Property, d.Value)
			}
		}
	}
	return tw.String()
}
