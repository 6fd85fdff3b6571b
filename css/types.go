package css

import (
	"fmt"
	"io"
	"strings"
)

// Declaration is a single property declaration with its raw value.
type Declaration struct {
	Property string // Property name as written, custom properties included (e.g. "--tw-bg-opacity")
	Value    string // Value as written, comments dropped and whitespace collapsed (e.g. "rgba(0, 0, 0, var(--tw-bg-opacity))")
}

// Selector is a single selector of a (possibly grouped) rule.
type Selector struct {
	Raw string // Original selector text, escapes preserved (e.g. ".w-1\/2")
}

// IsClass returns true if the selector starts with a class.
func (s Selector) IsClass() bool {
	return strings.HasPrefix(s.Raw, ".")
}

// Rule is a plain style rule: selector group plus ordered declarations.
type Rule struct {
	Selectors    []Selector
	Declarations []Declaration
}

// MediaBlock represents a @media block with its query and nested rules.
type MediaBlock struct {
	Query string
	Rules []Rule
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, or AtRule is set.
type StylesheetItem struct {
	Rule       *Rule       // A plain rule
	MediaBlock *MediaBlock // A @media block containing nested rules
	AtRule     string      // Name of any other at-rule, content is not kept
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	Items    []StylesheetItem // All top-level items in source order
	Warnings []string         // Warnings for skipped features
}

// Rules returns all top-level plain rules in source order. Rules nested in
// @media blocks are not included.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Skipped at-rules are written as comments.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		default:
			n, err = fmt.Fprintf(w, "/* %s skipped */\n", item.AtRule)
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

func selectorText(rule *Rule) string {
	raws := make([]string, 0, len(rule.Selectors))
	for _, sel := range rule.Selectors {
		raws = append(raws, sel.Raw)
	}
	return strings.Join(raws, ", ")
}

// writeRule writes a single CSS rule to w, declarations in source order.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, selectorText(rule))
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s: %s;\n", indent, d.Property, d.Value)
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
