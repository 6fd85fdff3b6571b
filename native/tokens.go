package native

import (
	"regexp"
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/image/colornames"
)

type nodeKind int

const (
	nodeWord nodeKind = iota
	nodeString
	nodeSpace
	nodeComma
	nodeSlash
	nodeFunction
)

// node is a single component of a declaration value: a word, a quoted
// string, whitespace, a divider or a function call with its arguments.
type node struct {
	kind nodeKind
	text string // raw text, unquoted for strings
	name string // lower-cased function name
}

// tokenize splits declaration value into nodes. Whitespace around dividers
// belongs to the divider.
func tokenize(value string) []node {
	l := css.NewLexer(parse.NewInputString(value))

	var (
		nodes []node
		word  strings.Builder
	)
	flushWord := func() {
		if word.Len() > 0 {
			nodes = append(nodes, node{kind: nodeWord, text: word.String()})
			word.Reset()
		}
	}
	push := func(n node) {
		flushWord()
		switch n.kind {
		case nodeSpace:
			if len(nodes) > 0 {
				if k := nodes[len(nodes)-1].kind; k == nodeComma || k == nodeSlash || k == nodeSpace {
					return
				}
			}
		case nodeComma, nodeSlash:
			if len(nodes) > 0 && nodes[len(nodes)-1].kind == nodeSpace {
				nodes = nodes[:len(nodes)-1]
			}
		}
		nodes = append(nodes, n)
	}

	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			flushWord()
			if len(nodes) > 0 && nodes[len(nodes)-1].kind == nodeSpace {
				nodes = nodes[:len(nodes)-1]
			}
			if len(nodes) > 0 && nodes[0].kind == nodeSpace {
				nodes = nodes[1:]
			}
			return nodes
		case css.WhitespaceToken, css.CommentToken:
			push(node{kind: nodeSpace, text: " "})
		case css.CommaToken:
			push(node{kind: nodeComma, text: ","})
		case css.StringToken:
			push(node{kind: nodeString, text: unquote(string(data))})
		case css.FunctionToken:
			name := strings.ToLower(strings.TrimSuffix(string(data), "("))
			push(node{kind: nodeFunction, name: name, text: string(data) + readArguments(l)})
		case css.DelimToken:
			if len(data) == 1 && data[0] == '/' {
				push(node{kind: nodeSlash, text: "/"})
				continue
			}
			word.Write(data)
		default:
			word.Write(data)
		}
	}
}

// readArguments consumes function arguments up to and including the closing
// parenthesis and returns their raw text.
func readArguments(l *css.Lexer) string {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return sb.String()
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			depth--
		}
		sb.Write(data)
	}
	return sb.String()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// matcher checks a single node and returns its value when node matches.
type matcher func(n node) (any, bool)

const numberPattern = `[+-]?(?:\d*\.)?\d+(?:e[+-]?\d+)?`

var (
	reNumber          = regexp.MustCompile(`(?i)^` + numberPattern + `$`)
	reLength          = regexp.MustCompile(`(?i)^(` + numberPattern + `)px$`)
	reUnsupportedUnit = regexp.MustCompile(`(?i)^` + numberPattern + `(?:ch|em|ex|rem|vh|vw|vmin|vmax|cm|mm|in|pc|pt)$`)
	rePercent         = regexp.MustCompile(`^` + numberPattern + `%$`)
	reIdent           = regexp.MustCompile(`(?i)^-?[_a-z][_a-z0-9-]*$`)
	reNone            = regexp.MustCompile(`(?i)^none$`)
	reAuto            = regexp.MustCompile(`(?i)^auto$`)
	reHexColor        = regexp.MustCompile(`(?i)^#(?:[0-9a-f]{3,4}){1,2}$`)
	reColorFunction   = regexp.MustCompile(`^(?:rgba?|hsla?|hwb|lab|lch|gray|color)$`)
	reLine            = regexp.MustCompile(`(?i)^(?:none|underline|line-through)$`)
	reDecorationStyle = regexp.MustCompile(`^(?:solid|double|dotted|dashed)$`)
)

func matchSpace(n node) (any, bool) { return nil, n.kind == nodeSpace }
func matchComma(n node) (any, bool) { return nil, n.kind == nodeComma }
func matchSlash(n node) (any, bool) { return nil, n.kind == nodeSlash }

func matchWord(n node) (any, bool) {
	if n.kind != nodeWord {
		return nil, false
	}
	return n.text, true
}

func matchString(n node) (any, bool) {
	if n.kind != nodeString {
		return nil, false
	}
	return n.text, true
}

// wordMatching returns matcher accepting words which match re.
func wordMatching(re *regexp.Regexp) matcher {
	return func(n node) (any, bool) {
		if n.kind != nodeWord || !re.MatchString(n.text) {
			return nil, false
		}
		return n.text, true
	}
}

var (
	matchNone             = wordMatching(reNone)
	matchAuto             = wordMatching(reAuto)
	matchIdent            = wordMatching(reIdent)
	matchPercent          = wordMatching(rePercent)
	matchUnsupportedUnit  = wordMatching(reUnsupportedUnit)
	matchLine             = wordMatching(reLine)
	matchDecorationStyle  = wordMatching(reDecorationStyle)
	matchFlexWrap         = wordMatching(regexp.MustCompile(`^(?:nowrap|wrap|wrap-reverse)$`))
	matchFlexDirection    = wordMatching(regexp.MustCompile(`^(?:row|row-reverse|column|column-reverse)$`))
	matchBorderStyle      = wordMatching(regexp.MustCompile(`^(?:solid|dashed|dotted)$`))
	matchAlignContent     = wordMatching(regexp.MustCompile(`^(?:flex-start|flex-end|center|stretch|space-between|space-around)$`))
	matchJustifyContent   = wordMatching(regexp.MustCompile(`^(?:flex-start|flex-end|center|space-between|space-around|space-evenly)$`))
	matchFontVariantValue = matchIdent
)

func matchNumber(n node) (any, bool) {
	if n.kind != nodeWord || !reNumber.MatchString(n.text) {
		return nil, false
	}
	return parseNumber(n.text)
}

// matchLength accepts 0 and pixel lengths.
func matchLength(n node) (any, bool) {
	if n.kind != nodeWord {
		return nil, false
	}
	if n.text == "0" {
		return float64(0), true
	}
	m := reLength.FindStringSubmatch(n.text)
	if m == nil {
		return nil, false
	}
	return parseNumber(m[1])
}

func matchColor(n node) (any, bool) {
	switch n.kind {
	case nodeWord:
		if reHexColor.MatchString(n.text) || isColorKeyword(n.text) {
			return n.text, true
		}
	case nodeFunction:
		if reColorFunction.MatchString(n.name) {
			return n.text, true
		}
	}
	return nil, false
}

func isColorKeyword(s string) bool {
	switch s {
	case "transparent", "rebeccapurple":
		return true
	}
	_, ok := colornames.Map[s]
	return ok
}

func parseNumber(s string) (any, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return v, true
}
