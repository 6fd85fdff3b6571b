package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ParseError is returned when stylesheet text is malformed.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("unable to parse stylesheet: %v", e.Err)
	}
	return fmt.Sprintf("unable to parse stylesheet %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser parses CSS stylesheets into structured rules.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// Parse parses CSS text into a Stylesheet.
// The optional source parameter identifies what's being parsed (for logging and errors).
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	var name string
	if len(source) > 0 {
		name = source[0]
	}

	sheet := &Stylesheet{
		Items:    make([]StylesheetItem, 0),
		Warnings: make([]string, 0),
	}

	// stylesheets saved by some editors start with BOM
	data, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), data)
	if err != nil {
		return nil, &ParseError{Source: name, Err: err}
	}

	p.log.Debug("Parsing CSS", zap.String("source", name), zap.Int("bytes", len(data)))

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)

	for {
		gt, _, value := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, &ParseError{Source: name, Err: err}
			}
			p.log.Debug("Parsed CSS", zap.String("source", name), zap.Int("items", len(sheet.Items)), zap.Int("warnings", len(sheet.Warnings)))
			return sheet, nil

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(value))
			switch atRule {
			case "@media":
				query := joinTokens(parser.Values())
				rules, err := p.parseMediaBlockRules(parser, data)
				if err != nil {
					return nil, &ParseError{Source: name, Err: err}
				}
				p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: query, Rules: rules},
				})
			default:
				// keyframes, font-face, supports and friends have no use here
				if err := p.skipAtRuleBlock(parser); err != nil {
					return nil, &ParseError{Source: name, Err: err}
				}
				sheet.Items = append(sheet.Items, StylesheetItem{AtRule: atRule})
				sheet.Warnings = append(sheet.Warnings, "skipped at-rule block: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import, @charset)
			atRule := strings.ToLower(string(value))
			sheet.Items = append(sheet.Items, StylesheetItem{AtRule: atRule})
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.BeginRulesetGrammar:
			rule, err := p.parseRuleset(parser, data)
			if err != nil {
				return nil, &ParseError{Source: name, Err: err}
			}
			sheet.Items = append(sheet.Items, StylesheetItem{Rule: rule})
		}
	}
}

// splitSelectors splits selector group tokens on top level commas.
func splitSelectors(tokens []css.Token) []Selector {
	var (
		selectors []Selector
		current   []css.Token
		depth     int
	)
	flush := func() {
		if s := joinTokens(current); s != "" {
			selectors = append(selectors, Selector{Raw: s})
		}
		current = current[:0]
	}
	for _, t := range tokens {
		switch t.TokenType {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		current = append(current, t)
	}
	flush()
	return selectors
}

var (
	errMissingBrace    = errors.New("missing '}'")
	errSelectorMissing = errors.New("selector missing")
)

// parseRuleset reads selector group of the ruleset just started and its
// declarations.
func (p *Parser) parseRuleset(parser *css.Parser, src []byte) (*Rule, error) {
	selectors := splitSelectors(parser.Values())
	if len(selectors) == 0 {
		return nil, errSelectorMissing
	}
	decls, err := p.parseDeclarations(parser, src)
	if err != nil {
		return nil, err
	}
	return &Rule{Selectors: selectors, Declarations: decls}, nil
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
// Declaration order is preserved and custom properties are kept. Values are
// taken from src as written since parser token lists lose spaces around
// commas and slashes.
func (p *Parser) parseDeclarations(parser *css.Parser, src []byte) ([]Declaration, error) {
	decls := make([]Declaration, 0)

	for {
		start := parser.Offset()
		gt, tt, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, errMissingBrace

		case css.EndRulesetGrammar:
			if tt == css.ErrorToken {
				return nil, errMissingBrace
			}
			return decls, nil

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			end := min(parser.Offset(), len(src))
			value := declarationValue(src[min(start, end):end])
			if value == "" {
				continue
			}
			decls = append(decls, Declaration{
				Property: string(data),
				Value:    value,
			})
		}
	}
}

// declarationValue extracts value from raw declaration text: everything
// after the first colon up to the terminating semicolon or brace. Comments
// are dropped and whitespace is collapsed to a single space.
func declarationValue(raw []byte) string {
	l := css.NewLexer(parse.NewInputString(string(raw)))

	var (
		sb      strings.Builder
		inValue bool
		space   bool
		depth   int
	)
	for {
		tt, data := l.Next()
		switch {
		case tt == css.ErrorToken:
			return sb.String()
		case !inValue:
			inValue = tt == css.ColonToken
			continue
		case tt == css.WhitespaceToken || tt == css.CommentToken:
			space = sb.Len() > 0
			continue
		case depth == 0 && (tt == css.SemicolonToken || tt == css.RightBraceToken):
			return sb.String()
		case tt == css.FunctionToken || tt == css.LeftParenthesisToken || tt == css.LeftBracketToken || tt == css.LeftBraceToken:
			depth++
		case tt == css.RightParenthesisToken || tt == css.RightBracketToken || tt == css.RightBraceToken:
			depth--
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.Write(data)
	}
}

// parseMediaBlockRules parses rules inside an @media block and returns them.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, src []byte) ([]Rule, error) {
	var rules []Rule

	for {
		gt, tt, _ := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, errMissingBrace

		case css.EndAtRuleGrammar:
			if tt == css.ErrorToken {
				return nil, errMissingBrace
			}
			return rules, nil

		case css.BeginAtRuleGrammar:
			if err := p.skipAtRuleBlock(parser); err != nil {
				return nil, err
			}

		case css.BeginRulesetGrammar:
			rule, err := p.parseRuleset(parser, src)
			if err != nil {
				return nil, err
			}
			rules = append(rules, *rule)
		}
	}
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) error {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
	return nil
}

// joinTokens builds value string collapsing any whitespace to a single space.
func joinTokens(tokens []css.Token) string {
	var rawParts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			rawParts = append(rawParts, string(t.Data))
		} else if len(rawParts) > 0 {
			rawParts = append(rawParts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(rawParts, ""))
}
