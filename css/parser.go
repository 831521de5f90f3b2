// Package css parses additional user stylesheets so they can be checked,
// normalized and copied next to the produced page.
package css

import (
	"bytes"
	"errors"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

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

// Parse parses CSS text into a Stylesheet. Malformed parts are skipped and
// reported in Stylesheet.Warnings. The optional source parameter identifies
// what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	sheet := &Stylesheet{}

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(bytes.NewReader(data)), false)
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if p.stop(parser, sheet) {
				return sheet
			}

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			switch atRule {
			case "@media":
				query := joinTokens(parser.Values())
				rules := p.parseMediaBlockRules(parser, sheet)
				p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{MediaBlock: &MediaBlock{Query: query, Rules: rules}})
			case "@font-face":
				ff := p.parseFontFace(parser, sheet)
				if ff.Family == "" {
					sheet.Warnings = append(sheet.Warnings, "@font-face without font-family dropped")
					continue
				}
				sheet.Items = append(sheet.Items, StylesheetItem{FontFace: &ff})
			default:
				p.skipAtRuleBlock(parser)
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule dropped: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
			}

		case css.AtRuleGrammar:
			// simple @-rule without block (e.g., @import)
			atRule := string(data)
			if atRule != "@import" {
				sheet.Warnings = append(sheet.Warnings, "unsupported at-rule dropped: "+atRule)
				p.log.Debug("Skipping @-rule", zap.String("rule", atRule))
				continue
			}
			if url := extractImportURL(parser.Values()); url != "" {
				sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
				p.log.Debug("Parsed @import", zap.String("url", url))
			}

		case css.BeginRulesetGrammar:
			rule := Rule{Selectors: parseSelectors(data, parser.Values())}
			rule.Declarations = p.parseDeclarations(parser, sheet, css.EndRulesetGrammar)
			if len(rule.Selectors) > 0 {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: &rule})
			}
		}
	}
}

// stop decides whether parsing should end on ErrorGrammar. Errors other than
// end of input are recorded and parsing continues with the next construct.
func (p *Parser) stop(parser *css.Parser, sheet *Stylesheet) bool {
	err := parser.Err()
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	p.log.Debug("CSS parse error", zap.Error(err))
	sheet.Warnings = append(sheet.Warnings, err.Error())
	return false
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			s := strings.TrimPrefix(string(t.Data), "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// parseSelectors splits grouped selector on top level commas.
func parseSelectors(data []byte, values []css.Token) []string {
	var (
		selectors []string
		cur       strings.Builder
		depth     int
	)
	cur.Write(data)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			selectors = append(selectors, s)
		}
		cur.Reset()
	}
	for _, v := range values {
		switch v.TokenType {
		case css.LeftParenthesisToken, css.LeftBracketToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
		case css.CommaToken:
			if depth == 0 {
				flush()
				continue
			}
		}
		cur.Write(v.Data)
	}
	flush()
	return selectors
}

// parseDeclarations collects declarations until end grammar.
func (p *Parser) parseDeclarations(parser *css.Parser, sheet *Stylesheet, end css.GrammarType) []Declaration {
	var decls []Declaration
	for {
		gt, _, data := parser.Next()
		switch gt {
		case end:
			return decls
		case css.ErrorGrammar:
			if p.stop(parser, sheet) {
				return decls
			}
		case css.DeclarationGrammar:
			if d, ok := makeDeclaration(string(data), parser.Values()); ok {
				decls = append(decls, d)
			}
		case css.CustomPropertyGrammar:
			if values := parser.Values(); len(values) > 0 {
				decls = append(decls, Declaration{Property: string(data), Value: strings.TrimSpace(string(values[0].Data))})
			}
		}
	}
}

func makeDeclaration(property string, values []css.Token) (Declaration, bool) {
	d := Declaration{Property: property}
	// trailing "!important" arrives as delimiter followed by ident
	if n := len(values); n >= 2 && values[n-2].TokenType == css.DelimToken && string(values[n-2].Data) == "!" &&
		strings.EqualFold(string(values[n-1].Data), "important") {
		d.Important = true
		values = values[:n-2]
	}
	d.Value = joinTokens(values)
	return d, d.Value != ""
}

// joinTokens rebuilds value text collapsing whitespace.
func joinTokens(tokens []css.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			continue
		}
		b.Write(t.Data)
	}
	return strings.TrimSpace(b.String())
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err == nil || errors.Is(err, io.EOF) {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseFontFace parses an @font-face block.
func (p *Parser) parseFontFace(parser *css.Parser, sheet *Stylesheet) FontFace {
	ff := FontFace{Declarations: p.parseDeclarations(parser, sheet, css.EndAtRuleGrammar)}
	for _, d := range ff.Declarations {
		if d.Property == "font-family" {
			ff.Family = unquote(d.Value)
		}
	}
	return ff
}

// parseMediaBlockRules parses rules inside an @media block.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, sheet *Stylesheet) []Rule {
	var rules []Rule
	for {
		gt, _, data := parser.Next()
		switch gt {
		case css.EndAtRuleGrammar:
			return rules
		case css.ErrorGrammar:
			if p.stop(parser, sheet) {
				return rules
			}
		case css.BeginAtRuleGrammar:
			p.skipAtRuleBlock(parser)
			sheet.Warnings = append(sheet.Warnings, "nested at-rule in @media dropped: "+string(data))
		case css.BeginRulesetGrammar:
			rule := Rule{Selectors: parseSelectors(data, parser.Values())}
			rule.Declarations = p.parseDeclarations(parser, sheet, css.EndRulesetGrammar)
			if len(rule.Selectors) > 0 {
				rules = append(rules, rule)
			}
		}
	}
}

// unquote removes surrounding quotes from a string.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return s
	}
	if (s[0] == '"' && s[len(s)-1] == '"') ||
		(s[0] == '\'' && s[len(s)-1] == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
