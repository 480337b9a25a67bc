// Package parser builds an AST from a lexer's token stream. The
// grammar follows §4.4: a config is a sequence of statements (options,
// blocks, comments, includes); a block is a matched open/close tag pair
// or a self-closing tag. The parser never opens an include's target —
// that is the loader's job, so that one parsed AST can be cached and
// re-walked wherever the same source is included within one load.
package parser

import (
	"fmt"
	"strings"

	"github.com/lefeck/apacheconf/ast"
	aerrors "github.com/lefeck/apacheconf/errors"
	"github.com/lefeck/apacheconf/lexer"
	"github.com/lefeck/apacheconf/token"
)

// Parser consumes a *lexer.Lexer and produces an *ast.Config.
type Parser struct {
	lex    *lexer.Lexer
	source string

	hasPeek bool
	peek    token.Token
}

// New creates a Parser reading from lex. source identifies the input
// in error messages.
func New(lex *lexer.Lexer, source string) *Parser {
	return &Parser{lex: lex, source: source}
}

// Parse reads the entire input and returns its AST.
func (p *Parser) Parse() (*ast.Config, error) {
	stmts, term, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if term.Kind == token.CloseTag {
		return nil, p.errf(term.Line, "unexpected closing tag </%s> without a matching open tag", term.Lexeme)
	}
	return &ast.Config{Children: stmts}, nil
}

func (p *Parser) errf(line int, format string, args ...interface{}) error {
	return aerrors.New(aerrors.ParseError, fmt.Sprintf(format, args...)).
		WithSource(p.source).
		WithLine(line).
		WithContext(aerrors.LineContext(p.lex.Text(), line))
}

// next returns the next token, consuming a pushed-back one if present.
func (p *Parser) next() (token.Token, error) {
	if p.hasPeek {
		p.hasPeek = false
		return p.peek, nil
	}
	return p.lex.NextStatement()
}

// pushback un-reads a single token for the next call to next().
func (p *Parser) pushback(tok token.Token) {
	p.peek = tok
	p.hasPeek = true
}

// parseStatements reads statements until EOF or an (unconsumed)
// CLOSE_TAG, which it returns to the caller without consuming further.
func (p *Parser) parseStatements() ([]ast.Statement, token.Token, error) {
	var stmts []ast.Statement
	for {
		tok, err := p.next()
		if err != nil {
			return nil, token.Token{}, err
		}
		switch tok.Kind {
		case token.EOF, token.CloseTag:
			return stmts, tok, nil
		case token.Newline:
			continue
		case token.HashComment:
			stmts = append(stmts, &ast.Comment{Text: tok.Lexeme, Style: ast.HashStyle, LineNo: tok.Line})
		case token.CComment:
			stmts = append(stmts, &ast.Comment{Text: tok.Lexeme, Style: ast.CStyle, LineNo: tok.Line})
		case token.OpenTag, token.OpenCloseTag:
			block, err := p.parseBlock(tok)
			if err != nil {
				return nil, token.Token{}, err
			}
			stmts = append(stmts, block)
		case token.OptionName:
			opt, err := p.parseOption(tok)
			if err != nil {
				return nil, token.Token{}, err
			}
			stmts = append(stmts, opt)
		case token.Include, token.ApacheInclude, token.ApacheIncludeOptional:
			inc, err := p.parseInclude(tok)
			if err != nil {
				return nil, token.Token{}, err
			}
			stmts = append(stmts, inc)
		default:
			return nil, token.Token{}, p.errf(tok.Line, "unexpected token %s", tok.Kind.String())
		}
	}
}

func (p *Parser) parseBlock(open token.Token) (*ast.Block, error) {
	tag, name, hasName, kind := splitTagBody(open)

	if open.Kind == token.OpenCloseTag {
		return &ast.Block{
			Tag: tag, Name: name, HasName: hasName, OpenKind: kind,
			SelfClosing: true, LineNo: open.Line,
		}, nil
	}

	children, term, err := p.parseStatements()
	if err != nil {
		return nil, err
	}
	if term.Kind == token.EOF {
		return nil, p.errf(open.Line, "unterminated block <%s>, missing </%s>", open.Lexeme, tag)
	}

	expected := tag
	if kind == ast.OpenQuoted {
		expected = open.Lexeme
	}
	if !strings.EqualFold(strings.TrimSpace(term.Lexeme), expected) {
		return nil, p.errf(term.Line, "mismatched closing tag </%s>, expected </%s>", term.Lexeme, expected)
	}

	return &ast.Block{
		Tag: tag, Name: name, HasName: hasName, OpenKind: kind,
		Children: children, LineNo: open.Line,
	}, nil
}

// splitTagBody splits an open tag's raw body into its tag word and
// optional name/parameter, per §4.4 and §4.1's namedblocks semantics.
// A quoted body (`<"tag name">`) is never split: the whole label is
// the tag, with no separate name.
func splitTagBody(tok token.Token) (tag, name string, hasName bool, kind ast.OpenKind) {
	if tok.Quote == '"' {
		return tok.Lexeme, "", false, ast.OpenQuoted
	}
	body := tok.Lexeme
	idx := strings.IndexAny(body, " \t")
	if idx < 0 {
		return body, "", false, ast.OpenPlain
	}
	tagPart := body[:idx]
	rest := strings.TrimSpace(body[idx+1:])
	if rest == "" {
		return tagPart, "", false, ast.OpenPlain
	}
	return tagPart, trimOneQuoteLayer(rest), true, ast.OpenPlain
}

func trimOneQuoteLayer(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func (p *Parser) parseOption(nameTok token.Token) (*ast.Option, error) {
	valTok, err := p.lex.ScanValue()
	if err != nil {
		return nil, err
	}

	val, err := buildValue(valTok)
	if err != nil {
		return nil, err
	}

	opt := &ast.Option{
		Name:      nameTok.Lexeme,
		Value:     val,
		Separator: mapSeparator(p.lex.LastSeparator()),
		LineNo:    nameTok.Line,
	}

	if next, err := p.next(); err == nil {
		if (next.Kind == token.HashComment || next.Kind == token.CComment) && next.Line == nameTok.Line {
			style := ast.HashStyle
			if next.Kind == token.CComment {
				style = ast.CStyle
			}
			opt.Inline = &ast.Comment{Text: next.Lexeme, Style: style, LineNo: next.Line}
		} else {
			p.pushback(next)
		}
	} else {
		return nil, err
	}

	return opt, nil
}

func mapSeparator(sep byte) ast.Separator {
	switch sep {
	case '=':
		return ast.SepEquals
	case ':':
		return ast.SepColon
	default:
		return ast.SepWhitespace
	}
}

func buildValue(tok token.Token) (ast.Value, error) {
	switch {
	case tok.Kind == token.HeredocBody:
		return ast.Heredoc{Raw: tok.Lexeme, SingleQuoted: tok.Quote == '\'', DoubleQuoted: tok.Quote == '"'}, nil
	case tok.IsArray():
		items := make([]ast.Value, len(tok.Array))
		for i, e := range tok.Array {
			v, err := buildValue(e)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return ast.Array{Items: items}, nil
	case tok.Quote != 0:
		return ast.Quoted{Single: tok.Quote == '\'', Raw: tok.Lexeme}, nil
	case tok.Lexeme == "":
		return ast.Empty{}, nil
	default:
		return ast.Bare{Text: tok.Lexeme}, nil
	}
}

func (p *Parser) parseInclude(tok token.Token) (*ast.Include, error) {
	valTok, err := p.lex.ScanValue()
	if err != nil {
		return nil, err
	}
	if valTok.IsArray() {
		return nil, p.errf(tok.Line, "include path cannot be an array")
	}
	return &ast.Include{
		Path:     valTok.Lexeme,
		Apache:   tok.Kind == token.ApacheInclude || tok.Kind == token.ApacheIncludeOptional,
		Optional: tok.Kind == token.ApacheIncludeOptional,
		LineNo:   tok.Line,
	}, nil
}
