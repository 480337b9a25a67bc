package parser

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/lefeck/apacheconf/ast"
	"github.com/lefeck/apacheconf/lexer"
)

func parse(t *testing.T, text string) *ast.Config {
	t.Helper()
	l := lexer.New("t", text, true, false, true)
	p := New(l, "t")
	cfg, err := p.Parse()
	assert.NilError(t, err)
	return cfg
}

func TestParseEmptyInput(t *testing.T) {
	cfg := parse(t, "")
	assert.Equal(t, len(cfg.Children), 0)
}

func TestParseNestedBlock(t *testing.T) {
	cfg := parse(t, "<cops>\n  name stein\n  <colors>\n    color red\n  </colors>\n</cops>\n")
	assert.Equal(t, len(cfg.Children), 1)

	block, ok := cfg.Children[0].(*ast.Block)
	assert.Assert(t, ok)
	assert.Equal(t, block.Tag, "cops")
	assert.Equal(t, len(block.Children), 2)

	opt, ok := block.Children[0].(*ast.Option)
	assert.Assert(t, ok)
	assert.Equal(t, opt.Name, "name")
	bare, ok := opt.Value.(ast.Bare)
	assert.Assert(t, ok)
	assert.Equal(t, bare.Text, "stein")

	inner, ok := block.Children[1].(*ast.Block)
	assert.Assert(t, ok)
	assert.Equal(t, inner.Tag, "colors")
}

func TestParseSelfClosingBlock(t *testing.T) {
	cfg := parse(t, "<empty />\n")
	block, ok := cfg.Children[0].(*ast.Block)
	assert.Assert(t, ok)
	assert.Assert(t, block.SelfClosing)
	assert.Equal(t, len(block.Children), 0)
}

func TestParseNamedBlock(t *testing.T) {
	cfg := parse(t, "<VirtualHost example.com>\n  port 80\n</VirtualHost>\n")
	block, ok := cfg.Children[0].(*ast.Block)
	assert.Assert(t, ok)
	assert.Equal(t, block.Tag, "VirtualHost")
	assert.Assert(t, block.HasName)
	assert.Equal(t, block.Name, "example.com")
}

func TestParseMismatchedCloseTagFails(t *testing.T) {
	l := lexer.New("t", "<a>\n</b>\n", true, false, true)
	p := New(l, "t")
	_, err := p.Parse()
	assert.ErrorContains(t, err, "mismatched closing tag")
	assert.ErrorContains(t, err, ">>>    2 | </b>")
}

func TestParseUnterminatedBlockFails(t *testing.T) {
	l := lexer.New("t", "<a>\n", true, false, true)
	p := New(l, "t")
	_, err := p.Parse()
	assert.ErrorContains(t, err, "unterminated block")
}

func TestParseIncludeDirective(t *testing.T) {
	cfg := parse(t, "include foo.conf\n")
	inc, ok := cfg.Children[0].(*ast.Include)
	assert.Assert(t, ok)
	assert.Equal(t, inc.Path, "foo.conf")
	assert.Assert(t, !inc.Apache)
	assert.Assert(t, !inc.Optional)
}

func TestParseIncludeOptionalDirective(t *testing.T) {
	cfg := parse(t, "IncludeOptional foo.conf\n")
	inc, ok := cfg.Children[0].(*ast.Include)
	assert.Assert(t, ok)
	assert.Assert(t, inc.Optional)
}

func TestParseInlineCommentAttachesToOption(t *testing.T) {
	cfg := parse(t, "x 1 # trailing\n")
	opt, ok := cfg.Children[0].(*ast.Option)
	assert.Assert(t, ok)
	assert.Assert(t, opt.Inline != nil)
	assert.Equal(t, opt.Inline.Text, " trailing")
}

func TestParseDuplicateOptionsBothPresent(t *testing.T) {
	cfg := parse(t, "x 1\nx 2\n")
	assert.Equal(t, len(cfg.Children), 2)
}
