package lexer

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/lefeck/apacheconf/token"
)

func TestNextStatementRecognizesOpenAndCloseTags(t *testing.T) {
	l := New("t", "<server name>\n</server>\n", true, false, true)

	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.OpenTag)
	assert.Equal(t, tok.Lexeme, "server name")

	tok, err = l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.Newline)

	tok, err = l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.CloseTag)
	assert.Equal(t, tok.Lexeme, "server")
}

func TestSelfClosingRequiresPrecedingWhitespace(t *testing.T) {
	l := New("t", "<empty />\n", true, false, true)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.OpenCloseTag)
	assert.Equal(t, tok.Lexeme, "empty")
}

func TestSlashWithoutWhitespaceIsPartOfName(t *testing.T) {
	l := New("t", "<noself/>\n", true, false, true)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.OpenTag)
	assert.Equal(t, tok.Lexeme, "noself/")
}

func TestOptionNameThenBareValue(t *testing.T) {
	l := New("t", "name stein\n", true, false, true)
	nameTok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, nameTok.Kind, token.OptionName)
	assert.Equal(t, nameTok.Lexeme, "name")

	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Equal(t, valTok.Kind, token.OptionValue)
	assert.Equal(t, valTok.Lexeme, "stein")
}

func TestEscapedHashDoesNotTerminateBareValue(t *testing.T) {
	l := New("t", `color \#000000`+"\n", true, false, true)
	nameTok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, nameTok.Lexeme, "color")

	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Equal(t, valTok.Lexeme, `\#000000`)
}

func TestQuotedValueWithTrailingBareTextConcatenates(t *testing.T) {
	l := New("t", `key "foo"bar`+"\n", true, false, true)
	_, err := l.NextStatement()
	assert.NilError(t, err)
	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Equal(t, valTok.Quote, byte('"'))
	assert.Equal(t, valTok.Lexeme, "foobar")
}

func TestArrayValue(t *testing.T) {
	l := New("t", `key [ a "b c" d ]`+"\n", true, false, true)
	_, err := l.NextStatement()
	assert.NilError(t, err)
	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Assert(t, valTok.IsArray())
	assert.Equal(t, len(valTok.Array), 3)
	assert.Equal(t, valTok.Array[0].Lexeme, "a")
	assert.Equal(t, valTok.Array[1].Lexeme, "b c")
	assert.Equal(t, valTok.Array[2].Lexeme, "d")
}

func TestHeredoc(t *testing.T) {
	l := New("t", "body <<END\n  line1\n  line2\n  END\n", true, false, true)
	_, err := l.NextStatement()
	assert.NilError(t, err)
	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Equal(t, valTok.Kind, token.HeredocBody)
	assert.Equal(t, valTok.Lexeme, "  line1\n  line2\n")
}

func TestIncludeKeywordAlwaysLowercase(t *testing.T) {
	l := New("t", "include foo.conf\n", true, false, false)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.Include)
}

func TestCapitalizedIncludeRecognizedRegardlessOfOption(t *testing.T) {
	l := New("t", "Include foo.conf\n", true, false, false)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.ApacheInclude)

	l2 := New("t", "Include foo.conf\n", true, false, true)
	tok2, err := l2.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok2.Kind, token.ApacheInclude)
}

func TestIncludeOptionalKeywordRequiresOption(t *testing.T) {
	l := New("t", "IncludeOptional foo.conf\n", true, false, false)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.OptionName)
}

func TestIncludeOptionalKeyword(t *testing.T) {
	l := New("t", "IncludeOptional foo.conf\n", true, false, true)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.ApacheIncludeOptional)
}

func TestHashCommentToken(t *testing.T) {
	l := New("t", "# a comment\n", true, false, true)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.HashComment)
	assert.Equal(t, tok.Lexeme, " a comment")
}

func TestCCommentSpansLines(t *testing.T) {
	l := New("t", "/* line1\nline2 */\n", true, false, true)
	tok, err := l.NextStatement()
	assert.NilError(t, err)
	assert.Equal(t, tok.Kind, token.CComment)
	assert.Equal(t, tok.Lexeme, " line1\nline2 ")
}

func TestEmptyValue(t *testing.T) {
	l := New("t", "option:\n", true, false, true)
	_, err := l.NextStatement()
	assert.NilError(t, err)
	valTok, err := l.ScanValue()
	assert.NilError(t, err)
	assert.Equal(t, valTok.Lexeme, "")
	assert.Equal(t, valTok.Quote, byte(0))
}
