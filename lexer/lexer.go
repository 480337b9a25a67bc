// Package lexer turns Apache-style configuration text into the token
// stream the parser consumes. Scanning happens in two phases per
// logical line: NextStatement reads whatever starts the line (a tag, a
// comment, an include keyword, or a bare option name), and — only for
// an OPTION_NAME or an include keyword — the parser then calls
// ScanValue to read the remainder of the line as the value, honoring quoting,
// arrays, heredocs and line continuation.
package lexer

import (
	"strings"

	aerrors "github.com/lefeck/apacheconf/errors"
	"github.com/lefeck/apacheconf/token"
)

// Lexer scans a single source's text. It does not itself resolve
// includes; the loader drives recursion by constructing one Lexer per
// resolved source.
type Lexer struct {
	source string // canonical id, used only for error messages
	src    []rune
	pos    int
	line   int

	ccomments        bool
	noEscape         bool
	useApacheInclude bool

	lastSeparator byte // 0, '=', or ':'; set by ScanValue
}

// New creates a Lexer over text, identified as source in diagnostics.
func New(source, text string, ccomments, noEscape, useApacheInclude bool) *Lexer {
	return &Lexer{
		source:           source,
		src:              []rune(text),
		pos:              0,
		line:             1,
		ccomments:        ccomments,
		noEscape:         noEscape,
		useApacheInclude: useApacheInclude,
	}
}

// Line returns the current 1-based line number.
func (l *Lexer) Line() int { return l.line }

// Text returns the full source text being scanned, for attaching a
// LineContext snippet to errors raised above the lexer (e.g. by the
// parser).
func (l *Lexer) Text() string { return string(l.src) }

// LastSeparator returns the separator character consumed by the most
// recent ScanValue call: 0 for whitespace, '=' or ':' otherwise.
func (l *Lexer) LastSeparator() byte { return l.lastSeparator }

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() rune {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(offset int) rune {
	idx := l.pos + offset
	if idx < 0 || idx >= len(l.src) {
		return 0
	}
	return l.src[idx]
}

func (l *Lexer) advance() rune {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
	}
	return ch
}

func isHSpace(r rune) bool { return r == ' ' || r == '\t' }

func (l *Lexer) skipHSpace() {
	for !l.atEnd() && isHSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) lexErr(msg string) error {
	return aerrors.New(aerrors.LexError, msg).
		WithSource(l.source).
		WithLine(l.line).
		WithContext(aerrors.LineContext(string(l.src), l.line))
}

// NextStatement reads the next top-level token: EOF, NEWLINE, a tag
// token, a comment, an include keyword, or OPTION_NAME.
func (l *Lexer) NextStatement() (token.Token, error) {
	for {
		l.skipHSpace()
		if l.atEnd() {
			return token.Token{Kind: token.EOF, Line: l.line}, nil
		}

		ch := l.peek()

		if ch == '\r' {
			l.advance()
			continue
		}
		if ch == '\n' {
			startLine := l.line
			l.advance()
			return token.Token{Kind: token.Newline, Line: startLine}, nil
		}
		if ch == '#' {
			return l.scanHashComment(), nil
		}
		if l.ccomments && ch == '/' && l.peekAt(1) == '*' {
			return l.scanCComment()
		}
		if ch == '<' {
			return l.scanTag()
		}

		return l.scanNameOrInclude()
	}
}

func (l *Lexer) scanHashComment() token.Token {
	line := l.line
	l.advance() // '#'
	var b strings.Builder
	for !l.atEnd() && l.peek() != '\n' {
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.HashComment, Lexeme: b.String(), Line: line}
}

func (l *Lexer) scanCComment() (token.Token, error) {
	line := l.line
	l.advance() // '/'
	l.advance() // '*'
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated /* comment")
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.advance()
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.CComment, Lexeme: b.String(), Line: line}, nil
}

// isNameChar reports whether r can appear inside a bare option/tag name
// or value token (i.e. is not a delimiter).
func isNameChar(r rune) bool {
	switch r {
	case 0, ' ', '\t', '\n', '\r', '=', ':', '<', '>':
		return false
	default:
		return true
	}
}

func (l *Lexer) scanNameOrInclude() (token.Token, error) {
	line := l.line
	var b strings.Builder
	for !l.atEnd() && isNameChar(l.peek()) {
		b.WriteRune(l.advance())
	}
	word := b.String()
	if word == "" {
		return token.Token{}, l.lexErr("unexpected character " + string(l.peek()))
	}

	switch {
	case word == "include":
		return token.Token{Kind: token.Include, Lexeme: word, Line: line}, nil
	case strings.EqualFold(word, "include"):
		// The bare "include" keyword is recognized case-insensitively
		// regardless of useapacheinclude (§4.3); only recognizing
		// "IncludeOptional" is gated on that option.
		return token.Token{Kind: token.ApacheInclude, Lexeme: word, Line: line}, nil
	case l.useApacheInclude && strings.EqualFold(word, "includeoptional"):
		return token.Token{Kind: token.ApacheIncludeOptional, Lexeme: word, Line: line}, nil
	default:
		return token.Token{Kind: token.OptionName, Lexeme: word, Line: line}, nil
	}
}

// scanTag handles '<...>' starting at the current position: a closing
// tag, a self-closing tag, or an opening tag.
func (l *Lexer) scanTag() (token.Token, error) {
	line := l.line
	l.advance() // '<'

	closing := false
	if l.peek() == '/' {
		closing = true
		l.advance()
	}

	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated tag")
		}
		if l.peek() == '>' {
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}
	body := b.String()

	if closing {
		trimmed := strings.TrimSpace(body)
		quoted := isQuotedTagBody(trimmed)
		tok := token.Token{Kind: token.CloseTag, Lexeme: strings.TrimSpace(unquoteTagBody(trimmed)), Line: line}
		if quoted {
			tok.Quote = '"'
		}
		return tok, nil
	}

	trimmedRight := strings.TrimRight(body, " \t")
	selfClosing := false
	if strings.HasSuffix(trimmedRight, "/") {
		withoutSlash := trimmedRight[:len(trimmedRight)-1]
		if withoutSlash == "" || isHSpace(rune(withoutSlash[len(withoutSlash)-1])) {
			selfClosing = true
			body = withoutSlash
		}
	}
	trimmedBody := strings.TrimSpace(body)
	quoted := isQuotedTagBody(trimmedBody)
	body = strings.TrimSpace(unquoteTagBody(trimmedBody))

	kind := token.OpenTag
	if selfClosing {
		kind = token.OpenCloseTag
	}
	tok := token.Token{Kind: kind, Lexeme: body, Line: line}
	if quoted {
		tok.Quote = '"'
	}
	return tok, nil
}

// isQuotedTagBody reports whether body is wrapped entirely in double
// quotes, the `<"tag name">` form.
func isQuotedTagBody(body string) bool {
	return len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"'
}

// unquoteTagBody strips a single layer of double quotes wrapping an
// entire tag body (the `<"tag name">` form), which designates the
// whole label as one literal unit.
func unquoteTagBody(body string) string {
	if len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"' {
		return body[1 : len(body)-1]
	}
	return body
}

// ScanValue reads an option's value (or an include's path): called
// once, immediately after NextStatement has returned an OPTION_NAME or
// include-keyword token. It consumes through
// the end of the logical line (including any line-continuation
// extensions) but leaves a trailing inline comment, if any, for the
// next NextStatement call to pick up.
func (l *Lexer) ScanValue() (token.Token, error) {
	line := l.line
	l.skipHSpace()

	l.lastSeparator = 0
	if !l.atEnd() && (l.peek() == '=' || l.peek() == ':') {
		l.lastSeparator = byte(l.peek())
		l.advance()
		l.skipHSpace()
	}

	if l.atEnd() || l.peek() == '\n' || l.peek() == '\r' || l.peek() == '#' ||
		(l.ccomments && l.peek() == '/' && l.peekAt(1) == '*') {
		l.consumeLineEnd()
		return token.Token{Kind: token.OptionValue, Line: line}, nil
	}

	if l.peek() == '<' && l.peekAt(1) == '<' {
		return l.scanHeredoc(line)
	}

	if l.peek() == '[' {
		return l.scanArray(line)
	}

	if l.peek() == '\'' || l.peek() == '"' {
		return l.scanQuotedValue(line)
	}

	return l.scanBareValue(line)
}

// consumeLineEnd advances past the terminating newline (if any),
// leaving any trailing inline comment unconsumed for NextStatement.
func (l *Lexer) consumeLineEnd() {
	if !l.atEnd() && l.peek() == '\n' {
		l.advance()
	}
}

func (l *Lexer) scanBareValue(line int) (token.Token, error) {
	var b strings.Builder
	for {
		if l.atEnd() {
			break
		}
		ch := l.peek()
		if ch == '\\' && l.peekAt(1) == '\n' {
			l.advance() // backslash
			l.advance() // newline
			continue
		}
		if ch == '\\' && !l.atEndAt(1) {
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
			continue
		}
		if ch == '\n' || ch == '\r' {
			break
		}
		if ch == '#' {
			break
		}
		if l.ccomments && ch == '/' && l.peekAt(1) == '*' {
			break
		}
		b.WriteRune(l.advance())
	}
	l.consumeLineEnd()
	return token.Token{Kind: token.OptionValue, Lexeme: b.String(), Line: line}, nil
}

func (l *Lexer) atEndAt(offset int) bool {
	return l.pos+offset >= len(l.src)
}

func (l *Lexer) scanQuotedValue(line int) (token.Token, error) {
	quote := l.advance() // opening quote
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated quoted value")
		}
		ch := l.peek()
		if ch == '\\' && !l.atEndAt(1) {
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
			continue
		}
		if ch == rune(quote) {
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}

	tok := token.Token{Kind: token.OptionValue, Quote: byte(quote), Lexeme: b.String(), Line: line}

	// Trailing bare text on the same logical line concatenates onto the
	// quoted value (§4.3).
	l.skipHSpaceNoNL()
	if !l.atEnd() && !isLineEnd(l.peek()) && l.peek() != '#' &&
		!(l.ccomments && l.peek() == '/' && l.peekAt(1) == '*') {
		trailing, err := l.scanBareValue(line)
		if err != nil {
			return token.Token{}, err
		}
		tok.Lexeme += trailing.Lexeme
		return tok, nil
	}
	l.consumeLineEnd()
	return tok, nil
}

func isLineEnd(r rune) bool { return r == '\n' || r == '\r' }

func (l *Lexer) skipHSpaceNoNL() {
	for !l.atEnd() && isHSpace(l.peek()) {
		l.advance()
	}
}

func (l *Lexer) scanArray(line int) (token.Token, error) {
	l.advance() // '['
	var items []token.Token
	for {
		l.skipHSpaceOrNL()
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated array value")
		}
		if l.peek() == ']' {
			l.advance()
			break
		}
		var item token.Token
		var err error
		if l.peek() == '\'' || l.peek() == '"' {
			item, err = l.scanArrayQuoted()
		} else {
			item, err = l.scanArrayBare()
		}
		if err != nil {
			return token.Token{}, err
		}
		items = append(items, item)
	}
	l.consumeLineEnd()
	return token.Token{Kind: token.OptionValue, Array: items, Line: line}, nil
}

func (l *Lexer) skipHSpaceOrNL() {
	for !l.atEnd() && (isHSpace(l.peek()) || l.peek() == '\n' || l.peek() == '\r') {
		l.advance()
	}
}

func (l *Lexer) scanArrayQuoted() (token.Token, error) {
	line := l.line
	quote := l.advance()
	var b strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated quoted array element")
		}
		ch := l.peek()
		if ch == '\\' && !l.atEndAt(1) {
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
			continue
		}
		if ch == rune(quote) {
			l.advance()
			break
		}
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.OptionValue, Quote: byte(quote), Lexeme: b.String(), Line: line}, nil
}

func (l *Lexer) scanArrayBare() (token.Token, error) {
	line := l.line
	var b strings.Builder
	for !l.atEnd() {
		ch := l.peek()
		if isHSpace(ch) || ch == '\n' || ch == '\r' || ch == ']' {
			break
		}
		if ch == '\\' && !l.atEndAt(1) {
			b.WriteRune(l.advance())
			b.WriteRune(l.advance())
			continue
		}
		b.WriteRune(l.advance())
	}
	return token.Token{Kind: token.OptionValue, Lexeme: b.String(), Line: line}, nil
}

// scanHeredoc handles "<<TAG", "<<\"TAG\"" and "<<'TAG'" markers,
// collecting body lines until one whose trimmed content equals TAG.
func (l *Lexer) scanHeredoc(line int) (token.Token, error) {
	l.advance() // '<'
	l.advance() // '<'

	var quote byte
	if l.peek() == '"' || l.peek() == '\'' {
		quote = byte(l.advance())
	}

	var tagBuf strings.Builder
	for !l.atEnd() && isNameChar(l.peek()) {
		tagBuf.WriteRune(l.advance())
	}
	tag := tagBuf.String()
	if tag == "" {
		return token.Token{}, l.lexErr("empty heredoc tag")
	}
	if quote != 0 {
		if byte(l.peek()) != quote {
			return token.Token{}, l.lexErr("unterminated heredoc tag quote")
		}
		l.advance()
	}

	l.skipHSpaceNoNL()
	if !l.atEnd() && l.peek() != '\n' {
		return token.Token{}, l.lexErr("unexpected text after heredoc marker")
	}
	l.consumeLineEnd()

	var body strings.Builder
	for {
		if l.atEnd() {
			return token.Token{}, l.lexErr("unterminated heredoc, expected closing " + tag)
		}
		lineStart := l.pos
		for !l.atEnd() && l.peek() != '\n' {
			l.advance()
		}
		rawLine := string(l.src[lineStart:l.pos])
		if !l.atEnd() {
			l.advance() // consume newline
		}
		if strings.TrimSpace(rawLine) == tag {
			break
		}
		body.WriteString(rawLine)
		body.WriteByte('\n')
	}

	return token.Token{Kind: token.HeredocBody, Lexeme: body.String(), Quote: quote, Line: line}, nil
}
